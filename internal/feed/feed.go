package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jusunglee/trainusage/internal/logging"
	"github.com/jusunglee/trainusage/internal/parser"
	"github.com/jusunglee/trainusage/internal/store"
)

// DefaultSourceURL is the published trip count CSV
const DefaultSourceURL = "https://devops-widget-wsu-2024.s3.ap-southeast-2.amazonaws.com/traintimes.csv"

var errStopped = errors.New("feed manager stopped")

// Manager handles fetching the CSV and loading it into the store
type Manager struct {
	sourceURL      string
	store          *store.Store
	updateInterval time.Duration
	httpClient     *http.Client
	logger         *slog.Logger
	group          singleflight.Group
	ctx            context.Context
	cancel         context.CancelFunc
	stopCh         chan struct{}
	stopOnce       sync.Once
	wg             sync.WaitGroup

	mu       sync.Mutex
	stopped  bool
	inflight sync.WaitGroup
}

// Option customises a Manager
type Option func(*Manager)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.httpClient = c }
}

// WithLogger sets the logger used for fetch failures
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a new feed manager. An updateInterval of zero means the
// dataset is fetched once at Start and afterwards only on Refresh.
func NewManager(sourceURL string, s *store.Store, updateInterval time.Duration, opts ...Option) *Manager {
	m := &Manager{
		sourceURL:      sourceURL,
		store:          s,
		updateInterval: updateInterval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
		stopCh: make(chan struct{}),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SourceURL returns the CSV location
func (m *Manager) SourceURL() string {
	return m.sourceURL
}

// Start begins the feed update loop
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.updateLoop()
}

// Stop stops the feed update loop and aborts any fetch still running
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.stopped = true
		m.mu.Unlock()
		close(m.stopCh)
		m.cancel()
	})
	m.wg.Wait()
	m.inflight.Wait()
}

func (m *Manager) updateLoop() {
	defer m.wg.Done()

	if err := m.Refresh(m.ctx); err != nil {
		logging.LogError(m.logger, "Initial update failed", err, slog.String("source", m.sourceURL))
	}

	if m.updateInterval <= 0 {
		<-m.stopCh
		return
	}

	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Refresh(m.ctx); err != nil {
				logging.LogError(m.logger, "Update failed", err, slog.String("source", m.sourceURL))
			}
		case <-m.stopCh:
			return
		}
	}
}

// Refresh fetches and parses the CSV, then replaces the store's snapshot.
// On any error the previous snapshot is left in place. Concurrent calls
// share a single fetch. The fetch belongs to the manager, not to any one
// caller: a caller whose ctx ends stops waiting while the fetch carries on
// for the others until it completes or Stop is called.
func (m *Manager) Refresh(ctx context.Context) error {
	ch := m.group.DoChan("refresh", func() (interface{}, error) {
		m.mu.Lock()
		if m.stopped {
			m.mu.Unlock()
			return nil, errStopped
		}
		m.inflight.Add(1)
		m.mu.Unlock()
		defer m.inflight.Done()

		return nil, m.update(m.ctx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) update(ctx context.Context) error {
	start := time.Now()

	body, err := m.fetchFeed(ctx, m.sourceURL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", m.sourceURL, err)
	}
	defer body.Close()

	records, err := parser.ParseRecords(body)
	if err != nil {
		return fmt.Errorf("parse %s: %w", m.sourceURL, err)
	}

	m.store.UpdateRecords(m.sourceURL, records)

	logging.LogOperation(m.logger, "dataset_loaded",
		slog.String("source", m.sourceURL),
		slog.Int("records", len(records)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (m *Manager) fetchFeed(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return resp.Body, nil
}
