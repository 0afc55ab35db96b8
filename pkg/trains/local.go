package trains

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jusunglee/trainusage/internal/dashboard"
	"github.com/jusunglee/trainusage/internal/feed"
	"github.com/jusunglee/trainusage/internal/models"
	"github.com/jusunglee/trainusage/internal/palette"
	"github.com/jusunglee/trainusage/internal/store"
)

// LocalClient implements the Client interface in-process
// Owns the snapshot store, the feed manager and the dashboard session
type LocalClient struct {
	store       *store.Store
	feedManager *feed.Manager
	session     *dashboard.Session
	palette     *palette.Registry
}

// NewLocal creates a new local client without starting the feed
func NewLocal(config Config) *LocalClient {
	if config.SourceURL == "" {
		config.SourceURL = feed.DefaultSourceURL
	}
	if config.Palette == nil {
		config.Palette = palette.Default()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	opts := []feed.Option{feed.WithLogger(config.Logger)}
	if config.Timeout > 0 {
		opts = append(opts, feed.WithHTTPClient(&http.Client{Timeout: config.Timeout}))
	}

	s := store.NewStore()
	return &LocalClient{
		store:       s,
		feedManager: feed.NewManager(config.SourceURL, s, config.UpdateInterval, opts...),
		session:     dashboard.NewSession(),
		palette:     config.Palette,
	}
}

// Start kicks off the background fetch loop
// Close must be called to stop it
func (c *LocalClient) Start() {
	c.feedManager.Start()
}

// Close gracefully shuts down the local client
func (c *LocalClient) Close() {
	c.feedManager.Stop()
}

// Load replaces the dataset directly, bypassing the feed
func (c *LocalClient) Load(source string, records []models.TripRecord) {
	c.store.UpdateRecords(source, records)
}

func (c *LocalClient) GetLines(category models.Category) []palette.Entry {
	if category == "" {
		return c.palette.Entries()
	}
	return c.palette.EntriesIn(category)
}

func (c *LocalClient) GetDatasetInfo() models.DatasetInfo {
	return c.store.Snapshot().Info()
}

func (c *LocalClient) GetPanel(category models.Category, mode models.ChartMode, selection models.Selection) dashboard.Panel {
	return dashboard.BuildPanel(c.store.Snapshot(), category, mode, selection, c.palette)
}

func (c *LocalClient) GetPeaks(category models.Category, selection models.Selection) dashboard.PeakGroup {
	return dashboard.BuildPeaks(c.store.Snapshot(), category, selection, c.palette)
}

func (c *LocalClient) GetDashboard() dashboard.View {
	return dashboard.Build(c.store.Snapshot(), c.session.State(), c.palette)
}

func (c *LocalClient) Select(lines []string) dashboard.State {
	return c.session.Select(lines)
}

func (c *LocalClient) ToggleChartMode() dashboard.State {
	return c.session.ToggleChartMode()
}

func (c *LocalClient) TogglePeaks() dashboard.State {
	return c.session.TogglePeaks()
}

func (c *LocalClient) Refresh(ctx context.Context) error {
	return c.feedManager.Refresh(ctx)
}

func (c *LocalClient) GetLastUpdate() time.Time {
	return c.store.GetLastUpdate()
}
