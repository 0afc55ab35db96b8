package trains

import (
	"context"
	"log/slog"
	"time"

	"github.com/jusunglee/trainusage/internal/dashboard"
	"github.com/jusunglee/trainusage/internal/feed"
	"github.com/jusunglee/trainusage/internal/models"
	"github.com/jusunglee/trainusage/internal/palette"
)

// Client defines the interface for accessing trip usage data
// Abstracts the loaded dataset and dashboard state behind one interface
type Client interface {
	GetLines(category models.Category) []palette.Entry
	GetDatasetInfo() models.DatasetInfo

	GetPanel(category models.Category, mode models.ChartMode, selection models.Selection) dashboard.Panel
	GetPeaks(category models.Category, selection models.Selection) dashboard.PeakGroup

	GetDashboard() dashboard.View
	Select(lines []string) dashboard.State
	ToggleChartMode() dashboard.State
	TogglePeaks() dashboard.State

	Refresh(ctx context.Context) error
	GetLastUpdate() time.Time
}

// Config holds configuration for the client
// SourceURL points at the trip count CSV
type Config struct {
	SourceURL      string
	UpdateInterval time.Duration
	Timeout        time.Duration
	Palette        *palette.Registry
	Logger         *slog.Logger
}

// DefaultConfig returns default configuration
// A zero update interval fetches once and then only on Refresh
func DefaultConfig() Config {
	return Config{
		SourceURL: feed.DefaultSourceURL,
		Timeout:   30 * time.Second,
	}
}
