package store

import (
	"sync"
	"time"

	"github.com/jusunglee/trainusage/internal/analysis"
	"github.com/jusunglee/trainusage/internal/models"
)

// Snapshot is an immutable view of one loaded dataset. Callers must not
// modify the slices or maps it exposes.
type Snapshot struct {
	Source     string
	Records    []models.TripRecord
	Aggregates map[models.Category][]models.LineHourAggregate
	Peaks      map[models.Category]map[string]models.PeakEntry
	LastUpdate time.Time
}

// Info summarises the snapshot
func (s *Snapshot) Info() models.DatasetInfo {
	hours := make(map[string]bool)
	for _, r := range s.Records {
		hours[r.Hour] = true
	}
	lines := 0
	for _, aggs := range s.Aggregates {
		lines += len(aggs)
	}
	return models.DatasetInfo{
		Source:     s.Source,
		Records:    len(s.Records),
		Lines:      lines,
		Hours:      len(hours),
		LastUpdate: s.LastUpdate,
	}
}

// Store manages the current dataset snapshot
type Store struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewStore creates a new store holding an empty snapshot
func NewStore() *Store {
	return &Store{snapshot: build("", nil, time.Time{})}
}

// UpdateRecords recomputes every aggregate from records and swaps the
// snapshot in one step
func (s *Store) UpdateRecords(source string, records []models.TripRecord) {
	snap := build(source, records, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// Snapshot returns the current snapshot
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// GetLastUpdate returns the last update time
func (s *Store) GetLastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.LastUpdate
}

func build(source string, records []models.TripRecord, at time.Time) *Snapshot {
	owned := make([]models.TripRecord, len(records))
	copy(owned, records)

	metro, regional := analysis.Split(owned)
	metroAggs := analysis.Aggregate(metro)
	regionalAggs := analysis.Aggregate(regional)

	return &Snapshot{
		Source:  source,
		Records: owned,
		Aggregates: map[models.Category][]models.LineHourAggregate{
			models.Metro:    metroAggs,
			models.Regional: regionalAggs,
		},
		Peaks: map[models.Category]map[string]models.PeakEntry{
			models.Metro:    analysis.Peaks(metroAggs),
			models.Regional: analysis.Peaks(regionalAggs),
		},
		LastUpdate: at,
	}
}
