// Package session owns the dashboard's snapshot lifecycle: one immutable
// Dataset per session, an advisory cache of aggregates keyed by (operation,
// dataset version, year, filter set), and an explicit invalidate-and-reload
// in place of ambient global state. A multi-session deployment gives each
// session its own instance; snapshots are never shared mutably.
package session

import (
	"fmt"
	"sync"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/core/metrics"
	"strategic_dashboard/pkg/core/report"
	"strategic_dashboard/pkg/models"
)

// Session holds one loaded snapshot and its derived aggregates.
type Session struct {
	path string

	mu    sync.RWMutex
	ds    *models.Dataset
	cache map[string]interface{}
}

// Open loads the workbook at path into a fresh session.
func Open(path string) (*Session, error) {
	ds, err := dataset.LoadWorkbook(path)
	if err != nil {
		return nil, err
	}
	return &Session{path: path, ds: ds, cache: map[string]interface{}{}}, nil
}

// FromDataset wraps an already-built snapshot (tests, alternate loaders).
func FromDataset(ds *models.Dataset) *Session {
	return &Session{ds: ds, cache: map[string]interface{}{}}
}

// Dataset returns the current snapshot. The snapshot itself is immutable;
// callers may hold the reference across calls within one interaction.
func (s *Session) Dataset() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Reload discards the snapshot, loads a new one and invalidates every
// cached aggregate before any subsequent read can observe mixed state.
func (s *Session) Reload() error {
	if s.path == "" {
		return fmt.Errorf("session has no source path to reload from")
	}
	ds, err := dataset.LoadWorkbook(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ds = ds
	s.cache = map[string]interface{}{}
	s.mu.Unlock()
	fmt.Printf("[SESSION] Reloaded snapshot (version %s)\n", ds.Version)
	return nil
}

// Metrics returns the snapshot's tile metrics for a year, cached per
// (dataset version, year).
func (s *Session) Metrics(year int) *metrics.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.keyLocked("metrics", year, "")
	if v, ok := s.cache[key]; ok {
		return v.(*metrics.Snapshot)
	}
	snap := metrics.Summarize(s.ds, year)
	s.cache[key] = snap
	return snap
}

// Aggregate runs the standard filter chain for a year and rolls the result
// up the hierarchy. Cached per (dataset version, year, filter set).
func (s *Session) Aggregate(year int, opts dataset.Options) (*aggregate.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.keyLocked("aggregate", year, optionsKey(opts))
	if v, ok := s.cache[key]; ok {
		return v.(*aggregate.Result), nil
	}
	res, err := aggregate.Aggregate(dataset.Apply(s.ds, opts))
	if err != nil {
		return nil, err
	}
	s.cache[key] = res
	return res, nil
}

// Report assembles the exportable report for one year with the default
// filter chain.
func (s *Session) Report(year int) (*report.Report, error) {
	if year == 0 {
		year = s.Dataset().MaxYear()
	}
	res, err := s.Aggregate(year, dataset.DefaultOptions(year))
	if err != nil {
		return nil, err
	}
	return report.Assemble(s.Metrics(year), res), nil
}

// History returns one indicator's closed-record series. Cheap enough to
// skip the cache.
func (s *Session) History(indicator string) aggregate.History {
	return aggregate.IndicatorHistory(s.Dataset(), indicator)
}

func (s *Session) keyLocked(op string, year int, extra string) string {
	return fmt.Sprintf("%s|%s|%d|%s", op, s.ds.Version, year, extra)
}

// optionsKey renders a filter set into a stable cache key component.
func optionsKey(opts dataset.Options) string {
	return fmt.Sprintf("y%d:w%v:s%s:k%s:l%s:o%s:sb%t:rc%t",
		opts.Year, opts.AllowedYears, opts.Source, opts.Kind,
		dataset.LabelKey(opts.Line), dataset.LabelKey(opts.Objective),
		opts.ExcludeStandBy, opts.RequireCompliance)
}
