// Package session holds the one piece of carried-forward state in the
// app: the most recently computed KPI table, so the commentary endpoint
// can reference "the current filtered result" without recomputing it.
// Everything else is recomputed from the database on every request.
package session

import (
	"sync"
	"time"

	"github.com/Oscargtgzz/Rendimientos/internal/kpi"
	"github.com/Oscargtgzz/Rendimientos/internal/roster"
)

// State is the typed carry-forward container. It must be explicitly
// invalidated whenever an upstream change (new upload, empty filter
// result) makes the held table stale; it is never silently reused.
type State struct {
	mu sync.Mutex

	rows       []kpi.VehicleKPI
	info       map[string]roster.VehicleInfo
	computedAt time.Time
	valid      bool
}

func New() *State {
	return &State{}
}

// SetResult stores a freshly computed KPI table. An empty table
// invalidates instead: "no data for selection" must never be served
// from the cache as if it were data.
func (s *State) SetResult(rows []kpi.VehicleKPI, info map[string]roster.VehicleInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(rows) == 0 {
		s.rows, s.info, s.valid = nil, nil, false
		return
	}
	s.rows = rows
	s.info = info
	s.computedAt = time.Now()
	s.valid = true
}

// Invalidate drops the held result.
func (s *State) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows, s.info, s.valid = nil, nil, false
}

// Current returns the held KPI table, or ok=false when nothing valid
// is held.
func (s *State) Current() (rows []kpi.VehicleKPI, info map[string]roster.VehicleInfo, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return nil, nil, false
	}
	return s.rows, s.info, true
}
