package pipeline

import (
	"sync"
	"time"
)

// Status tracks the outcome of the most recent run.
type Status struct {
	mu      sync.RWMutex
	runs    int
	failed  int
	last    *Report
	lastErr error
	lastOK  time.Time
}

// Snapshot is a point-in-time copy of Status.
type Snapshot struct {
	Runs        int       `json:"runs"`
	Failed      int       `json:"failed"`
	LastRun     *Report   `json:"last_run,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	Healthy     bool      `json:"healthy"`
}

// Record stores the outcome of a run.
func (s *Status) Record(report *Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs++
	s.last = report
	s.lastErr = err
	if err != nil {
		s.failed++
	} else {
		s.lastOK = report.StartedAt
	}
}

// Healthy is false only when the most recent run failed.
func (s *Status) Healthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr == nil
}

// Snapshot returns a copy of the current status.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Runs:        s.runs,
		Failed:      s.failed,
		LastSuccess: s.lastOK,
		Healthy:     s.lastErr == nil,
	}
	if s.last != nil {
		r := *s.last
		snap.LastRun = &r
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}
