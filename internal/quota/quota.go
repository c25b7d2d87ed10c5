// Package quota tracks estimated API units consumed against a daily
// ceiling. The meter is an explicit dependency of the pipeline rather
// than package-level state so tests own their own instance and a
// future move to an external counter stays mechanical.
package quota

import "sync"

// DefaultDailyLimit is the assumed daily ceiling of API units.
const DefaultDailyLimit = 10000

// Snapshot is a point-in-time view of quota consumption.
type Snapshot struct {
	Used      int `json:"used"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

// Meter accumulates consumed units. Safe for concurrent use.
type Meter struct {
	mu    sync.Mutex
	used  int
	total int
}

// NewMeter creates a meter with the given daily ceiling. A
// non-positive ceiling falls back to DefaultDailyLimit.
func NewMeter(total int) *Meter {
	if total <= 0 {
		total = DefaultDailyLimit
	}
	return &Meter{total: total}
}

// Track adds units to the running total and returns the new state.
func (m *Meter) Track(units int) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used += units
	return m.snapshotLocked()
}

// Current returns the state without mutating it.
func (m *Meter) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// ResetDaily zeroes the counter. Invoked by the daily scheduler.
func (m *Meter) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used = 0
}

func (m *Meter) snapshotLocked() Snapshot {
	return Snapshot{
		Used:      m.used,
		Total:     m.total,
		Remaining: m.total - m.used,
	}
}
