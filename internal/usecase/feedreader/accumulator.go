package feedreader

import (
	"sync"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// Accumulator collects consumed events into a grouped event log. It is safe
// for a consumer goroutine to append while reconstruction runs take
// snapshots.
type Accumulator struct {
	mu     sync.Mutex
	log    marketdatav1.EventLog
	events int
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		log: make(marketdatav1.EventLog),
	}
}

// Append adds one event under its symbol and order id.
func (a *Accumulator) Append(ev marketdatav1.OrderEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.Append(ev)
	a.events++
}

// Snapshot returns a deep copy of the accumulated log; the accumulator keeps
// collecting independently afterwards.
func (a *Accumulator) Snapshot() marketdatav1.EventLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.log.Clone()
}

// Len reports how many events have been accumulated.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.events
}

// Reset drops the accumulated log and starts over.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = make(marketdatav1.EventLog)
	a.events = 0
}
