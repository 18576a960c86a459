package reconstruction

import (
	"sort"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// ReferenceTable maps order id to the order's last-known resting state.
type ReferenceTable map[string]marketdatav1.OrderRecord

// Window bounds a replay in event time, microseconds since epoch. A zero
// bound is open on that end.
type Window struct {
	Start int64
	End   int64
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts int64) bool {
	if w.Start > 0 && ts < w.Start {
		return false
	}
	if w.End > 0 && ts > w.End {
		return false
	}
	return true
}

// buildUnfilteredReference records every order's resting state from its add
// events, deliberately ignoring the replay window. Orders added before the
// window opens still resolve through this table. When an order carries
// several adds the latest one wins.
func buildUnfilteredReference(log marketdatav1.EventLog) ReferenceTable {
	table := make(ReferenceTable)
	for _, byOrder := range log {
		for orderID, events := range byOrder {
			var best *marketdatav1.OrderEvent
			for i := range events {
				ev := &events[i]
				if ev.Type != marketdatav1.EventAdd {
					continue
				}
				if best == nil || ev.Timestamp > best.Timestamp {
					best = ev
				}
			}
			if best != nil {
				table[orderID] = marketdatav1.OrderRecord{
					Price:     best.Price,
					Quantity:  best.Quantity,
					Side:      best.Side,
					Timestamp: best.Timestamp,
				}
			}
		}
	}
	return table
}

// sortEventsAscending orders a per-order event list by timestamp, keeping
// arrival order for equal timestamps.
func sortEventsAscending(events []marketdatav1.OrderEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
}
