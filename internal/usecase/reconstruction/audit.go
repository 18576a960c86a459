package reconstruction

import (
	"sort"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// ActivityLog is the append-only per-price audit of every applied event.
// Entries are recorded at the price the event resolved to: the destination
// price for add and modify, the pre-mutation reference price for delete and
// executed.
type ActivityLog struct {
	entries map[float64][]marketdatav1.PriceActivityEntry
}

// NewActivityLog returns an empty audit log.
func NewActivityLog() *ActivityLog {
	return &ActivityLog{entries: make(map[float64][]marketdatav1.PriceActivityEntry)}
}

// Record appends an entry at price.
func (a *ActivityLog) Record(price float64, entry marketdatav1.PriceActivityEntry) {
	a.entries[price] = append(a.entries[price], entry)
}

// At returns a copy of the entries recorded at price, in insertion order.
func (a *ActivityLog) At(price float64) []marketdatav1.PriceActivityEntry {
	entries := a.entries[price]
	out := make([]marketdatav1.PriceActivityEntry, len(entries))
	copy(out, entries)
	return out
}

// LatestTimestamp returns the newest entry timestamp recorded at price for
// the given side, and whether any entry matched.
func (a *ActivityLog) LatestTimestamp(price float64, side marketdatav1.Side) (int64, bool) {
	var latest int64
	found := false
	for _, entry := range a.entries[price] {
		if entry.Side != side {
			continue
		}
		if !found || entry.Timestamp > latest {
			latest = entry.Timestamp
			found = true
		}
	}
	return latest, found
}

// ByOrder regroups every recorded entry by order id, sorted ascending by
// timestamp within each order.
func (a *ActivityLog) ByOrder() map[string][]marketdatav1.PriceActivityEntry {
	out := make(map[string][]marketdatav1.PriceActivityEntry)
	for _, entries := range a.entries {
		for _, entry := range entries {
			out[entry.OrderID] = append(out[entry.OrderID], entry)
		}
	}
	for _, entries := range out {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp < entries[j].Timestamp
		})
	}
	return out
}
