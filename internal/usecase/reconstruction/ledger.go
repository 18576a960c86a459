package reconstruction

import (
	"sort"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// DefaultLedgerLimit caps the course-of-sales ledger.
const DefaultLedgerLimit = 50

// Ledger is the bounded course-of-sales feed: newest trade first, resorted
// on every insert, truncated to the limit.
type Ledger struct {
	limit  int
	trades []marketdatav1.Trade
}

// NewLedger returns an empty ledger; a non-positive limit falls back to the
// default.
func NewLedger(limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultLedgerLimit
	}
	return &Ledger{limit: limit}
}

// Record prepends the trade, re-sorts descending by timestamp and truncates
// to the limit. The prepend keeps the newest insert ahead of older trades
// that share its timestamp.
func (l *Ledger) Record(trade marketdatav1.Trade) {
	l.trades = append([]marketdatav1.Trade{trade}, l.trades...)
	sort.SliceStable(l.trades, func(i, j int) bool {
		return l.trades[i].Timestamp > l.trades[j].Timestamp
	})
	if len(l.trades) > l.limit {
		l.trades = l.trades[:l.limit]
	}
}

// Trades returns a copy of the ledger, newest first.
func (l *Ledger) Trades() []marketdatav1.Trade {
	out := make([]marketdatav1.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Len reports how many trades the ledger currently holds.
func (l *Ledger) Len() int {
	return len(l.trades)
}
