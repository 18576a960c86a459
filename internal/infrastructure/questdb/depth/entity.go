package depth

import (
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// Run is one persisted reconstruction: the displayed levels and the course of
// sales, tagged with a unique run id.
type Run struct {
	ID        string
	Symbol    string
	CreatedAt time.Time
	Levels    []Level
	Trades    []Trade
}

// Level is one displayed book row of a run.
type Level struct {
	Side     string
	Rank     int
	Price    float64
	Quantity int64
	Orders   int64
	// LevelTime is the level's last-update time in microseconds.
	LevelTime float64
}

// Trade is one course-of-sales row of a run.
type Trade struct {
	Price    float64
	Quantity int64
	// Time is the trade time in milliseconds.
	Time float64
}

// NewRun flattens a depth result into persistable rows under a fresh ulid.
func NewRun(result *marketdatav1.DepthResult) *Run {
	run := &Run{
		ID:        ulid.Make().String(),
		Symbol:    result.Symbol,
		CreatedAt: time.Now().UTC(),
	}

	run.Levels = append(run.Levels, flattenSide("ask", result.Depth.Ask)...)
	run.Levels = append(run.Levels, flattenSide("bid", result.Depth.Bid)...)

	for _, trade := range result.Trades {
		run.Trades = append(run.Trades, Trade{
			Price:    trade.Price,
			Quantity: trade.Quantity,
			Time:     trade.Time,
		})
	}

	return run
}

// flattenSide turns the "0"-indexed display map into rank-ordered rows.
func flattenSide(side string, levels map[string]marketdatav1.DepthLevel) []Level {
	ranks := make([]string, 0, len(levels))
	for rank := range levels {
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool {
		return len(ranks[i]) < len(ranks[j]) || (len(ranks[i]) == len(ranks[j]) && ranks[i] < ranks[j])
	})

	out := make([]Level, 0, len(ranks))
	for i, rank := range ranks {
		level := levels[rank]
		out = append(out, Level{
			Side:      side,
			Rank:      i,
			Price:     level.Price,
			Quantity:  level.Quantity,
			Orders:    level.Orders,
			LevelTime: level.Timestamp,
		})
	}
	return out
}
