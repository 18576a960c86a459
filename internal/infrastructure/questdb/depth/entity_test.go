package depth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

func TestNewRun(t *testing.T) {
	result := &marketdatav1.DepthResult{
		Symbol: "BHP",
		Depth: marketdatav1.Depth{
			Ask: map[string]marketdatav1.DepthLevel{
				"0":  {Price: 64.28, Quantity: 100, Orders: 1, Timestamp: 10},
				"1":  {Price: 64.30, Quantity: 50, Orders: 1, Timestamp: 20},
				"10": {Price: 64.50, Quantity: 25, Orders: 1, Timestamp: 30},
			},
			Bid: map[string]marketdatav1.DepthLevel{
				"0": {Price: 64.20, Quantity: 80, Orders: 2, Timestamp: 40},
			},
		},
		Trades: []marketdatav1.TradeRecord{
			{Price: 64.25, Quantity: 40, Time: 1700000000000.25},
		},
	}

	run := NewRun(result)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "BHP", run.Symbol)
	assert.False(t, run.CreatedAt.IsZero())

	require.Len(t, run.Levels, 4)
	assert.Equal(t, "ask", run.Levels[0].Side)
	assert.Equal(t, 64.28, run.Levels[0].Price)
	assert.Equal(t, 0, run.Levels[0].Rank)
	assert.Equal(t, 64.50, run.Levels[2].Price, "double-digit display ranks keep their order")
	assert.Equal(t, 2, run.Levels[2].Rank)
	assert.Equal(t, "bid", run.Levels[3].Side)

	require.Len(t, run.Trades, 1)
	assert.Equal(t, 1700000000000.25, run.Trades[0].Time)
}

func TestNewRun_DistinctIDs(t *testing.T) {
	result := &marketdatav1.DepthResult{Symbol: "BHP"}
	first := NewRun(result)
	second := NewRun(result)
	assert.NotEqual(t, first.ID, second.ID)
}
