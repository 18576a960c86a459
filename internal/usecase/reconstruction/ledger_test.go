package reconstruction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

func TestLedger_NewestFirst(t *testing.T) {
	l := NewLedger(0)
	l.Record(marketdatav1.Trade{Price: 64.20, Quantity: 100, Timestamp: 30})
	l.Record(marketdatav1.Trade{Price: 64.25, Quantity: 50, Timestamp: 10})
	l.Record(marketdatav1.Trade{Price: 64.30, Quantity: 75, Timestamp: 20})

	trades := l.Trades()
	require.Len(t, trades, 3)
	assert.Equal(t, int64(30), trades[0].Timestamp)
	assert.Equal(t, int64(20), trades[1].Timestamp)
	assert.Equal(t, int64(10), trades[2].Timestamp)
}

func TestLedger_Truncation(t *testing.T) {
	l := NewLedger(0)
	for i := int64(1); i <= 60; i++ {
		l.Record(marketdatav1.Trade{Price: 64.20, Quantity: i, Timestamp: i})
	}

	trades := l.Trades()
	require.Len(t, trades, DefaultLedgerLimit)
	assert.Equal(t, int64(60), trades[0].Timestamp, "the newest trades survive the cap")
	assert.Equal(t, int64(11), trades[len(trades)-1].Timestamp)
}

func TestLedger_CustomLimit(t *testing.T) {
	l := NewLedger(2)
	l.Record(marketdatav1.Trade{Timestamp: 1})
	l.Record(marketdatav1.Trade{Timestamp: 2})
	l.Record(marketdatav1.Trade{Timestamp: 3})

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, int64(3), l.Trades()[0].Timestamp)
}

func TestLedger_EqualTimestampsKeepInsertOrder(t *testing.T) {
	l := NewLedger(0)
	l.Record(marketdatav1.Trade{Quantity: 1, Timestamp: 10})
	l.Record(marketdatav1.Trade{Quantity: 2, Timestamp: 10})

	trades := l.Trades()
	assert.Equal(t, int64(2), trades[0].Quantity, "the later insert leads at equal timestamps")
}
