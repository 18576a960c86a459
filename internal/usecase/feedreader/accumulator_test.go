package feedreader

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

func TestAccumulator_AppendAndSnapshot(t *testing.T) {
	a := NewAccumulator()
	a.Append(marketdatav1.OrderEvent{OrderID: "o1", Symbol: "BHP", Timestamp: 1})
	a.Append(marketdatav1.OrderEvent{OrderID: "o1", Symbol: "BHP", Timestamp: 2})
	a.Append(marketdatav1.OrderEvent{OrderID: "o2", Symbol: "BHP", Timestamp: 3})

	assert.Equal(t, 3, a.Len())

	snapshot := a.Snapshot()
	require.Len(t, snapshot["BHP"]["o1"], 2)

	// the snapshot is detached from later appends
	a.Append(marketdatav1.OrderEvent{OrderID: "o1", Symbol: "BHP", Timestamp: 4})
	assert.Len(t, snapshot["BHP"]["o1"], 2)
	assert.Equal(t, 4, a.Len())
}

func TestAccumulator_Reset(t *testing.T) {
	a := NewAccumulator()
	a.Append(marketdatav1.OrderEvent{OrderID: "o1", Symbol: "BHP", Timestamp: 1})
	a.Reset()

	assert.Equal(t, 0, a.Len())
	assert.True(t, a.Snapshot().Empty())
}

func TestAccumulator_ConcurrentAppends(t *testing.T) {
	a := NewAccumulator()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.Append(marketdatav1.OrderEvent{OrderID: "o1", Symbol: "BHP", Timestamp: int64(j)})
				if j%10 == 0 {
					_ = a.Snapshot()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 800, a.Len())
}
