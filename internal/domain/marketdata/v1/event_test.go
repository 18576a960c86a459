package marketdatav1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzuraKiko/CBOE-log/pkg/errors"
)

func TestRawOrderEvent_ToEvent(t *testing.T) {
	t.Run("decodes an add with mixed number encodings", func(t *testing.T) {
		line := `{
			"message_type": "AddOrderMessage",
			"parsed_message": {
				"OrderID": "1234",
				"Symbol": "BHP",
				"SideIndicator": "S",
				"Price": "64.28",
				"Quantity": 100,
				"Timestamp": "1700000000000001",
				"HdrSequence": 42
			}
		}`

		var raw RawOrderEvent
		require.NoError(t, json.Unmarshal([]byte(line), &raw))

		event, err := raw.ToEvent()
		require.NoError(t, err)
		assert.Equal(t, EventAdd, event.Type)
		assert.Equal(t, "1234", event.OrderID)
		assert.Equal(t, "BHP", event.Symbol)
		assert.Equal(t, SideSell, event.Side)
		assert.Equal(t, 64.28, event.Price)
		assert.Equal(t, int64(100), event.Quantity)
		assert.Equal(t, int64(1700000000000001), event.Timestamp)
		assert.Equal(t, int64(42), event.Sequence)
	})

	t.Run("decodes an executed message", func(t *testing.T) {
		line := `{
			"message_type": "OrderExecutedMessage",
			"parsed_message": {
				"OrderID": "1234",
				"Symbol": "BHP",
				"ExecutedQty": "40",
				"Timestamp": 1700000000000002,
				"HdrSequence": "43"
			}
		}`

		var raw RawOrderEvent
		require.NoError(t, json.Unmarshal([]byte(line), &raw))

		event, err := raw.ToEvent()
		require.NoError(t, err)
		assert.Equal(t, EventExecuted, event.Type)
		assert.Equal(t, int64(40), event.ExecutedQty)
	})

	t.Run("rejects a missing payload", func(t *testing.T) {
		raw := RawOrderEvent{MessageType: "AddOrderMessage"}
		_, err := raw.ToEvent()
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.FeedMalformedEvent)))
	})

	t.Run("rejects an unknown message type", func(t *testing.T) {
		raw := RawOrderEvent{
			MessageType: "TradingStatusMessage",
			Parsed:      &RawParsedFields{OrderID: "1", Timestamp: "10"},
		}
		_, err := raw.ToEvent()
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.FeedUnknownMessageType)))
	})

	t.Run("rejects a missing order id", func(t *testing.T) {
		raw := RawOrderEvent{
			MessageType: "DeleteOrderMessage",
			Parsed:      &RawParsedFields{Timestamp: "10"},
		}
		_, err := raw.ToEvent()
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.FeedMalformedEvent)))
	})

	t.Run("rejects a missing timestamp", func(t *testing.T) {
		raw := RawOrderEvent{
			MessageType: "DeleteOrderMessage",
			Parsed:      &RawParsedFields{OrderID: "1"},
		}
		_, err := raw.ToEvent()
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.FeedMalformedEvent)))
	})
}

func TestRawNumber(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawNumber
		wantFloat float64
		wantInt   int64
	}{
		{"plain integer", "100", 100, 100},
		{"decimal string", "64.28", 64.28, 64},
		{"fractional quantity", "100.0", 100, 100},
		{"empty", "", 0, 0},
		{"garbage", "abc", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFloat, tt.raw.Float64())
			assert.Equal(t, tt.wantInt, tt.raw.Int64())
		})
	}
}

func TestEventLog(t *testing.T) {
	log := make(EventLog)
	assert.True(t, log.Empty())
	assert.Equal(t, "", log.FirstSymbol())

	log.Append(OrderEvent{OrderID: "o1", Symbol: "CBA", Timestamp: 1})
	log.Append(OrderEvent{OrderID: "o1", Symbol: "CBA", Timestamp: 2})
	log.Append(OrderEvent{OrderID: "o2", Symbol: "BHP", Timestamp: 3})

	assert.False(t, log.Empty())
	assert.Equal(t, "BHP", log.FirstSymbol())
	assert.Len(t, log["CBA"]["o1"], 2)

	clone := log.Clone()
	clone.Append(OrderEvent{OrderID: "o1", Symbol: "CBA", Timestamp: 4})
	assert.Len(t, log["CBA"]["o1"], 2, "cloning isolates the copy")
	assert.Len(t, clone["CBA"]["o1"], 3)
}
