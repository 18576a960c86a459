package depthcache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
	"github.com/AzuraKiko/CBOE-log/pkg/errors"
	"github.com/AzuraKiko/CBOE-log/pkg/logger"
	redis_mock "github.com/AzuraKiko/CBOE-log/pkg/redis/mock"
)

func newTestStore(t *testing.T) (*Store, *redis_mock.MockClient, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	mockRedis := redis_mock.NewMockClient(ctrl)
	return NewStore(mockRedis, log), mockRedis, ctrl
}

func testResult() *marketdatav1.DepthResult {
	return &marketdatav1.DepthResult{
		Symbol: "BHP",
		Depth: marketdatav1.Depth{
			Ask: map[string]marketdatav1.DepthLevel{
				"0": {Symbol: "BHP", Price: 64.28, Quantity: 100, Orders: 1, Side: "ask"},
			},
			Bid: map[string]marketdatav1.DepthLevel{},
		},
		Trades: []marketdatav1.TradeRecord{{Price: 64.25, Quantity: 40, Time: 1700000000000.25}},
	}
}

func TestStore_Store(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store, mockRedis, ctrl := newTestStore(t)
		defer ctrl.Finish()

		mockRedis.EXPECT().
			Set(gomock.Any(), "depth:BHP", gomock.Any(), time.Duration(0)).
			Return(nil)

		assert.NoError(t, store.Store(context.Background(), testResult()))
	})

	t.Run("redis failure", func(t *testing.T) {
		store, mockRedis, ctrl := newTestStore(t)
		defer ctrl.Finish()

		mockRedis.EXPECT().
			Set(gomock.Any(), "depth:BHP", gomock.Any(), time.Duration(0)).
			Return(errors.NewErrorDetails("down", string(errors.RedisSetError), "depth:BHP"))

		assert.Error(t, store.Store(context.Background(), testResult()))
	})
}

func TestStore_Load(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store, mockRedis, ctrl := newTestStore(t)
		defer ctrl.Finish()

		cached, err := json.Marshal(testResult())
		require.NoError(t, err)

		mockRedis.EXPECT().
			Get(gomock.Any(), "depth:BHP").
			Return(string(cached), nil)

		result, err := store.Load(context.Background(), "BHP")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "BHP", result.Symbol)
		assert.Equal(t, 64.28, result.Depth.Ask["0"].Price)
		require.Len(t, result.Trades, 1)
		assert.Equal(t, 1700000000000.25, result.Trades[0].Time)
	})

	t.Run("cache miss returns nil", func(t *testing.T) {
		store, mockRedis, ctrl := newTestStore(t)
		defer ctrl.Finish()

		mockRedis.EXPECT().Get(gomock.Any(), "depth:CBA").Return("", nil)

		result, err := store.Load(context.Background(), "CBA")
		assert.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("redis failure", func(t *testing.T) {
		store, mockRedis, ctrl := newTestStore(t)
		defer ctrl.Finish()

		mockRedis.EXPECT().
			Get(gomock.Any(), "depth:BHP").
			Return("", errors.NewErrorDetails("down", string(errors.RedisGetError), "depth:BHP"))

		_, err := store.Load(context.Background(), "BHP")
		assert.Error(t, err)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		store, mockRedis, ctrl := newTestStore(t)
		defer ctrl.Finish()

		mockRedis.EXPECT().Get(gomock.Any(), "depth:BHP").Return("{not json", nil)

		_, err := store.Load(context.Background(), "BHP")
		assert.Error(t, err)
	})
}
