package engine

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	depthcachev1mock "github.com/AzuraKiko/CBOE-log/internal/domain/depthcache/v1/mock"
	feedv1mock "github.com/AzuraKiko/CBOE-log/internal/domain/feed/v1/mock"
	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
	depthmock "github.com/AzuraKiko/CBOE-log/internal/infrastructure/questdb/depth/mock"
	"github.com/AzuraKiko/CBOE-log/internal/usecase/feedreader"
	"github.com/AzuraKiko/CBOE-log/pkg/config"
	"github.com/AzuraKiko/CBOE-log/pkg/errors"
	"github.com/AzuraKiko/CBOE-log/pkg/logger"
)

type testFixture struct {
	ctrl        *gomock.Controller
	mockReader  *feedv1mock.MockReader
	mockCache   *depthcachev1mock.MockStore
	mockWriter  *depthmock.MockWriter
	accumulator *feedreader.Accumulator
	logger      *logger.Logger
	config      *config.Config
}

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	return &testFixture{
		ctrl:        ctrl,
		mockReader:  feedv1mock.NewMockReader(ctrl),
		mockCache:   depthcachev1mock.NewMockStore(ctrl),
		mockWriter:  depthmock.NewMockWriter(ctrl),
		accumulator: feedreader.NewAccumulator(),
		logger:      log,
		config: &config.Config{
			Kafka: config.KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "cboe-feed",
			},
			Depth: config.DepthConfig{
				Exchange:    "CXA",
				Source:      "CXA",
				TopN:        10,
				LedgerLimit: 50,
				Interval:    time.Second,
			},
		},
	}
}

func (f *testFixture) teardown() {
	f.ctrl.Finish()
}

func (f *testFixture) newEngine() *Engine {
	return NewEngine(f.mockReader, f.accumulator, f.mockCache, f.mockWriter, f.logger, f.config)
}

func TestEngine_Reconstruct(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.accumulator.Append(marketdatav1.OrderEvent{
		Type: marketdatav1.EventAdd, OrderID: "o1", Symbol: "BHP",
		Side: marketdatav1.SideBuy, Price: 64.20, Quantity: 100, Timestamp: 10, Sequence: 1,
	})
	fixture.accumulator.Append(marketdatav1.OrderEvent{
		Type: marketdatav1.EventExecuted, OrderID: "o1", Symbol: "BHP",
		ExecutedQty: 40, Timestamp: 20, Sequence: 2,
	})

	fixture.mockCache.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
	fixture.mockWriter.EXPECT().StoreRun(gomock.Any(), gomock.Any()).Return(nil)

	engine := fixture.newEngine()
	result, err := engine.Reconstruct(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "BHP", result.Symbol)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 64.20, result.Trades[0].Price)

	bid := result.Depth.Bid["0"]
	assert.Equal(t, int64(60), bid.Quantity)
	assert.Equal(t, int64(1), bid.Orders)

	assert.Equal(t, 2, engine.LastStats().Applied)
	assert.Equal(t, int64(1), engine.TotalRuns())
}

func TestEngine_Reconstruct_EmptyLog(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	engine := fixture.newEngine()
	result, err := engine.Reconstruct(context.Background())

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.DepthEmptyLog)))
	assert.Equal(t, int64(0), engine.TotalRuns())
}

func TestEngine_Reconstruct_PersistFailuresNotFatal(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	fixture.accumulator.Append(marketdatav1.OrderEvent{
		Type: marketdatav1.EventAdd, OrderID: "o1", Symbol: "BHP",
		Side: marketdatav1.SideSell, Price: 64.28, Quantity: 100, Timestamp: 10, Sequence: 1,
	})

	fixture.mockCache.EXPECT().Store(gomock.Any(), gomock.Any()).
		Return(errors.NewErrorDetails("down", string(errors.DepthCacheError), "redis"))
	fixture.mockWriter.EXPECT().StoreRun(gomock.Any(), gomock.Any()).
		Return(errors.NewErrorDetails("down", string(errors.DepthRepositoryError), "questdb"))

	engine := fixture.newEngine()
	result, err := engine.Reconstruct(context.Background())

	require.NoError(t, err, "cache and repository failures only get logged")
	require.NotNil(t, result)
	assert.Equal(t, int64(1), engine.TotalRuns())
}

func TestEngine_StartStop(t *testing.T) {
	fixture := setupTestFixture(t)
	defer fixture.teardown()

	event := marketdatav1.OrderEvent{
		Type: marketdatav1.EventAdd, OrderID: "o1", Symbol: "BHP",
		Side: marketdatav1.SideBuy, Price: 64.20, Quantity: 100, Timestamp: 10, Sequence: 1,
	}

	first := fixture.mockReader.EXPECT().ReadMessage(gomock.Any()).
		Return(kafka.Message{Offset: 1}, &event, nil)
	fixture.mockReader.EXPECT().ReadMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *marketdatav1.OrderEvent, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		After(first).
		AnyTimes()
	fixture.mockReader.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
	fixture.mockReader.EXPECT().Close().Return(nil)

	engine := fixture.newEngine()
	require.NoError(t, engine.Start(context.Background()))

	require.Eventually(t, func() bool {
		return fixture.accumulator.Len() == 1
	}, time.Second, 10*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, engine.Stop(shutdownCtx))
}
