// Package engine wires the feed consumer and the periodic reconstruction
// runs together and manages their lifecycle.
package engine

import (
	"context"
	"sync"
	"time"

	depthcachev1 "github.com/AzuraKiko/CBOE-log/internal/domain/depthcache/v1"
	feedv1 "github.com/AzuraKiko/CBOE-log/internal/domain/feed/v1"
	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
	depth "github.com/AzuraKiko/CBOE-log/internal/infrastructure/questdb/depth"
	"github.com/AzuraKiko/CBOE-log/internal/usecase/feedreader"
	"github.com/AzuraKiko/CBOE-log/internal/usecase/reconstruction"
	"github.com/AzuraKiko/CBOE-log/pkg/config"
	"github.com/AzuraKiko/CBOE-log/pkg/errors"
	"github.com/AzuraKiko/CBOE-log/pkg/logger"
	"github.com/AzuraKiko/CBOE-log/pkg/util"
)

// Engine consumes feed events into the accumulator and periodically rebuilds
// the depth view from scratch, caching and persisting each run.
type Engine struct {
	reader      feedv1.Reader
	accumulator *feedreader.Accumulator
	cache       depthcachev1.Store
	writer      depth.Writer
	logger      *logger.Logger
	config      *config.Config

	mu        sync.RWMutex
	lastStats reconstruction.Stats
	totalRuns int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	interval    time.Duration
	readBackoff time.Duration
}

// NewEngine creates a new engine with default options.
func NewEngine(
	reader feedv1.Reader,
	accumulator *feedreader.Accumulator,
	cache depthcachev1.Store,
	writer depth.Writer,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(reader, accumulator, cache, writer, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options. The
// configured reconstruction interval wins over the option when set.
func NewEngineWithOptions(
	reader feedv1.Reader,
	accumulator *feedreader.Accumulator,
	cache depthcachev1.Store,
	writer depth.Writer,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	interval := options.Interval
	if config.Depth.Interval > 0 {
		interval = config.Depth.Interval
	}

	return &Engine{
		reader:      reader,
		accumulator: accumulator,
		cache:       cache,
		writer:      writer,
		logger:      logger,
		config:      config,
		interval:    interval,
		readBackoff: options.ReadBackoff,
	}
}

// Start launches the feed consumer and the reconstruction scheduler.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runFeedConsumer()
	go e.runScheduler()

	e.logger.Info("Engine started",
		logger.Field{Key: "topic", Value: e.config.Kafka.Topic},
		logger.Field{Key: "interval", Value: e.interval.String()},
	)
	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runFeedConsumer reads feed messages into the accumulator.
func (e *Engine) runFeedConsumer() {
	defer e.wg.Done()

	e.logger.Info("Starting feed consumer", logger.Field{
		Key:   "topic",
		Value: e.config.Kafka.Topic,
	})

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Feed consumer shutting down")
			e.reader.Close()
			return
		default:
			msg, event, err := e.reader.ReadMessage(e.ctx)
			if err != nil {
				if e.ctx.Err() != nil {
					continue
				}
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_feed_message",
				})
				time.Sleep(e.readBackoff)
				continue
			}

			if err := e.reader.CommitMessages(e.ctx, msg); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "commit_feed_message",
				})
			}

			// a nil event is a malformed message the reader already skipped
			if event != nil {
				e.accumulator.Append(*event)
			}
		}
	}
}

// runScheduler rebuilds the depth view on a fixed interval.
func (e *Engine) runScheduler() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("Starting reconstruction scheduler")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Reconstruction scheduler shutting down")
			return
		case <-ticker.C:
			e.runReconstruction()
		}
	}
}

func (e *Engine) runReconstruction() {
	ctx := util.WithRequestID(e.ctx, "")

	result, err := e.Reconstruct(ctx)
	if err != nil {
		if errors.ErrorCodeEquals(err, string(errors.DepthEmptyLog)) {
			e.logger.DebugContext(ctx, "no events accumulated yet")
			return
		}
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "reconstruct",
		})
		return
	}

	e.logger.InfoContext(ctx, "reconstruction complete",
		logger.Field{Key: "symbol", Value: result.Symbol},
		logger.Field{Key: "trades", Value: len(result.Trades)},
		logger.Field{Key: "latestLevelTime", Value: reconstruction.MaxTimestamp(result.Depth)},
	)
}

// Reconstruct replays everything accumulated so far into a fresh depth view,
// caches it and persists the run. Cache and persistence failures are logged
// but do not fail the run.
func (e *Engine) Reconstruct(ctx context.Context) (*marketdatav1.DepthResult, error) {
	events := e.accumulator.Snapshot()
	if events.Empty() {
		return nil, errors.NewErrorDetails(
			"no events accumulated",
			string(errors.DepthEmptyLog),
			"events",
		)
	}

	pass := reconstruction.NewPass(e.logger, reconstruction.Window{
		Start: e.config.Depth.WindowStart,
		End:   e.config.Depth.WindowEnd,
	}, e.config.Depth.LedgerLimit)

	stats := pass.Run(events)

	result := pass.Result(events.FirstSymbol(), reconstruction.QueryOptions{
		Exchange:       e.config.Depth.Exchange,
		Source:         e.config.Depth.Source,
		ReferencePrice: e.config.Depth.ReferencePrice,
		TopN:           e.config.Depth.TopN,
	})

	if err := e.cache.Store(ctx, &result); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "cache_depth",
		})
	}

	if err := e.writer.StoreRun(ctx, depth.NewRun(&result)); err != nil {
		e.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "persist_run",
		})
	}

	e.mu.Lock()
	e.lastStats = stats
	e.totalRuns++
	e.mu.Unlock()

	return &result, nil
}

// LastStats returns the counters of the most recent reconstruction run.
func (e *Engine) LastStats() reconstruction.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastStats
}

// TotalRuns returns how many reconstruction runs have completed.
func (e *Engine) TotalRuns() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalRuns
}
