// Package depthcache caches the latest reconstructed depth view per symbol
// in Redis.
package depthcache

import (
	"context"
	"encoding/json"

	depthcachev1 "github.com/AzuraKiko/CBOE-log/internal/domain/depthcache/v1"
	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
	"github.com/AzuraKiko/CBOE-log/pkg/errors"
	"github.com/AzuraKiko/CBOE-log/pkg/logger"
	"github.com/AzuraKiko/CBOE-log/pkg/redis"
)

const keyPrefix = "depth:"

// Store keeps the newest depth result per symbol in Redis.
type Store struct {
	logger      *logger.Logger
	redisclient redis.Client
}

// Ensure Store implements the cache interface
var _ depthcachev1.Store = (*Store)(nil)

// NewStore creates a new depth cache over the given Redis client.
func NewStore(redisclient redis.Client, logger *logger.Logger) *Store {
	return &Store{
		logger:      logger,
		redisclient: redisclient,
	}
}

// Store caches the result under its symbol, replacing any previous view.
func (s *Store) Store(ctx context.Context, result *marketdatav1.DepthResult) error {
	buf, err := json.Marshal(result)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: result.Symbol,
		})
		return errors.NewTracer(string(errors.DepthCacheError)).Wrap(err)
	}

	if err := s.redisclient.Set(ctx, keyPrefix+result.Symbol, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: result.Symbol,
		})
		return errors.NewTracer(string(errors.DepthCacheError)).Wrap(err)
	}

	s.logger.InfoContext(ctx, "depth view cached",
		logger.Field{Key: "symbol", Value: result.Symbol},
		logger.Field{Key: "trades", Value: len(result.Trades)},
	)
	return nil
}

// Load returns the cached result for symbol, nil when nothing is cached.
func (s *Store) Load(ctx context.Context, symbol string) (*marketdatav1.DepthResult, error) {
	data, err := s.redisclient.Get(ctx, keyPrefix+symbol)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: symbol,
		})
		return nil, errors.NewTracer(string(errors.DepthCacheError)).Wrap(err)
	}

	if data == "" {
		return nil, nil
	}

	var result marketdatav1.DepthResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "symbol",
			Value: symbol,
		})
		return nil, errors.NewTracer(string(errors.DepthCacheError)).Wrap(err)
	}

	return &result, nil
}
