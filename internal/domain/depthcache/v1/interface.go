package depthcachev1

import (
	"context"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// Store caches the latest reconstructed depth view per symbol.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=depthcachev1_mock
type Store interface {
	// Store caches the result under its symbol.
	Store(ctx context.Context, result *marketdatav1.DepthResult) error
	// Load returns the cached result for symbol, nil when none is cached.
	Load(ctx context.Context, symbol string) (*marketdatav1.DepthResult, error)
}
