// Package depth persists reconstruction runs into QuestDB.
package depth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AzuraKiko/CBOE-log/pkg/questdb"
)

// Repository writes reconstruction runs into the depth tables.
type Repository struct {
	client questdb.QuestDBClient
}

// Ensure Repository implements the Writer interface
var _ Writer = (*Repository)(nil)

// NewRepository creates a new depth repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// EnsureTables creates the run tables when they do not exist yet.
func (r *Repository) EnsureTables(ctx context.Context) error {
	levelTable := `CREATE TABLE IF NOT EXISTS depth_levels (
		created_at TIMESTAMP,
		run_id SYMBOL,
		symbol SYMBOL,
		side SYMBOL,
		level_rank INT,
		price DOUBLE,
		quantity LONG,
		open_orders LONG,
		level_time DOUBLE
	) timestamp(created_at) PARTITION BY DAY`

	tradeTable := `CREATE TABLE IF NOT EXISTS depth_trades (
		created_at TIMESTAMP,
		run_id SYMBOL,
		symbol SYMBOL,
		price DOUBLE,
		quantity LONG,
		trade_time DOUBLE
	) timestamp(created_at) PARTITION BY DAY`

	if err := r.client.Exec(ctx, levelTable); err != nil {
		return fmt.Errorf("failed to create depth_levels: %w", err)
	}
	if err := r.client.Exec(ctx, tradeTable); err != nil {
		return fmt.Errorf("failed to create depth_trades: %w", err)
	}
	return nil
}

// StoreRun persists one reconstruction run using CopyFrom batches.
func (r *Repository) StoreRun(ctx context.Context, run *Run) error {
	if len(run.Levels) > 0 {
		_, err := r.client.CopyFrom(
			ctx,
			pgx.Identifier{"depth_levels"},
			[]string{"created_at", "run_id", "symbol", "side", "level_rank", "price", "quantity", "open_orders", "level_time"},
			pgx.CopyFromSlice(len(run.Levels), func(i int) ([]any, error) {
				level := run.Levels[i]
				return []any{
					run.CreatedAt,
					run.ID,
					run.Symbol,
					level.Side,
					level.Rank,
					level.Price,
					level.Quantity,
					level.Orders,
					level.LevelTime,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy depth levels: %w", err)
		}
	}

	if len(run.Trades) > 0 {
		_, err := r.client.CopyFrom(
			ctx,
			pgx.Identifier{"depth_trades"},
			[]string{"created_at", "run_id", "symbol", "price", "quantity", "trade_time"},
			pgx.CopyFromSlice(len(run.Trades), func(i int) ([]any, error) {
				trade := run.Trades[i]
				return []any{
					run.CreatedAt,
					run.ID,
					run.Symbol,
					trade.Price,
					trade.Quantity,
					trade.Time,
				}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to copy depth trades: %w", err)
		}
	}

	return nil
}
