package questdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// QuestDBClient defines the operations the repositories need from QuestDB.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=questdb_mock
type QuestDBClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
	Close()
}
