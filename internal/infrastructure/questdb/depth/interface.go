package depth

import "context"

// Writer persists reconstruction runs.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=depth_mock
type Writer interface {
	// EnsureTables creates the run tables when they do not exist yet.
	EnsureTables(ctx context.Context) error
	// StoreRun persists one reconstruction run.
	StoreRun(ctx context.Context, run *Run) error
}
