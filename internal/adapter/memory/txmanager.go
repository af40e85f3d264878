package memory

import "context"

// TxManager satisfies the services' transaction interface for in-process
// storage. Memory repositories have no rollback, so fn runs directly.
type TxManager struct{}

// RunInTx calls fn with ctx.
func (TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
