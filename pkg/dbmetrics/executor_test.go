package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct{}

func (fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (fakeTx) Commit() error                                                     { return nil }
func (fakeTx) Rollback() error                                                   { return nil }

func TestGetExecutor(t *testing.T) {
	fallback := &DB{}

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, fallback, GetExecutor(ctx, fallback))

	tx := fakeTx{}
	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, fallback))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM x"))
	assert.Equal(t, "insert", operation("  INSERT\nINTO x"))
	assert.Equal(t, "unknown", operation(""))
}
