package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/dayroute/internal/db"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext inside a transaction,
// then rolls the transaction back like the real unit of work.
//
// Calls are counted from 1. With Match set, only statements containing
// Match are counted, so a test can fail "the third event insert" without
// knowing how many other writes come first. Reads are never counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	execs atomic.Int32
}

// Execs returns how many counted statements ran across all transactions.
func (u *FailOnNthExecUoW) Execs() int {
	return int(u.execs.Load())
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, uow: u}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	uow   *FailOnNthExecUoW
	count atomic.Int32
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.Match != "" && !strings.Contains(query, f.uow.Match) {
		return f.DBTX.ExecContext(ctx, query, args...)
	}
	f.uow.execs.Add(1)
	if f.count.Add(1) == f.uow.FailOn {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
