package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/odpc9/attendance-backend-go/internal/pkg/database"
)

type txKey struct{}

// WithTransaction executes fn inside a database transaction. Repositories
// called with the ctx passed to fn join the transaction.
func WithTransaction(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier returns either transaction or pool
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// filterBuilder accumulates WHERE conditions with positional arguments.
type filterBuilder struct {
	where  string
	args   []interface{}
	argIdx int
}

func newFilterBuilder() *filterBuilder {
	return &filterBuilder{where: "TRUE", argIdx: 1}
}

// add appends a condition; %d in cond is replaced by the argument position.
func (f *filterBuilder) add(cond string, arg interface{}) {
	f.where += " AND " + fmt.Sprintf(cond, f.argIdx)
	f.args = append(f.args, arg)
	f.argIdx++
}

// page appends LIMIT/OFFSET placeholders and returns the clause.
func (f *filterBuilder) page(page, limit int) string {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	clause := fmt.Sprintf("LIMIT $%d OFFSET $%d", f.argIdx, f.argIdx+1)
	f.args = append(f.args, limit, (page-1)*limit)
	f.argIdx += 2
	return clause
}
