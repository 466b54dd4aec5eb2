package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks the non-transactional path; repositories fall back to the
// connection pool.
var NoTX Tx = nil

// TransactionManager provides a thin abstraction to execute a function
// within a database transaction, passing the underlying transaction
// handle via `tx`. Repositories accept a nil tx for the
// non-transactional path.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
