package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. Its concrete type is infra-defined
// (pgx.Tx for Postgres). Repositories accept a nil Tx for the
// non-transactional path.
type Tx interface{}

// NoTX is passed by callers that do not run inside a transaction.
var NoTX Tx

// TransactionManager executes fn within a database transaction, passing the
// transaction handle down so repository calls inside fn share it. The
// transaction is rolled back when fn returns an error, committed otherwise.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
