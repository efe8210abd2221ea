package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBTX abstracts over *sqlx.DB and *sqlx.Tx so adapter queries run
// either directly or inside a transaction carried in the context.
type DBTX interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}
