package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store exposes the record operations over a connection pool. Handlers get a
// Store injected instead of reaching for the package-level pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over the given pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
