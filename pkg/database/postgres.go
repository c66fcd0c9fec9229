package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueViolation is the Postgres SQLSTATE for a unique constraint violation
const UniqueViolation = "23505"

type PostgresDB struct {
	Pool     *pgxpool.Pool
	readPool *pgxpool.Pool
}

// NewPostgresDB creates the primary pool and, when readURL differs, a read replica pool
func NewPostgresDB(ctx context.Context, databaseURL, readURL string) (*PostgresDB, error) {
	pool, err := newPool(ctx, databaseURL, 10, 2)
	if err != nil {
		return nil, err
	}

	db := &PostgresDB{Pool: pool, readPool: pool}
	if readURL != "" && readURL != databaseURL {
		readPool, err := newPool(ctx, readURL, 10, 1)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("read replica: %w", err)
		}
		db.readPool = readPool
	}

	return db, nil
}

func newPool(ctx context.Context, url string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = maxConns
	config.MinConns = minConns
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute
	config.ConnConfig.ConnectTimeout = time.Second * 5
	// Supabase pools through pgbouncer in transaction mode, which breaks the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// GetReadPool returns the pool used for SELECT queries
func (db *PostgresDB) GetReadPool() *pgxpool.Pool {
	if db.readPool != nil {
		return db.readPool
	}
	return db.Pool
}

// Close closes the database connection pools
func (db *PostgresDB) Close() {
	if db.readPool != nil && db.readPool != db.Pool {
		db.readPool.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Health checks the database connection
func (db *PostgresDB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// IsUniqueViolation reports whether err is a unique constraint violation
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == UniqueViolation
	}
	return false
}

// IsNoRows reports whether err means the query matched nothing
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
