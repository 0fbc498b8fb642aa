// Package tenant manages the isolated per-organization data containers.
// Each tenant collection is a postgres schema in the tenant database, which
// is operated independently from the master metadata database: there is no
// shared transaction between the two, so callers sequence operations as a
// saga (see internal/org).
package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/orgd/internal/domain"
)

// Manager creates, renames and drops tenant collections.
type Manager struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string, maxConns int32) (*Manager, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("tenant.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("tenant.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("tenant.New: ping: %w", err)
	}

	return &Manager{pool: pool}, nil
}

func (m *Manager) Close() {
	m.pool.Close()
}

// Create provisions an empty tenant collection. The collection imposes no
// schema of its own; the tenant application owns its contents.
func (m *Manager) Create(ctx context.Context, collection string) error {
	_, err := m.pool.Exec(ctx, "CREATE SCHEMA "+pgx.Identifier{collection}.Sanitize())
	if err != nil {
		return fmt.Errorf("tenant.Create: %w", mapSchemaError(err))
	}

	return nil
}

// Rename moves a tenant collection to a new name in a single DDL statement.
func (m *Manager) Rename(ctx context.Context, oldName, newName string) error {
	// ALTER SCHEMA RENAME fails on a taken target only once the statement
	// runs, so probe the target first for a precise error.
	taken, err := m.Exists(ctx, newName)
	if err != nil {
		return fmt.Errorf("tenant.Rename: %w", err)
	}
	if taken {
		return fmt.Errorf("tenant.Rename: %q: %w", newName, domain.ErrCollectionExists)
	}

	_, err = m.pool.Exec(ctx,
		"ALTER SCHEMA "+pgx.Identifier{oldName}.Sanitize()+
			" RENAME TO "+pgx.Identifier{newName}.Sanitize())
	if err != nil {
		return fmt.Errorf("tenant.Rename: %w", mapSchemaError(err))
	}

	return nil
}

// Drop removes a tenant collection and everything in it.
func (m *Manager) Drop(ctx context.Context, collection string) error {
	_, err := m.pool.Exec(ctx, "DROP SCHEMA "+pgx.Identifier{collection}.Sanitize()+" CASCADE")
	if err != nil {
		return fmt.Errorf("tenant.Drop: %w", mapSchemaError(err))
	}

	return nil
}

// Exists reports whether a tenant collection is present.
func (m *Manager) Exists(ctx context.Context, collection string) (bool, error) {
	var exists bool

	err := m.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`,
		collection,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("tenant.Exists: %w", err)
	}

	return exists, nil
}

// mapSchemaError maps postgres DDL errors to domain sentinels.
func mapSchemaError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.DuplicateSchema:
		return domain.ErrCollectionExists
	case pgerrcode.InvalidSchemaName, pgerrcode.UndefinedObject:
		return domain.ErrCollectionNotFound
	default:
		return err
	}
}
