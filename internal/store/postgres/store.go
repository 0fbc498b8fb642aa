// Package postgres is the master metadata store: organization and admin
// records shared across all tenants. Tenant data itself lives in the tenant
// database (internal/tenant), never here.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/orgd/internal/domain"
)

type Store struct {
	pool          *pgxpool.Pool
	organizations *OrganizationRepo
	admins        *AdminRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:          pool,
		organizations: NewOrganizationRepo(pool),
		admins:        NewAdminRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Organizations() domain.OrganizationRepository { return s.organizations }
func (s *Store) Admins() domain.AdminRepository               { return s.admins }

// Migrate creates the master tables. The UNIQUE constraints are the
// authoritative uniqueness check: application-level pre-checks only shrink
// the race window, the constraint closes it.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS organizations (
			id              uuid PRIMARY KEY,
			name            text NOT NULL UNIQUE,
			collection_name text NOT NULL UNIQUE,
			admin_id        uuid NOT NULL,
			created_at      timestamptz NOT NULL,
			updated_at      timestamptz NOT NULL
		);

		CREATE TABLE IF NOT EXISTS admins (
			id              uuid PRIMARY KEY,
			email           text NOT NULL UNIQUE,
			password_hash   text NOT NULL,
			organization_id uuid NOT NULL,
			created_at      timestamptz NOT NULL,
			updated_at      timestamptz NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("postgres.Migrate: %w", err)
	}

	return nil
}
