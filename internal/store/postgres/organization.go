package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/orgd/internal/domain"
)

type OrganizationRepo struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepo(pool *pgxpool.Pool) *OrganizationRepo {
	return &OrganizationRepo{pool: pool}
}

func (r *OrganizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO organizations (id, name, collection_name, admin_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, domain.CanonicalName(o.Name), o.CollectionName, o.AdminID, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("organizationRepo.Create: %w", mapUniqueViolation(err, domain.ErrDuplicateName))
	}

	return nil
}

func (r *OrganizationRepo) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	var o domain.Organization

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, collection_name, admin_id, created_at, updated_at
		 FROM organizations WHERE name = $1`,
		domain.CanonicalName(name),
	).Scan(&o.ID, &o.Name, &o.CollectionName, &o.AdminID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("organizationRepo.GetByName: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("organizationRepo.GetByName: %w", err)
	}

	return &o, nil
}

func (r *OrganizationRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool

	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations WHERE name = $1)`,
		domain.CanonicalName(name),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("organizationRepo.NameExists: %w", err)
	}

	return exists, nil
}

func (r *OrganizationRepo) Update(ctx context.Context, o *domain.Organization) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET name = $1, collection_name = $2, admin_id = $3, updated_at = now()
		 WHERE id = $4`,
		domain.CanonicalName(o.Name), o.CollectionName, o.AdminID, o.ID,
	)
	if err != nil {
		return fmt.Errorf("organizationRepo.Update: %w", mapUniqueViolation(err, domain.ErrDuplicateName))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("organizationRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *OrganizationRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM organizations WHERE name = $1`,
		domain.CanonicalName(name),
	)
	if err != nil {
		return fmt.Errorf("organizationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("organizationRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
