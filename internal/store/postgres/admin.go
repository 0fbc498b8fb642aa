package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/orgd/internal/domain"
)

type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

func (r *AdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admins (id, email, password_hash, organization_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Email, a.PasswordHash, a.OrganizationID, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("adminRepo.Create: %w", mapUniqueViolation(err, domain.ErrDuplicateName))
	}

	return nil
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, organization_id, created_at, updated_at
		 FROM admins WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.OrganizationID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adminRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("adminRepo.GetByEmail: %w", err)
	}

	return &a, nil
}

func (r *AdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	var a domain.Admin

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, organization_id, created_at, updated_at
		 FROM admins WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.OrganizationID, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adminRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("adminRepo.GetByID: %w", err)
	}

	return &a, nil
}

func (r *AdminRepo) Update(ctx context.Context, a *domain.Admin) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admins SET email = $1, password_hash = $2, organization_id = $3, updated_at = now()
		 WHERE id = $4`,
		a.Email, a.PasswordHash, a.OrganizationID, a.ID,
	)
	if err != nil {
		return fmt.Errorf("adminRepo.Update: %w", mapUniqueViolation(err, domain.ErrDuplicateName))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adminRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM admins WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("adminRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adminRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
