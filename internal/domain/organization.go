package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Organization is the master-store record for one tenant. Name is the
// canonical (lowercase) organization name and is unique case-insensitively;
// CollectionName is derived from Name and names the isolated tenant
// collection backing this organization.
type Organization struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"organization_name"`
	CollectionName string    `json:"collection_name"`
	AdminID        uuid.UUID `json:"admin_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Admin is the single administrator account of one organization.
type Admin struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	OrganizationID uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanonicalName normalizes an organization name to its uniqueness key:
// trimmed and lowercased. Both lookups and writes go through this so the
// case-insensitive uniqueness invariant holds at a single point.
func CanonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type OrganizationRepository interface {
	Create(ctx context.Context, o *Organization) error
	GetByName(ctx context.Context, name string) (*Organization, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, o *Organization) error
	Delete(ctx context.Context, name string) error
}

type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	Update(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id uuid.UUID) error
}
