// Package org implements the organization lifecycle: provisioning, rename
// and teardown of tenant collections in lockstep with master-store records.
//
// The master store and the tenant collection store are independent systems
// with no shared transaction, so every multi-step operation runs as a saga:
// forward steps in a fixed order, best-effort compensation on failure, and a
// PartialFailureError when state was left behind that needs repair.
package org

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/orgd/internal/auth"
	"github.com/gosuda/orgd/internal/domain"
	"github.com/gosuda/orgd/internal/notify"
	"github.com/gosuda/orgd/internal/tenant"
)

// CollectionManager abstracts the tenant collection store.
// *tenant.Manager satisfies this interface.
type CollectionManager interface {
	Create(ctx context.Context, collection string) error
	Rename(ctx context.Context, oldName, newName string) error
	Drop(ctx context.Context, collection string) error
}

// NameLocker serializes lifecycle operations per canonical organization
// name. *redis.Locker satisfies this interface.
type NameLocker interface {
	Acquire(ctx context.Context, name string) (release func(), err error)
}

// TokenValidator checks bearer tokens. *auth.Service satisfies this
// interface.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// UpdatePatch carries the optional fields of an update request. Empty
// strings mean "leave unchanged".
type UpdatePatch struct {
	NewName  string
	Email    string
	Password string
}

// Service orchestrates the organization lifecycle.
type Service struct {
	orgs        domain.OrganizationRepository
	admins      domain.AdminRepository
	collections CollectionManager
	locks       NameLocker
	tokens      TokenValidator
	notifier    *notify.Notifier
}

func NewService(
	orgs domain.OrganizationRepository,
	admins domain.AdminRepository,
	collections CollectionManager,
	locks NameLocker,
	tokens TokenValidator,
	notifier *notify.Notifier,
) *Service {
	return &Service{
		orgs:        orgs,
		admins:      admins,
		collections: collections,
		locks:       locks,
		tokens:      tokens,
		notifier:    notifier,
	}
}

// Create provisions a new organization: tenant collection, admin account and
// master record, in that order. On failure after the collection was created,
// the already-committed steps are compensated in reverse so no orphaned
// state outlives the call.
func (s *Service) Create(ctx context.Context, organizationName, email, password string) (*domain.Organization, error) {
	name := domain.CanonicalName(organizationName)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("org.Create: name, email and password are required: %w", domain.ErrInvalidInput)
	}

	collection := tenant.Sanitize(name)

	release, err := s.locks.Acquire(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("org.Create: %w", err)
	}
	defer release()

	exists, err := s.orgs.NameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("org.Create: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("org.Create: %q: %w", name, domain.ErrDuplicateName)
	}

	// A collection left behind by a prior partial failure surfaces as a
	// duplicate: the client must pick another name until it is repaired.
	err = s.collections.Create(ctx, collection)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionExists) {
			return nil, fmt.Errorf("org.Create: %q: %w", collection, domain.ErrDuplicateName)
		}
		return nil, fmt.Errorf("org.Create: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if compErr := s.compensateCreate(ctx, collection, uuid.Nil); compErr != nil {
			return nil, &domain.PartialFailureError{
				Op:              "org.Create",
				Completed:       []string{"create collection"},
				Err:             err,
				CompensationErr: compErr,
			}
		}
		return nil, fmt.Errorf("org.Create: %w", err)
	}

	now := time.Now()
	orgID := uuid.New()
	admin := &domain.Admin{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   hash,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.admins.Create(ctx, admin)
	if err != nil {
		if compErr := s.compensateCreate(ctx, collection, uuid.Nil); compErr != nil {
			return nil, &domain.PartialFailureError{
				Op:              "org.Create",
				Completed:       []string{"create collection"},
				Err:             err,
				CompensationErr: compErr,
			}
		}
		return nil, fmt.Errorf("org.Create: %w", err)
	}

	o := &domain.Organization{
		ID:             orgID,
		Name:           name,
		CollectionName: collection,
		AdminID:        admin.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.orgs.Create(ctx, o)
	if err != nil {
		if compErr := s.compensateCreate(ctx, collection, admin.ID); compErr != nil {
			return nil, &domain.PartialFailureError{
				Op:              "org.Create",
				Completed:       []string{"create collection", "create admin"},
				Err:             err,
				CompensationErr: compErr,
			}
		}
		return nil, fmt.Errorf("org.Create: %w", err)
	}

	s.notifier.OrganizationCreated(ctx, name, collection)

	return o, nil
}

// compensateCreate reverses the committed steps of a failed Create in
// reverse order. adminID may be uuid.Nil when the admin was never inserted.
func (s *Service) compensateCreate(ctx context.Context, collection string, adminID uuid.UUID) error {
	var errs []error

	if adminID != uuid.Nil {
		if err := s.admins.Delete(ctx, adminID); err != nil {
			errs = append(errs, fmt.Errorf("delete admin: %w", err))
		}
	}

	if err := s.collections.Drop(ctx, collection); err != nil {
		errs = append(errs, fmt.Errorf("drop collection: %w", err))
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		log.Error().Err(err).Str("collection", collection).Msg("org: create compensation failed")
		return err
	}

	return nil
}

// Get returns the organization by name. Pure read, no side effects.
func (s *Service) Get(ctx context.Context, organizationName string) (*domain.Organization, error) {
	o, err := s.orgs.GetByName(ctx, organizationName)
	if err != nil {
		return nil, fmt.Errorf("org.Get: %w", err)
	}

	return o, nil
}

// Update applies a patch to an organization: optional rename (collection
// first, master record second, compensating rename back on failure) and
// optional admin email/password changes.
func (s *Service) Update(ctx context.Context, organizationName string, patch UpdatePatch) (*domain.Organization, error) {
	name := domain.CanonicalName(organizationName)

	lockNames := []string{name}
	newName := domain.CanonicalName(patch.NewName)
	renaming := newName != "" && newName != name
	if renaming {
		lockNames = append(lockNames, newName)
		// Lexical order so two concurrent renames cannot deadlock.
		sort.Strings(lockNames)
	}

	for _, n := range lockNames {
		release, err := s.locks.Acquire(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("org.Update: %w", err)
		}
		defer release()
	}

	o, err := s.orgs.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("org.Update: %w", err)
	}

	if renaming {
		err = s.rename(ctx, o, newName)
		if err != nil {
			return nil, err
		}
	}

	if patch.Email != "" || patch.Password != "" {
		err = s.updateAdmin(ctx, o.AdminID, patch.Email, patch.Password)
		if err != nil {
			return nil, fmt.Errorf("org.Update: %w", err)
		}
	}

	return o, nil
}

// rename moves the tenant collection first and the master record second,
// mutating o in place on success.
func (s *Service) rename(ctx context.Context, o *domain.Organization, newName string) error {
	taken, err := s.orgs.NameExists(ctx, newName)
	if err != nil {
		return fmt.Errorf("org.Update: %w", err)
	}
	if taken {
		return fmt.Errorf("org.Update: %q: %w", newName, domain.ErrDuplicateName)
	}

	oldName := o.Name
	oldCollection := o.CollectionName
	newCollection := tenant.Sanitize(newName)

	err = s.collections.Rename(ctx, oldCollection, newCollection)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionExists) {
			return fmt.Errorf("org.Update: %q: %w", newCollection, domain.ErrDuplicateName)
		}
		return fmt.Errorf("org.Update: %w", err)
	}

	o.Name = newName
	o.CollectionName = newCollection

	err = s.orgs.Update(ctx, o)
	if err != nil {
		o.Name = oldName
		o.CollectionName = oldCollection

		if compErr := s.collections.Rename(ctx, newCollection, oldCollection); compErr != nil {
			log.Error().Err(compErr).
				Str("collection", newCollection).
				Msg("org: rename compensation failed")
			return &domain.PartialFailureError{
				Op:              "org.Update",
				Completed:       []string{"rename collection"},
				Err:             err,
				CompensationErr: compErr,
			}
		}
		return fmt.Errorf("org.Update: %w", err)
	}

	s.notifier.OrganizationRenamed(ctx, oldName, newName)

	return nil
}

func (s *Service) updateAdmin(ctx context.Context, adminID uuid.UUID, email, password string) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}

	if email != "" {
		admin.Email = email
	}
	if password != "" {
		hash, hashErr := auth.HashPassword(password)
		if hashErr != nil {
			return hashErr
		}
		admin.PasswordHash = hash
	}
	admin.UpdatedAt = time.Now()

	return s.admins.Update(ctx, admin)
}

// Delete tears down an organization: the caller's token must belong to the
// organization being deleted. Steps run in a fixed order (collection, admin,
// master record); a failure after the first committed step is reported as a
// PartialFailureError and never retried automatically, since the drop cannot
// be compensated.
func (s *Service) Delete(ctx context.Context, organizationName, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return fmt.Errorf("org.Delete: %w", domain.ErrUnauthorized)
	}

	name := domain.CanonicalName(organizationName)

	release, err := s.locks.Acquire(ctx, name)
	if err != nil {
		return fmt.Errorf("org.Delete: %w", err)
	}
	defer release()

	o, err := s.orgs.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("org.Delete: %w", err)
	}

	if claims.OrgID != o.ID.String() {
		return fmt.Errorf("org.Delete: token is scoped to another organization: %w", domain.ErrForbidden)
	}

	err = s.collections.Drop(ctx, o.CollectionName)
	if err != nil {
		return fmt.Errorf("org.Delete: %w", err)
	}

	err = s.admins.Delete(ctx, o.AdminID)
	if err != nil {
		return &domain.PartialFailureError{
			Op:        "org.Delete",
			Completed: []string{"drop collection"},
			Err:       err,
		}
	}

	err = s.orgs.Delete(ctx, name)
	if err != nil {
		return &domain.PartialFailureError{
			Op:        "org.Delete",
			Completed: []string{"drop collection", "delete admin"},
			Err:       err,
		}
	}

	s.notifier.OrganizationDeleted(ctx, name)

	return nil
}
