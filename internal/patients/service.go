package patients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Cascade removes records owned by a user in a dependent collection.
// Registered cascades run when a patient is deleted, so appointments,
// payments, messages and service records do not outlive their owner.
type Cascade interface {
	DeleteByOwner(ctx context.Context, userID string) error
}

// Service owns the user collection; all profile reads and writes go through it.
type Service struct {
	col      *store.Collection[*Patient]
	cascades []Cascade
	logger   *logging.Logger
}

func NewService(col *store.Collection[*Patient], logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{col: col, logger: logger}
}

// RegisterCascade adds a dependent collection to clean up on patient deletion.
func (s *Service) RegisterCascade(c Cascade) {
	s.cascades = append(s.cascades, c)
}

// Enroll creates a profile without an authorization check. It backs the public
// registration flow; admin checks there are handled by the auth service.
func (s *Service) Enroll(ctx context.Context, p *Patient, opts ...store.MutateOption) (*Patient, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if existing, err := s.FindByLogin(ctx, p.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return s.col.Add(ctx, p, opts...)
}

// Create adds a profile on behalf of an admin.
func (s *Service) Create(ctx context.Context, ident identity.Identity, p *Patient, opts ...store.MutateOption) (*Patient, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	if p.Role == "" {
		p.Role = identity.RolePatient
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.Enroll(ctx, p, opts...)
}

// Get returns one profile; patients may only read their own.
func (s *Service) Get(ctx context.Context, ident identity.Identity, id string) (*Patient, error) {
	if !ident.IsAdmin() && ident.UserID != id {
		return nil, identity.ErrForbidden
	}
	return s.col.Get(id)
}

// Update merges a partial change; patients may only change their own profile.
func (s *Service) Update(ctx context.Context, ident identity.Identity, id string, change Update, opts ...store.MutateOption) (*Patient, error) {
	if !ident.IsAdmin() && ident.UserID != id {
		return nil, identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Update(ctx, id, func(p *Patient) error {
		change.apply(p)
		return p.Validate()
	}, opts...)
}

// Delete removes a profile and everything it owns. Admin only.
func (s *Service) Delete(ctx context.Context, ident identity.Identity, id string, opts ...store.MutateOption) error {
	if !ident.IsAdmin() {
		return identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	if err := s.col.Delete(ctx, id, opts...); err != nil {
		return err
	}
	for _, cascade := range s.cascades {
		if err := cascade.DeleteByOwner(ctx, id); err != nil {
			return fmt.Errorf("patients: cascade delete for %s: %w", id, err)
		}
	}
	s.logger.Info("patient deleted with dependents", "patient_id", id, "actor", ident.UserID)
	return nil
}

// List returns the patient directory for admins.
func (s *Service) List(ident identity.Identity) ([]*Patient, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	return s.col.Snapshot(onlyPatients), nil
}

// Watch streams the patient directory to an admin subscriber.
func (s *Service) Watch(ident identity.Identity, deliver func([]*Patient)) (func(), error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	return s.col.Subscribe(onlyPatients, deliver), nil
}

// FindByLogin matches a profile by email or national id.
func (s *Service) FindByLogin(ctx context.Context, login string) (*Patient, error) {
	login = strings.TrimSpace(strings.ToLower(login))
	if login == "" {
		return nil, store.ErrNotFound
	}
	matches := s.col.Snapshot(func(p *Patient) bool {
		return strings.ToLower(p.Email) == login || (p.NationalID != "" && p.NationalID == login)
	})
	if len(matches) == 0 {
		return nil, store.ErrNotFound
	}
	return matches[0], nil
}

func onlyPatients(p *Patient) bool {
	return p.Role == identity.RolePatient
}
