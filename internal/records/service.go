package records

import (
	"context"
	"time"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Service guards the treatment-course collection. All writes are admin-only;
// patients read their own records.
type Service struct {
	col    *store.Collection[*ServiceRecord]
	logger *logging.Logger
}

func NewService(col *store.Collection[*ServiceRecord], logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{col: col, logger: logger}
}

// Create opens a new treatment course.
func (s *Service) Create(ctx context.Context, ident identity.Identity, rec *ServiceRecord, opts ...store.MutateOption) (*ServiceRecord, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Now().UTC()
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Add(ctx, rec, opts...)
}

// Update merges a partial change, re-validating the session invariant.
func (s *Service) Update(ctx context.Context, ident identity.Identity, id string, change Update, opts ...store.MutateOption) (*ServiceRecord, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Update(ctx, id, func(r *ServiceRecord) error {
		change.apply(r)
		return r.Validate()
	}, opts...)
}

// IncrementSession marks one more delivered session. The course flips to
// completed exactly when the counters meet; a finished course refuses further
// increments.
func (s *Service) IncrementSession(ctx context.Context, ident identity.Identity, id string, opts ...store.MutateOption) (*ServiceRecord, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Update(ctx, id, func(r *ServiceRecord) error {
		if r.TotalSessions > 0 && r.CompletedSessions >= r.TotalSessions {
			return ErrCourseComplete
		}
		r.CompletedSessions++
		r.reconcileStatus()
		return r.Validate()
	}, opts...)
}

// Delete removes a course.
func (s *Service) Delete(ctx context.Context, ident identity.Identity, id string, opts ...store.MutateOption) error {
	if !ident.IsAdmin() {
		return identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Delete(ctx, id, opts...)
}

// List returns the caller-visible records.
func (s *Service) List(ident identity.Identity) []*ServiceRecord {
	return s.col.Snapshot(store.OwnerScope[*ServiceRecord](ident))
}

// Watch subscribes the caller to their visible records.
func (s *Service) Watch(ident identity.Identity, deliver func([]*ServiceRecord)) func() {
	return s.col.Subscribe(store.OwnerScope[*ServiceRecord](ident), deliver)
}

// DeleteByOwner removes every record owned by userID, for cascade deletes.
func (s *Service) DeleteByOwner(ctx context.Context, userID string) error {
	for _, rec := range s.col.Snapshot(func(r *ServiceRecord) bool { return r.UserID == userID }) {
		if err := s.col.Delete(ctx, rec.ID); err != nil && err != store.ErrNotFound {
			return err
		}
	}
	return nil
}
