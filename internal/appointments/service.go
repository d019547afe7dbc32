package appointments

import (
	"context"
	"time"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Service enforces the booking rules on top of the appointment collection.
type Service struct {
	col    *store.Collection[*Appointment]
	logger *logging.Logger
}

func NewService(col *store.Collection[*Appointment], logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{col: col, logger: logger}
}

// Book creates an appointment. Patients can only book under their own user id;
// admins can book for anyone. New bookings always start pending.
func (s *Service) Book(ctx context.Context, ident identity.Identity, appt *Appointment, opts ...store.MutateOption) (*Appointment, error) {
	if !ident.IsAdmin() {
		if appt.UserID == "" {
			appt.UserID = ident.UserID
		}
		if appt.UserID != ident.UserID {
			return nil, identity.ErrForbidden
		}
	}
	if err := appt.Validate(); err != nil {
		return nil, err
	}
	appt.Status = StatusPending
	appt.CreatedAt = time.Now().UTC()
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Add(ctx, appt, opts...)
}

// UpdateStatus moves an appointment through its lifecycle. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, ident identity.Identity, id string, status Status, opts ...store.MutateOption) (*Appointment, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Update(ctx, id, func(a *Appointment) error {
		if !canTransition(a.Status, status) {
			return ErrInvalidTransition
		}
		a.Status = status
		return nil
	}, opts...)
}

// SetPrice records the quoted price on a booking. Admin only.
func (s *Service) SetPrice(ctx context.Context, ident identity.Identity, id string, priceCents int64, opts ...store.MutateOption) (*Appointment, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Update(ctx, id, func(a *Appointment) error {
		a.PriceCents = priceCents
		return nil
	}, opts...)
}

// List returns the caller-visible bookings.
func (s *Service) List(ident identity.Identity) []*Appointment {
	return s.col.Snapshot(store.OwnerScope[*Appointment](ident))
}

// Watch subscribes the caller to their visible bookings.
func (s *Service) Watch(ident identity.Identity, deliver func([]*Appointment)) func() {
	return s.col.Subscribe(store.OwnerScope[*Appointment](ident), deliver)
}

// DeleteByOwner removes every booking owned by userID, for cascade deletes.
func (s *Service) DeleteByOwner(ctx context.Context, userID string) error {
	for _, appt := range s.col.Snapshot(func(a *Appointment) bool { return a.UserID == userID }) {
		if err := s.col.Delete(ctx, appt.ID); err != nil && err != store.ErrNotFound {
			return err
		}
	}
	return nil
}
