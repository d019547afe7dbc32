package payments

import (
	"context"
	"time"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Service enforces masking and the approval lifecycle on the payment collection.
type Service struct {
	col    *store.Collection[*Payment]
	logger *logging.Logger
}

func NewService(col *store.Collection[*Payment], logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{col: col, logger: logger}
}

// Submit records a new pending payment for the calling patient.
func (s *Service) Submit(ctx context.Context, ident identity.Identity, req CreateRequest, patientName string, opts ...store.MutateOption) (*Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payment := &Payment{
		UserID:           ident.UserID,
		PatientName:      patientName,
		AmountCents:      req.AmountCents,
		Description:      req.Description,
		CardNumberMasked: MaskCardNumber(req.CardNumber),
		Status:           StatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Add(ctx, payment, opts...)
}

// UpdateStatus approves or rejects a pending payment. Admin only; the amount
// and masked number are immutable here.
func (s *Service) UpdateStatus(ctx context.Context, ident identity.Identity, id string, status Status, opts ...store.MutateOption) (*Payment, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidTransition
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Update(ctx, id, func(p *Payment) error {
		if p.Status != StatusPending {
			return ErrInvalidTransition
		}
		p.Status = status
		return nil
	}, opts...)
}

// List returns the caller-visible payments.
func (s *Service) List(ident identity.Identity) []*Payment {
	return s.col.Snapshot(store.OwnerScope[*Payment](ident))
}

// Watch subscribes the caller to their visible payments.
func (s *Service) Watch(ident identity.Identity, deliver func([]*Payment)) func() {
	return s.col.Subscribe(store.OwnerScope[*Payment](ident), deliver)
}

// DeleteByOwner removes every payment owned by userID, for cascade deletes.
func (s *Service) DeleteByOwner(ctx context.Context, userID string) error {
	for _, p := range s.col.Snapshot(func(p *Payment) bool { return p.UserID == userID }) {
		if err := s.col.Delete(ctx, p.ID); err != nil && err != store.ErrNotFound {
			return err
		}
	}
	return nil
}
