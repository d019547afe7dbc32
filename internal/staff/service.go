package staff

import (
	"context"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Service owns the personnel directory. Any authenticated user may read it;
// only admins change it.
type Service struct {
	col    *store.Collection[*Member]
	logger *logging.Logger
}

func NewService(col *store.Collection[*Member], logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{col: col, logger: logger}
}

// Add registers a new staff member. Admin only.
func (s *Service) Add(ctx context.Context, ident identity.Identity, m *Member, opts ...store.MutateOption) (*Member, error) {
	if !ident.IsAdmin() {
		return nil, identity.ErrForbidden
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Add(ctx, m, opts...)
}

// Delete removes a directory entry. Admin only.
func (s *Service) Delete(ctx context.Context, ident identity.Identity, id string, opts ...store.MutateOption) error {
	if !ident.IsAdmin() {
		return identity.ErrForbidden
	}
	opts = append(opts, store.WithActor(ident.UserID))
	return s.col.Delete(ctx, id, opts...)
}

// List returns the whole directory.
func (s *Service) List() []*Member {
	return s.col.Snapshot(nil)
}

// Watch subscribes to the whole directory.
func (s *Service) Watch(deliver func([]*Member)) func() {
	return s.col.Subscribe(nil, deliver)
}
