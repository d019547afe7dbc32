package patients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
)

var admin = identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin}

func newTestService(t *testing.T) *Service {
	t.Helper()
	col := store.NewCollection[*Patient]("patients", store.Options{})
	return NewService(col, nil)
}

type recordingCascade struct {
	deleted []string
}

func (r *recordingCascade) DeleteByOwner(ctx context.Context, userID string) error {
	r.deleted = append(r.deleted, userID)
	return nil
}

func TestEnrollRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, &Patient{Name: "Emma", Email: "emma@example.com", Role: identity.RolePatient})
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, &Patient{Name: "Other", Email: "EMMA@example.com", Role: identity.RolePatient})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestDeleteRunsCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := &recordingCascade{}
	second := &recordingCascade{}
	svc.RegisterCascade(first)
	svc.RegisterCascade(second)

	p, err := svc.Enroll(ctx, &Patient{Name: "Emma", Email: "emma@example.com", Role: identity.RolePatient})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, p.ID))

	assert.Equal(t, []string{p.ID}, first.deleted)
	assert.Equal(t, []string{p.ID}, second.deleted)

	_, err = svc.Get(ctx, admin, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPatientCannotReadOthers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Enroll(ctx, &Patient{Name: "Emma", Email: "emma@example.com", Role: identity.RolePatient})
	require.NoError(t, err)
	b, err := svc.Enroll(ctx, &Patient{Name: "Sophia", Email: "sophia@example.com", Role: identity.RolePatient})
	require.NoError(t, err)

	identA := identity.Identity{UserID: a.ID, Role: identity.RolePatient}
	_, err = svc.Get(ctx, identA, b.ID)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	self, err := svc.Get(ctx, identA, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, self.ID)
}

func TestListAndWatchAreAdminOnly(t *testing.T) {
	svc := newTestService(t)
	patientIdent := identity.Identity{UserID: "someone", Role: identity.RolePatient}

	_, err := svc.List(patientIdent)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = svc.Watch(patientIdent, func([]*Patient) {})
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestListExcludesAdminAccounts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, &Patient{Name: "Olivia", Email: "admin@example.com", Role: identity.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, &Patient{Name: "Emma", Email: "emma@example.com", Role: identity.RolePatient})
	require.NoError(t, err)

	list, err := svc.List(admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Emma", list[0].Name)
}

func TestFindByLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Enroll(ctx, &Patient{
		Name:       "Emma",
		Email:      "emma@example.com",
		NationalID: "12345678901",
		Role:       identity.RolePatient,
	})
	require.NoError(t, err)

	byEmail, err := svc.FindByLogin(ctx, "Emma@Example.com")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byEmail.ID)

	byNationalID, err := svc.FindByLogin(ctx, "12345678901")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byNationalID.ID)

	_, err = svc.FindByLogin(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
