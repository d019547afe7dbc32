package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	col := store.NewCollection[*Payment]("payments", store.Options{})
	return NewService(col, nil)
}

var (
	admin   = identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin}
	patient = identity.Identity{UserID: "patient-a", Role: identity.RolePatient}
)

func TestSubmitStoresOnlyMaskedCard(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Submit(context.Background(), patient, CreateRequest{
		AmountCents: 150_00,
		Description: "Laser session",
		CardNumber:  "4111 1111 1111 1111",
	}, "Emma Carter")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "**** **** **** 1111", p.CardNumberMasked)
	assert.Equal(t, patient.UserID, p.UserID)
}

func TestSubmitRejectsInvalidCard(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Submit(context.Background(), patient, CreateRequest{
		AmountCents: 100,
		CardNumber:  "1234",
	}, "")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Submit(context.Background(), patient, CreateRequest{
		AmountCents: 0,
		CardNumber:  "4111111111111111",
	}, "")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestApprovalLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Submit(ctx, patient, CreateRequest{AmountCents: 100_00, CardNumber: "4111111111111111"}, "")
	require.NoError(t, err)

	approved, err := svc.UpdateStatus(ctx, admin, p.ID, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	// a settled payment cannot change again
	_, err = svc.UpdateStatus(ctx, admin, p.ID, StatusRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusRejectsPendingAsTarget(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Submit(ctx, patient, CreateRequest{AmountCents: 100_00, CardNumber: "4111111111111111"}, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, admin, p.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Submit(ctx, patient, CreateRequest{AmountCents: 100_00, CardNumber: "4111111111111111"}, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, patient, p.ID, StatusApproved)
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskCardNumber("4111-1111-1111-1111"))
	assert.Equal(t, "**** **** **** 0005", MaskCardNumber("378282246310005"))
	assert.Equal(t, "****", MaskCardNumber("12"))
}

func TestPatientsOnlySeeOwnPayments(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	other := identity.Identity{UserID: "patient-b", Role: identity.RolePatient}

	_, err := svc.Submit(ctx, patient, CreateRequest{AmountCents: 100_00, CardNumber: "4111111111111111"}, "")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, other, CreateRequest{AmountCents: 200_00, CardNumber: "5500005555555559"}, "")
	require.NoError(t, err)

	mine := svc.List(patient)
	require.Len(t, mine, 1)
	assert.Equal(t, patient.UserID, mine[0].UserID)
	assert.Len(t, svc.List(admin), 2)
}
