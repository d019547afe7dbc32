package appointments

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
	col := store.NewCollection[*Appointment]("appointments", store.Options{})
	return NewService(col, nil)
}

var (
	admin    = identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin}
	patientA = identity.Identity{UserID: "patient-a", Role: identity.RolePatient}
	patientB = identity.Identity{UserID: "patient-b", Role: identity.RolePatient}
)

func TestBookDefaultsToCallerAndPending(t *testing.T) {
	svc := newTestService(t)

	appt, err := svc.Book(context.Background(), patientA, &Appointment{
		Date:   "2026-09-01",
		Time:   "10:00",
		Type:   "Laser Hair Removal",
		Status: StatusConfirmed, // client-supplied status must be ignored
	})
	require.NoError(t, err)

	assert.Equal(t, patientA.UserID, appt.UserID)
	assert.Equal(t, StatusPending, appt.Status)
	assert.NotEmpty(t, appt.ID)
}

func TestBookForAnotherPatientIsForbidden(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Book(context.Background(), patientA, &Appointment{
		UserID: patientB.UserID,
		Date:   "2026-09-01",
		Time:   "10:00",
		Type:   "Botox",
	})
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestAdminBooksOnBehalfOfPatient(t *testing.T) {
	svc := newTestService(t)

	appt, err := svc.Book(context.Background(), admin, &Appointment{
		UserID: patientA.UserID,
		Date:   "2026-09-01",
		Time:   "11:30",
		Type:   "Mesotherapy",
	})
	require.NoError(t, err)
	assert.Equal(t, patientA.UserID, appt.UserID)
}

func TestStatusLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, patientA, &Appointment{Date: "2026-09-01", Time: "10:00", Type: "Botox"})
	require.NoError(t, err)

	// pending -> completed skips confirmation and must be rejected
	_, err = svc.UpdateStatus(ctx, admin, appt.ID, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	confirmed, err := svc.UpdateStatus(ctx, admin, appt.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	completed, err := svc.UpdateStatus(ctx, admin, appt.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)

	// completed is terminal
	_, err = svc.UpdateStatus(ctx, admin, appt.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, patientA, &Appointment{Date: "2026-09-01", Time: "10:00", Type: "Botox"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, patientA, appt.ID, StatusConfirmed)
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestUpdateStatusWithStaleVersionConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	appt, err := svc.Book(ctx, patientA, &Appointment{Date: "2026-09-01", Time: "10:00", Type: "Botox"})
	require.NoError(t, err)

	_, err = svc.SetPrice(ctx, admin, appt.ID, 25000)
	require.NoError(t, err)

	// still holding version 1 while the record moved to 2
	_, err = svc.UpdateStatus(ctx, admin, appt.ID, StatusConfirmed, store.WithExpectedVersion(appt.Version))
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestPatientsOnlySeeOwnBookings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, patientA, &Appointment{Date: "2026-09-01", Time: "10:00", Type: "Botox"})
	require.NoError(t, err)
	_, err = svc.Book(ctx, patientB, &Appointment{Date: "2026-09-02", Time: "12:00", Type: "Filler"})
	require.NoError(t, err)

	forA := svc.List(patientA)
	require.Len(t, forA, 1)
	assert.Equal(t, patientA.UserID, forA[0].UserID)

	assert.Len(t, svc.List(admin), 2)
}

func TestDeleteByOwnerRemovesAllBookings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, patientA, &Appointment{Date: "2026-09-01", Time: "10:00", Type: "Botox"})
	require.NoError(t, err)
	_, err = svc.Book(ctx, patientA, &Appointment{Date: "2026-09-03", Time: "15:00", Type: "Filler"})
	require.NoError(t, err)
	_, err = svc.Book(ctx, patientB, &Appointment{Date: "2026-09-02", Time: "12:00", Type: "Laser"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByOwner(ctx, patientA.UserID))

	assert.Empty(t, svc.List(patientA))
	assert.Len(t, svc.List(admin), 1)
}
