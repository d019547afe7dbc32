package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
)

var (
	admin    = identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin}
	patientA = identity.Identity{UserID: "patient-a", Role: identity.RolePatient}
	patientB = identity.Identity{UserID: "patient-b", Role: identity.RolePatient}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	col := store.NewCollection[*Message]("chat", store.Options{})
	return NewService(col, nil, nil)
}

func TestPatientSendsIntoOwnThread(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.Send(context.Background(), patientA, "", "Emma Carter", "When is my next session?")
	require.NoError(t, err)

	assert.Equal(t, patientA.UserID, msg.PatientID)
	assert.Equal(t, patientA.UserID, msg.SenderID)
	assert.Equal(t, SenderPatient, msg.Sender)
	assert.False(t, msg.IsRead)
}

func TestPatientCannotWriteForeignThread(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Send(context.Background(), patientA, patientB.UserID, "", "hi")
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestAdminRepliesIntoAnyThread(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.Send(context.Background(), admin, patientA.UserID, "Emma Carter", "Your session is on Friday.")
	require.NoError(t, err)

	assert.Equal(t, patientA.UserID, msg.PatientID)
	assert.Equal(t, admin.UserID, msg.SenderID)
	assert.Equal(t, SenderAdmin, msg.Sender)
	assert.True(t, msg.IsRead)
}

func TestSendRejectsEmptyText(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Send(context.Background(), patientA, "", "", "   ")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMarkReadFlagsWholeThread(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, patientA, "", "", "first")
	require.NoError(t, err)
	_, err = svc.Send(ctx, patientA, "", "", "second")
	require.NoError(t, err)
	_, err = svc.Send(ctx, patientB, "", "", "other thread")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, admin, patientA.UserID))

	threadA, err := svc.Thread(admin, patientA.UserID)
	require.NoError(t, err)
	for _, m := range threadA {
		assert.True(t, m.IsRead)
	}

	threadB, err := svc.Thread(admin, patientB.UserID)
	require.NoError(t, err)
	require.Len(t, threadB, 1)
	assert.False(t, threadB[0].IsRead)
}

func TestThreadAccessIsScoped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, patientB, "", "", "private")
	require.NoError(t, err)

	_, err = svc.Thread(patientA, patientB.UserID)
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestWatchNeverLeaksForeignMessages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, patientA, "", "", "mine")
	require.NoError(t, err)
	_, err = svc.Send(ctx, patientB, "", "", "theirs")
	require.NoError(t, err)

	snapshots := make(chan []*Message, 1)
	cancel := svc.Watch(patientA, func(msgs []*Message) {
		select {
		case snapshots <- msgs:
		default:
		}
	})
	defer cancel()

	first := <-snapshots
	require.Len(t, first, 1)
	assert.Equal(t, patientA.UserID, first[0].PatientID)
}

func TestDeleteByOwnerWipesThread(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, patientA, "", "", "one")
	require.NoError(t, err)
	_, err = svc.Send(ctx, patientB, "", "", "two")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByOwner(ctx, patientA.UserID))

	all := svc.List(admin)
	require.Len(t, all, 1)
	assert.Equal(t, patientB.UserID, all[0].PatientID)
}
