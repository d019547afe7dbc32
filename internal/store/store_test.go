package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmerBikec/Enid-Beauty/internal/audit"
	"github.com/OmerBikec/Enid-Beauty/internal/identity"
)

type note struct {
	ID      string
	UserID  string
	Text    string
	Version int64
}

func (n *note) RecordID() string        { return n.ID }
func (n *note) SetRecordID(id string)   { n.ID = id }
func (n *note) RecordVersion() int64    { return n.Version }
func (n *note) SetRecordVersion(v int64) { n.Version = v }
func (n *note) OwnerID() string         { return n.UserID }
func (n *note) Clone() *note {
	cp := *n
	return &cp
}

func newTestCollection(t *testing.T) *Collection[*note] {
	t.Helper()
	return NewCollection[*note]("notes", Options{Journal: audit.NewMemoryTrail()})
}

func waitForSnapshot(t *testing.T, ch <-chan []*note) []*note {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestAddAssignsIDAndVersion(t *testing.T) {
	col := newTestCollection(t)

	created, err := col.Add(context.Background(), &note{UserID: "u1", Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.Version)

	got, err := col.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
}

func TestAddDuplicateID(t *testing.T) {
	col := newTestCollection(t)

	_, err := col.Add(context.Background(), &note{ID: "n1", UserID: "u1"})
	require.NoError(t, err)

	_, err = col.Add(context.Background(), &note{ID: "n1", UserID: "u1"})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestUpdateMergesAndBumpsVersion(t *testing.T) {
	col := newTestCollection(t)
	created, err := col.Add(context.Background(), &note{UserID: "u1", Text: "before"})
	require.NoError(t, err)

	updated, err := col.Update(context.Background(), created.ID, func(n *note) error {
		n.Text = "after"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Text)
	assert.Equal(t, "u1", updated.UserID)
	assert.Equal(t, int64(2), updated.Version)
}

func TestUpdateMissingIDIsNotFound(t *testing.T) {
	col := newTestCollection(t)

	_, err := col.Update(context.Background(), "missing", func(n *note) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateVersionConflict(t *testing.T) {
	col := newTestCollection(t)
	created, err := col.Add(context.Background(), &note{UserID: "u1"})
	require.NoError(t, err)

	_, err = col.Update(context.Background(), created.ID, func(n *note) error {
		n.Text = "first"
		return nil
	})
	require.NoError(t, err)

	_, err = col.Update(context.Background(), created.ID, func(n *note) error {
		n.Text = "stale"
		return nil
	}, WithExpectedVersion(1))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDeleteRemovesRecord(t *testing.T) {
	col := newTestCollection(t)
	created, err := col.Add(context.Background(), &note{UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, col.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, col.Delete(context.Background(), created.ID), ErrNotFound)

	_, err = col.Get(created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIdempotentReplayIsNoOp(t *testing.T) {
	col := newTestCollection(t)

	first, err := col.Add(context.Background(), &note{UserID: "u1", Text: "once"}, WithIdempotencyKey("key-1"))
	require.NoError(t, err)

	second, err := col.Add(context.Background(), &note{UserID: "u1", Text: "twice"}, WithIdempotencyKey("key-1"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, col.Len())
	assert.Equal(t, "once", second.Text)
}

func TestSubscribeDeliversInitialAndMutatedSnapshots(t *testing.T) {
	col := newTestCollection(t)
	snaps := make(chan []*note, 8)

	cancel := col.Subscribe(nil, func(s []*note) { snaps <- s })
	defer cancel()

	initial := waitForSnapshot(t, snaps)
	assert.Empty(t, initial)

	created, err := col.Add(context.Background(), &note{UserID: "u1", Text: "v1"})
	require.NoError(t, err)

	next := waitForSnapshot(t, snaps)
	require.Len(t, next, 1)
	assert.Equal(t, created.ID, next[0].ID)

	_, err = col.Update(context.Background(), created.ID, func(n *note) error {
		n.Text = "v2"
		return nil
	})
	require.NoError(t, err)

	merged := waitForSnapshot(t, snaps)
	require.Len(t, merged, 1)
	assert.Equal(t, "v2", merged[0].Text)
	assert.Equal(t, "u1", merged[0].UserID)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	col := newTestCollection(t)
	var calls atomic.Int64

	cancel := col.Subscribe(nil, func([]*note) { calls.Add(1) })

	_, err := col.Add(context.Background(), &note{UserID: "u1"})
	require.NoError(t, err)

	// Wait until at least the initial snapshot landed, then cancel.
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	cancel() // repeated cancels are safe no-ops

	after := calls.Load()
	for i := 0; i < 5; i++ {
		_, err = col.Add(context.Background(), &note{UserID: "u1"})
		require.NoError(t, err)
	}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestOwnerScopeNeverLeaksForeignRecords(t *testing.T) {
	col := newTestCollection(t)
	patientA := identity.Identity{UserID: "a", Role: identity.RolePatient}

	snaps := make(chan []*note, 8)
	cancel := col.Subscribe(OwnerScope[*note](patientA), func(s []*note) { snaps <- s })
	defer cancel()

	waitForSnapshot(t, snaps) // initial, empty

	_, err := col.Add(context.Background(), &note{UserID: "b", Text: "not yours"})
	require.NoError(t, err)
	snap := waitForSnapshot(t, snaps)
	assert.Empty(t, snap, "patient A must not see patient B's record")

	mine, err := col.Add(context.Background(), &note{UserID: "a", Text: "mine"})
	require.NoError(t, err)
	snap = waitForSnapshot(t, snaps)
	require.Len(t, snap, 1)
	assert.Equal(t, mine.ID, snap[0].ID)

	for _, rec := range snap {
		assert.Equal(t, "a", rec.OwnerID())
	}
}

func TestAdminScopeSeesEverything(t *testing.T) {
	col := newTestCollection(t)
	admin := identity.Identity{UserID: "adm", Role: identity.RoleAdmin}

	_, err := col.Add(context.Background(), &note{UserID: "a"})
	require.NoError(t, err)
	_, err = col.Add(context.Background(), &note{UserID: "b"})
	require.NoError(t, err)

	snap := col.Snapshot(OwnerScope[*note](admin))
	assert.Len(t, snap, 2)
}

func TestSnapshotsAreDetachedCopies(t *testing.T) {
	col := newTestCollection(t)
	created, err := col.Add(context.Background(), &note{UserID: "u1", Text: "stable"})
	require.NoError(t, err)

	snap := col.Snapshot(nil)
	require.Len(t, snap, 1)
	snap[0].Text = "tampered"

	got, err := col.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "stable", got.Text)
}

func TestMutationsAreJournalled(t *testing.T) {
	trail := audit.NewMemoryTrail()
	col := NewCollection[*note]("notes", Options{Journal: trail})

	created, err := col.Add(context.Background(), &note{UserID: "u1"}, WithActor("u1"))
	require.NoError(t, err)
	_, err = col.Update(context.Background(), created.ID, func(n *note) error { return nil }, WithActor("adm"))
	require.NoError(t, err)
	require.NoError(t, col.Delete(context.Background(), created.ID, WithActor("adm")))

	events := trail.Events()
	require.Len(t, events, 3)
	assert.Equal(t, audit.ActionAdd, events[0].Action)
	assert.Equal(t, "u1", events[0].Actor)
	assert.Equal(t, audit.ActionUpdate, events[1].Action)
	assert.Equal(t, audit.ActionDelete, events[2].Action)
	assert.Equal(t, created.ID, events[2].RecordID)
}
