// Package store implements the live collection every portal view reads through:
// a single source of truth per entity, mutated through Add/Update/Delete and
// observed through snapshot subscriptions that publish on mutation.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/OmerBikec/Enid-Beauty/internal/audit"
	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/observability/metrics"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Record is the contract collection entries satisfy. T is the concrete pointer
// type, so Clone gives subscribers detached copies and the backing map is
// never aliased outside the collection.
type Record[T any] interface {
	RecordID() string
	SetRecordID(id string)
	RecordVersion() int64
	SetRecordVersion(v int64)
	OwnerID() string
	Clone() T
}

// Filter selects the records a subscriber or snapshot sees. A nil Filter
// matches everything.
type Filter[T any] func(T) bool

// OwnerScope builds the access-policy filter: admins see the unfiltered
// collection, patients only records they own.
func OwnerScope[T Record[T]](ident identity.Identity) Filter[T] {
	if ident.IsAdmin() {
		return nil
	}
	return func(rec T) bool {
		return rec.OwnerID() == ident.UserID
	}
}

// Options carries the collection's ambient dependencies.
type Options struct {
	Journal audit.Trail
	Metrics *metrics.StoreMetrics
	Logger  *logging.Logger
}

// Collection is a mutex-guarded, observable record set.
type Collection[T Record[T]] struct {
	name string

	mu      sync.RWMutex
	records map[string]T
	order   []string
	applied map[string]string // idempotency key -> record id
	subs    map[int64]*subscriber[T]
	nextSub int64

	journal audit.Trail
	metrics *metrics.StoreMetrics
	logger  *logging.Logger
}

// NewCollection creates an empty collection with the given name.
func NewCollection[T Record[T]](name string, opts Options) *Collection[T] {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Collection[T]{
		name:    name,
		records: make(map[string]T),
		applied: make(map[string]string),
		subs:    make(map[int64]*subscriber[T]),
		journal: opts.Journal,
		metrics: opts.Metrics,
		logger:  logger.WithComponent("store." + name),
	}
}

type mutateOptions struct {
	idempotencyKey  string
	expectedVersion int64
	hasExpected     bool
	actor           string
}

// MutateOption adjusts how a single mutation is applied.
type MutateOption func(*mutateOptions)

// WithIdempotencyKey makes the mutation a safe no-op when the same key was
// already applied to this collection.
func WithIdempotencyKey(key string) MutateOption {
	return func(o *mutateOptions) { o.idempotencyKey = key }
}

// WithExpectedVersion rejects the mutation with ErrConflict unless the stored
// record is still at version v.
func WithExpectedVersion(v int64) MutateOption {
	return func(o *mutateOptions) {
		o.expectedVersion = v
		o.hasExpected = true
	}
}

// WithActor attributes the mutation in the journal.
func WithActor(userID string) MutateOption {
	return func(o *mutateOptions) { o.actor = userID }
}

func buildOptions(opts []MutateOption) mutateOptions {
	var o mutateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Add inserts a record, assigning a fresh id when none is set. The new record
// is visible to every subscriber in the same delivery cycle.
func (c *Collection[T]) Add(ctx context.Context, rec T, opts ...MutateOption) (T, error) {
	o := buildOptions(opts)
	var zero T

	c.mu.Lock()
	if id, ok := c.replayLocked(o.idempotencyKey); ok {
		existing, found := c.records[id]
		c.mu.Unlock()
		if found {
			return existing.Clone(), nil
		}
		return zero, nil
	}

	if rec.RecordID() == "" {
		rec.SetRecordID(uuid.NewString())
	} else if _, exists := c.records[rec.RecordID()]; exists {
		c.mu.Unlock()
		c.metrics.ObserveMutation(c.name, string(audit.ActionAdd), "duplicate")
		return zero, ErrDuplicateID
	}
	rec.SetRecordVersion(1)

	stored := rec.Clone()
	c.records[stored.RecordID()] = stored
	c.order = append(c.order, stored.RecordID())
	c.rememberLocked(o.idempotencyKey, stored.RecordID())
	c.broadcastLocked()
	c.mu.Unlock()

	c.metrics.ObserveMutation(c.name, string(audit.ActionAdd), "ok")
	c.journalMutation(ctx, audit.ActionAdd, stored.RecordID(), 1, o)
	return stored.Clone(), nil
}

// Update applies a merge function to a clone of the stored record and swaps it
// in atomically. A missing id is reported as ErrNotFound rather than being
// silently dropped.
func (c *Collection[T]) Update(ctx context.Context, id string, apply func(T) error, opts ...MutateOption) (T, error) {
	o := buildOptions(opts)
	var zero T

	c.mu.Lock()
	if prior, ok := c.replayLocked(o.idempotencyKey); ok {
		existing, found := c.records[prior]
		c.mu.Unlock()
		if found {
			return existing.Clone(), nil
		}
		return zero, nil
	}

	current, ok := c.records[id]
	if !ok {
		c.mu.Unlock()
		c.metrics.ObserveMutation(c.name, string(audit.ActionUpdate), "not_found")
		return zero, ErrNotFound
	}
	if o.hasExpected && current.RecordVersion() != o.expectedVersion {
		c.mu.Unlock()
		c.metrics.ObserveMutation(c.name, string(audit.ActionUpdate), "conflict")
		return zero, ErrConflict
	}

	next := current.Clone()
	if err := apply(next); err != nil {
		c.mu.Unlock()
		c.metrics.ObserveMutation(c.name, string(audit.ActionUpdate), "rejected")
		return zero, err
	}
	// The merge must not move the record to a different id.
	next.SetRecordID(id)
	next.SetRecordVersion(current.RecordVersion() + 1)

	c.records[id] = next
	c.rememberLocked(o.idempotencyKey, id)
	c.broadcastLocked()
	version := next.RecordVersion()
	c.mu.Unlock()

	c.metrics.ObserveMutation(c.name, string(audit.ActionUpdate), "ok")
	c.journalMutation(ctx, audit.ActionUpdate, id, version, o)
	return next.Clone(), nil
}

// Delete removes a record; subscribers observe its absence on the next
// delivered snapshot.
func (c *Collection[T]) Delete(ctx context.Context, id string, opts ...MutateOption) error {
	o := buildOptions(opts)

	c.mu.Lock()
	if _, ok := c.replayLocked(o.idempotencyKey); ok {
		c.mu.Unlock()
		return nil
	}
	current, ok := c.records[id]
	if !ok {
		c.mu.Unlock()
		c.metrics.ObserveMutation(c.name, string(audit.ActionDelete), "not_found")
		return ErrNotFound
	}
	if o.hasExpected && current.RecordVersion() != o.expectedVersion {
		c.mu.Unlock()
		c.metrics.ObserveMutation(c.name, string(audit.ActionDelete), "conflict")
		return ErrConflict
	}
	version := current.RecordVersion()
	delete(c.records, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.rememberLocked(o.idempotencyKey, id)
	c.broadcastLocked()
	c.mu.Unlock()

	c.metrics.ObserveMutation(c.name, string(audit.ActionDelete), "ok")
	c.journalMutation(ctx, audit.ActionDelete, id, version, o)
	return nil
}

// Get returns a clone of the record at id.
func (c *Collection[T]) Get(id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return rec.Clone(), nil
}

// Snapshot returns the filtered collection in insertion order, cloned.
func (c *Collection[T]) Snapshot(filter Filter[T]) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked(filter)
}

// Len reports the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

func (c *Collection[T]) snapshotLocked(filter Filter[T]) []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		rec, ok := c.records[id]
		if !ok {
			continue
		}
		if filter != nil && !filter(rec) {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out
}

func (c *Collection[T]) replayLocked(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	id, ok := c.applied[key]
	return id, ok
}

func (c *Collection[T]) rememberLocked(key, id string) {
	if key != "" {
		c.applied[key] = id
	}
}

func (c *Collection[T]) journalMutation(ctx context.Context, action audit.Action, id string, version int64, o mutateOptions) {
	if c.journal == nil {
		return
	}
	event := audit.Event{
		Collection:     c.name,
		RecordID:       id,
		Action:         action,
		Actor:          o.actor,
		Version:        version,
		IdempotencyKey: o.idempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}
	if err := c.journal.Append(ctx, event); err != nil {
		// Journal failures must not disturb subscribers or fail the mutation.
		c.logger.Error("journal append failed", "error", err, "record_id", id, "action", string(action))
	}
}
