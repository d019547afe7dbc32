// Package audit records one immutable journal entry per applied store mutation.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action identifies the kind of mutation journalled.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is a single journalled mutation.
type Event struct {
	ID             string    `json:"id"`
	Collection     string    `json:"collection"`
	RecordID       string    `json:"record_id"`
	Action         Action    `json:"action"`
	Actor          string    `json:"actor,omitempty"`
	Version        int64     `json:"version"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Trail persists mutation events.
type Trail interface {
	Append(ctx context.Context, event Event) error
}

// MemoryTrail keeps events in memory, for development and tests.
type MemoryTrail struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryTrail() *MemoryTrail {
	return &MemoryTrail{}
}

// Append stores the event, stamping id and timestamp when missing.
func (t *MemoryTrail) Append(_ context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	t.mu.Lock()
	t.events = append(t.events, event)
	t.mu.Unlock()
	return nil
}

// Events returns a copy of everything journalled so far.
func (t *MemoryTrail) Events() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}
