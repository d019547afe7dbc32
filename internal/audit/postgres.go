package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the slice of pgxpool.Pool the trail needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresTrail persists mutation events in the audit_events table.
type PostgresTrail struct {
	db Execer
}

func NewPostgresTrail(db Execer) *PostgresTrail {
	if db == nil {
		panic("audit: pgx pool required")
	}
	return &PostgresTrail{db: db}
}

// Append inserts one row per event.
func (t *PostgresTrail) Append(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO audit_events (id, collection, record_id, action, actor, version, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := t.db.Exec(ctx, query,
		event.ID,
		event.Collection,
		event.RecordID,
		string(event.Action),
		event.Actor,
		event.Version,
		event.IdempotencyKey,
		event.CreatedAt,
	); err != nil {
		return fmt.Errorf("audit: insert event: %w", err)
	}
	return nil
}
