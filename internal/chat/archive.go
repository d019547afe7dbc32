package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TranscriptArchive keeps a rolling copy of each patient thread in Redis so
// transcripts survive process restarts and can be replayed into a fresh
// collection on boot.
type TranscriptArchive struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

func NewTranscriptArchive(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *TranscriptArchive {
	if client == nil {
		panic("chat: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("enid.internal.chat.archive")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TranscriptArchive{redis: client, tracer: tracer, ttl: ttl}
}

// Append records one message at the end of the patient's transcript and
// refreshes the thread TTL.
func (a *TranscriptArchive) Append(ctx context.Context, msg *Message) error {
	ctx, span := a.tracer.Start(ctx, "chat.archive_append")
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to marshal message: %w", err)
	}
	key := transcriptKey(msg.PatientID)
	pipe := a.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, a.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to persist message: %w", err)
	}
	return nil
}

// Load returns the archived thread for a patient, oldest first. A missing
// thread is an empty transcript, not an error.
func (a *TranscriptArchive) Load(ctx context.Context, patientID string) ([]*Message, error) {
	ctx, span := a.tracer.Start(ctx, "chat.archive_load")
	defer span.End()

	raw, err := a.redis.LRange(ctx, transcriptKey(patientID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("chat: failed to load transcript: %w", err)
	}

	msgs := make([]*Message, 0, len(raw))
	for _, item := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("chat: failed to decode transcript entry: %w", err)
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}

// Purge drops the archived thread for a patient.
func (a *TranscriptArchive) Purge(ctx context.Context, patientID string) error {
	ctx, span := a.tracer.Start(ctx, "chat.archive_purge")
	defer span.End()

	if err := a.redis.Del(ctx, transcriptKey(patientID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chat: failed to purge transcript: %w", err)
	}
	return nil
}

func transcriptKey(patientID string) string {
	return fmt.Sprintf("chat:transcript:%s", patientID)
}
