package chat

import (
	"context"
	"strings"
	"time"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Service runs the patient support threads. Patients write into their own
// thread only; admins write into any thread and see all of them. The live
// collection is the source of truth for subscribers, the archive is a
// best-effort durable copy.
type Service struct {
	col     *store.Collection[*Message]
	archive *TranscriptArchive
	logger  *logging.Logger
}

// NewService wires the chat service. archive may be nil when Redis is not
// configured; the live collection still works, transcripts just do not
// survive restarts.
func NewService(col *store.Collection[*Message], archive *TranscriptArchive, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{col: col, archive: archive, logger: logger}
}

// Send appends a message to a patient thread. The sender identity decides the
// role: a patient can only write into their own thread and is stamped as the
// patient side, an admin writes anywhere and is stamped as the clinic side.
func (s *Service) Send(ctx context.Context, ident identity.Identity, patientID, patientName, text string, opts ...store.MutateOption) (*Message, error) {
	if !ident.IsAdmin() {
		if patientID == "" {
			patientID = ident.UserID
		}
		if patientID != ident.UserID {
			return nil, identity.ErrForbidden
		}
	}
	msg := &Message{
		PatientID:   patientID,
		SenderID:    ident.UserID,
		PatientName: patientName,
		Sender:      SenderPatient,
		Text:        strings.TrimSpace(text),
		CreatedAt:   time.Now().UTC(),
	}
	if ident.IsAdmin() {
		msg.Sender = SenderAdmin
		msg.IsRead = true
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	opts = append(opts, store.WithActor(ident.UserID))
	sent, err := s.col.Add(ctx, msg, opts...)
	if err != nil {
		return nil, err
	}
	if s.archive != nil {
		if err := s.archive.Append(ctx, sent); err != nil {
			s.logger.Error("failed to archive chat message", "error", err, "patient_id", sent.PatientID)
		}
	}
	return sent, nil
}

// MarkRead flags every unread message in a thread as read. Admins can mark
// any thread, patients only their own. Marking an already-read thread is a
// no-op, so callers do not need an idempotency key here.
func (s *Service) MarkRead(ctx context.Context, ident identity.Identity, patientID string) error {
	if !ident.IsAdmin() && patientID != ident.UserID {
		return identity.ErrForbidden
	}
	unread := s.col.Snapshot(func(m *Message) bool {
		return m.PatientID == patientID && !m.IsRead
	})
	for _, msg := range unread {
		_, err := s.col.Update(ctx, msg.ID, func(m *Message) error {
			m.IsRead = true
			return nil
		}, store.WithActor(ident.UserID))
		if err != nil && err != store.ErrNotFound {
			return err
		}
	}
	return nil
}

// Thread returns the messages visible to the caller for one patient.
func (s *Service) Thread(ident identity.Identity, patientID string) ([]*Message, error) {
	if !ident.IsAdmin() && patientID != ident.UserID {
		return nil, identity.ErrForbidden
	}
	return s.col.Snapshot(func(m *Message) bool { return m.PatientID == patientID }), nil
}

// List returns every message the caller may see: the whole board for admins,
// their own thread for patients.
func (s *Service) List(ident identity.Identity) []*Message {
	return s.col.Snapshot(store.OwnerScope[*Message](ident))
}

// Watch subscribes the caller to their visible messages.
func (s *Service) Watch(ident identity.Identity, deliver func([]*Message)) func() {
	return s.col.Subscribe(store.OwnerScope[*Message](ident), deliver)
}

// Restore replays archived transcripts into the live collection. Call once on
// boot before the collection accepts traffic.
func (s *Service) Restore(ctx context.Context, patientIDs []string) error {
	if s.archive == nil {
		return nil
	}
	for _, id := range patientIDs {
		msgs, err := s.archive.Load(ctx, id)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if _, err := s.col.Add(ctx, msg); err != nil && err != store.ErrDuplicateID {
				return err
			}
		}
	}
	return nil
}

// DeleteByOwner wipes a patient's thread, live and archived, for cascade
// deletes.
func (s *Service) DeleteByOwner(ctx context.Context, userID string) error {
	for _, msg := range s.col.Snapshot(func(m *Message) bool { return m.PatientID == userID }) {
		if err := s.col.Delete(ctx, msg.ID); err != nil && err != store.ErrNotFound {
			return err
		}
	}
	if s.archive != nil {
		if err := s.archive.Purge(ctx, userID); err != nil {
			s.logger.Error("failed to purge chat transcript", "error", err, "patient_id", userID)
		}
	}
	return nil
}
