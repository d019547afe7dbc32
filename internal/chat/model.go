package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid marks chat message validation failures.
var ErrInvalid = errors.New("chat: invalid message")

// SenderRole says which side of the conversation wrote a message.
type SenderRole string

const (
	SenderPatient SenderRole = "patient"
	SenderAdmin   SenderRole = "admin"
)

// Message is one entry in a patient's support thread. Threads are append-only:
// messages are never edited or removed except when the whole patient account
// goes away.
type Message struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patientId"`
	SenderID    string     `json:"senderId"`
	PatientName string     `json:"patientName,omitempty"`
	Sender      SenderRole `json:"sender"`
	Text        string     `json:"text"`
	IsRead      bool       `json:"isRead"`
	CreatedAt   time.Time  `json:"createdAt"`
	Version     int64      `json:"version"`
}

func (m *Message) RecordID() string         { return m.ID }
func (m *Message) SetRecordID(id string)    { m.ID = id }
func (m *Message) RecordVersion() int64     { return m.Version }
func (m *Message) SetRecordVersion(v int64) { m.Version = v }

// OwnerID scopes the thread to its patient, not the individual sender, so an
// admin reply still shows up in the patient's subscription.
func (m *Message) OwnerID() string { return m.PatientID }

func (m *Message) Clone() *Message {
	cp := *m
	return &cp
}

func (m *Message) Validate() error {
	if m.PatientID == "" {
		return fmt.Errorf("%w: patientId is required", ErrInvalid)
	}
	if strings.TrimSpace(m.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalid)
	}
	switch m.Sender {
	case SenderPatient, SenderAdmin:
	default:
		return fmt.Errorf("%w: unknown sender %q", ErrInvalid, m.Sender)
	}
	return nil
}
