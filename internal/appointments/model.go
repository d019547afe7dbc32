package appointments

import (
	"fmt"
	"strings"
	"time"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// validTransitions encodes the only admin-approved status moves.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Appointment is a booking request made by (or for) a patient.
type Appointment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	PatientName string    `json:"patient_name"`
	NationalID  string    `json:"national_id,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Status      Status    `json:"status"`
	PriceCents  int64     `json:"price_cents"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *Appointment) RecordID() string         { return a.ID }
func (a *Appointment) SetRecordID(id string)    { a.ID = id }
func (a *Appointment) RecordVersion() int64     { return a.Version }
func (a *Appointment) SetRecordVersion(v int64) { a.Version = v }
func (a *Appointment) OwnerID() string          { return a.UserID }

func (a *Appointment) Clone() *Appointment {
	cp := *a
	cp.Images = append([]string(nil), a.Images...)
	return &cp
}

// Validate checks the fields a booking needs at creation time.
func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalid)
	}
	if strings.TrimSpace(a.Date) == "" || strings.TrimSpace(a.Time) == "" {
		return fmt.Errorf("%w: date and time are required", ErrInvalid)
	}
	if strings.TrimSpace(a.Type) == "" {
		return fmt.Errorf("%w: treatment type is required", ErrInvalid)
	}
	return nil
}
