package records

import (
	"fmt"
	"strings"
	"time"
)

// Status is the treatment course state.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ServiceRecord is one treatment course on a patient's file, optionally split
// into sessions.
type ServiceRecord struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Treatment         string    `json:"treatment"`
	Status            Status    `json:"status"`
	Date              string    `json:"date"`
	StartTime         string    `json:"start_time,omitempty"`
	EndTime           string    `json:"end_time,omitempty"`
	Doctor            string    `json:"doctor,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	TotalSessions     int       `json:"total_sessions,omitempty"`
	CompletedSessions int       `json:"completed_sessions,omitempty"`
	Instructions      string    `json:"instructions,omitempty"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
}

func (r *ServiceRecord) RecordID() string         { return r.ID }
func (r *ServiceRecord) SetRecordID(id string)    { r.ID = id }
func (r *ServiceRecord) RecordVersion() int64     { return r.Version }
func (r *ServiceRecord) SetRecordVersion(v int64) { r.Version = v }
func (r *ServiceRecord) OwnerID() string          { return r.UserID }

func (r *ServiceRecord) Clone() *ServiceRecord {
	cp := *r
	return &cp
}

// Validate holds the course invariant: completed sessions never exceed the
// total, and a fully delivered course is completed.
func (r *ServiceRecord) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalid)
	}
	if strings.TrimSpace(r.Treatment) == "" {
		return fmt.Errorf("%w: treatment is required", ErrInvalid)
	}
	if r.TotalSessions < 0 || r.CompletedSessions < 0 {
		return fmt.Errorf("%w: session counters must not be negative", ErrInvalid)
	}
	if r.TotalSessions > 0 && r.CompletedSessions > r.TotalSessions {
		return fmt.Errorf("%w: completed sessions exceed total", ErrInvalid)
	}
	switch r.Status {
	case StatusPlanned, StatusActive, StatusCompleted:
	case "":
		r.Status = StatusPlanned
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, r.Status)
	}
	r.reconcileStatus()
	return nil
}

func (r *ServiceRecord) reconcileStatus() {
	if r.TotalSessions > 0 && r.CompletedSessions == r.TotalSessions {
		r.Status = StatusCompleted
	}
}

// Update is a partial change to a service record; nil fields are untouched.
type Update struct {
	Treatment         *string `json:"treatment,omitempty"`
	Status            *Status `json:"status,omitempty"`
	Date              *string `json:"date,omitempty"`
	StartTime         *string `json:"start_time,omitempty"`
	EndTime           *string `json:"end_time,omitempty"`
	Doctor            *string `json:"doctor,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	TotalSessions     *int    `json:"total_sessions,omitempty"`
	CompletedSessions *int    `json:"completed_sessions,omitempty"`
	Instructions      *string `json:"instructions,omitempty"`
}

func (u Update) apply(r *ServiceRecord) {
	if u.Treatment != nil {
		r.Treatment = *u.Treatment
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Date != nil {
		r.Date = *u.Date
	}
	if u.StartTime != nil {
		r.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		r.EndTime = *u.EndTime
	}
	if u.Doctor != nil {
		r.Doctor = *u.Doctor
	}
	if u.Notes != nil {
		r.Notes = *u.Notes
	}
	if u.TotalSessions != nil {
		r.TotalSessions = *u.TotalSessions
	}
	if u.CompletedSessions != nil {
		r.CompletedSessions = *u.CompletedSessions
	}
	if u.Instructions != nil {
		r.Instructions = *u.Instructions
	}
}
