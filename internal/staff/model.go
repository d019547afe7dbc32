package staff

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks staff validation failures.
var ErrInvalid = errors.New("staff: invalid staff member")

// Role is the clinic job title.
type Role string

const (
	RoleSpecialist   Role = "specialist"
	RoleAesthetician Role = "aesthetician"
	RoleConsultant   Role = "consultant"
	RoleAssistant    Role = "assistant"
)

// Member is a clinic employee directory entry.
type Member struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Phone   string `json:"phone,omitempty"`
	Status  string `json:"status"` // active | leave
	Version int64  `json:"version"`
}

func (m *Member) RecordID() string         { return m.ID }
func (m *Member) SetRecordID(id string)    { m.ID = id }
func (m *Member) RecordVersion() int64     { return m.Version }
func (m *Member) SetRecordVersion(v int64) { m.Version = v }

// OwnerID is empty: the directory is not scoped to a patient.
func (m *Member) OwnerID() string { return "" }

func (m *Member) Clone() *Member {
	cp := *m
	return &cp
}

func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	switch m.Role {
	case RoleSpecialist, RoleAesthetician, RoleConsultant, RoleAssistant:
	default:
		return fmt.Errorf("%w: unknown role %q", ErrInvalid, m.Role)
	}
	if m.Status == "" {
		m.Status = "active"
	}
	return nil
}
