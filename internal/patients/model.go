package patients

import (
	"fmt"
	"strings"
	"time"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
)

// Patient is a portal user profile. Admin staff accounts live in the same
// collection, distinguished by Role.
type Patient struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Surname       string        `json:"surname"`
	Email         string        `json:"email"`
	Role          identity.Role `json:"role"`
	NationalID    string        `json:"national_id,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Avatar        string        `json:"avatar,omitempty"`
	RelativeName  string        `json:"relative_name,omitempty"`
	RelativePhone string        `json:"relative_phone,omitempty"`
	TotalVisits   int           `json:"total_visits"`
	Status        string        `json:"status,omitempty"`
	EntryTime     string        `json:"entry_time,omitempty"`
	ExitTime      string        `json:"exit_time,omitempty"`
	Version       int64         `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (p *Patient) RecordID() string         { return p.ID }
func (p *Patient) SetRecordID(id string)    { p.ID = id }
func (p *Patient) RecordVersion() int64     { return p.Version }
func (p *Patient) SetRecordVersion(v int64) { p.Version = v }

// OwnerID scopes a profile to itself: patients only ever see their own record.
func (p *Patient) OwnerID() string { return p.ID }

func (p *Patient) Clone() *Patient {
	cp := *p
	return &cp
}

// Validate checks the fields every profile needs.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	if p.Role != identity.RoleAdmin && p.Role != identity.RolePatient {
		return fmt.Errorf("%w: unknown role %q", ErrInvalid, p.Role)
	}
	return nil
}

// Update is a partial profile change; nil fields are left untouched.
type Update struct {
	Name          *string `json:"name,omitempty"`
	Surname       *string `json:"surname,omitempty"`
	Email         *string `json:"email,omitempty"`
	NationalID    *string `json:"national_id,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
	RelativeName  *string `json:"relative_name,omitempty"`
	RelativePhone *string `json:"relative_phone,omitempty"`
	TotalVisits   *int    `json:"total_visits,omitempty"`
	Status        *string `json:"status,omitempty"`
	EntryTime     *string `json:"entry_time,omitempty"`
	ExitTime      *string `json:"exit_time,omitempty"`
}

func (u Update) apply(p *Patient) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Surname != nil {
		p.Surname = *u.Surname
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.NationalID != nil {
		p.NationalID = *u.NationalID
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.RelativeName != nil {
		p.RelativeName = *u.RelativeName
	}
	if u.RelativePhone != nil {
		p.RelativePhone = *u.RelativePhone
	}
	if u.TotalVisits != nil {
		p.TotalVisits = *u.TotalVisits
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.EntryTime != nil {
		p.EntryTime = *u.EntryTime
	}
	if u.ExitTime != nil {
		p.ExitTime = *u.ExitTime
	}
}
