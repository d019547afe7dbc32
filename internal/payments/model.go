package payments

import (
	"fmt"
	"strings"
	"time"
)

// Status is the payment approval state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Payment is a patient-submitted card payment awaiting admin review. Only the
// masked card number is ever stored.
type Payment struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	PatientName      string    `json:"patient_name"`
	AmountCents      int64     `json:"amount_cents"`
	Description      string    `json:"description,omitempty"`
	CardNumberMasked string    `json:"card_number_masked"`
	Status           Status    `json:"status"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Payment) RecordID() string         { return p.ID }
func (p *Payment) SetRecordID(id string)    { p.ID = id }
func (p *Payment) RecordVersion() int64     { return p.Version }
func (p *Payment) SetRecordVersion(v int64) { p.Version = v }
func (p *Payment) OwnerID() string          { return p.UserID }

func (p *Payment) Clone() *Payment {
	cp := *p
	return &cp
}

// CreateRequest is the submit-payment payload. CardNumber is the raw PAN; it
// is masked before anything touches the store.
type CreateRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	CardNumber  string `json:"card_number"`
}

func (r *CreateRequest) Validate() error {
	if r.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	digits := digitsOf(r.CardNumber)
	if len(digits) < 12 || len(digits) > 19 {
		return fmt.Errorf("%w: card number must be 12-19 digits", ErrInvalid)
	}
	return nil
}

// MaskCardNumber keeps only the last four digits of a PAN.
func MaskCardNumber(pan string) string {
	digits := digitsOf(pan)
	if len(digits) < 4 {
		return "****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
