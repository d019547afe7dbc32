package payments

import "errors"

var (
	// ErrInvalid marks payment validation failures.
	ErrInvalid = errors.New("payments: invalid payment")

	// ErrInvalidTransition is returned when a payment leaves pending twice.
	ErrInvalidTransition = errors.New("payments: invalid status transition")
)
