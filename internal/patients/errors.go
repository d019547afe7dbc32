package patients

import "errors"

var (
	// ErrInvalid marks profile validation failures.
	ErrInvalid = errors.New("patients: invalid profile")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("patients: email already registered")
)
