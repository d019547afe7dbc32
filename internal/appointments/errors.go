package appointments

import "errors"

var (
	// ErrInvalid marks booking validation failures.
	ErrInvalid = errors.New("appointments: invalid booking")

	// ErrInvalidTransition is returned for a status move the lifecycle forbids.
	ErrInvalidTransition = errors.New("appointments: invalid status transition")
)
