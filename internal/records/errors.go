package records

import "errors"

var (
	// ErrInvalid marks service record validation failures.
	ErrInvalid = errors.New("records: invalid service record")

	// ErrCourseComplete is returned when incrementing a fully delivered course.
	ErrCourseComplete = errors.New("records: course already complete")
)
