package jobs

import (
	"errors"
	"fmt"
)

var (
	ErrTableFull       = errors.New("job table full")
	ErrDuplicatePID    = errors.New("pid already tracked")
	ErrJobNotFound     = errors.New("job not found")
	ErrInvalidPID      = errors.New("invalid pid")
	ErrForegroundTaken = errors.New("another job is in the foreground")
)

// InvalidStateError is returned when a job would be put into a state a
// tracked job cannot hold.
type InvalidStateError struct {
	State State
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("invalid job state %s", e.State)
}
