package alloc

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady indicates the arena has not been initialized or was shut down.
	ErrNotReady = errors.New("alloc: arena not initialized")

	// ErrZeroSize indicates a request for zero (or fewer) bytes.
	ErrZeroSize = errors.New("alloc: zero-size request")

	// ErrNoFit indicates that no free range is large enough for the request.
	ErrNoFit = errors.New("alloc: no free range large enough")

	// ErrBadWordSize indicates a word size that is not positive.
	ErrBadWordSize = errors.New("alloc: word size must be positive")

	// ErrBadSize indicates an arena size outside 1..types.MaxWords words.
	ErrBadSize = errors.New("alloc: bad arena size")

	// ErrNilStrategy indicates a nil placement strategy.
	ErrNilStrategy = errors.New("alloc: nil strategy")

	// ErrStrategyFault indicates a strategy answer that no free range backs.
	ErrStrategyFault = errors.New("alloc: strategy fault")
)

// IsNone reports whether err is one of the recoverable "no address" outcomes
// of Alloc.
func IsNone(err error) bool {
	return errors.Is(err, ErrNotReady) || errors.Is(err, ErrZeroSize) || errors.Is(err, ErrNoFit)
}

// FaultError describes a placement strategy that broke its contract.
type FaultError struct {
	Start int   // word returned by the strategy
	Words int   // words requested
	Err   error // why the answer was rejected
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("alloc: strategy fault: start word %d for %d words: %v", e.Start, e.Words, e.Err)
}

// Unwrap lets errors.Is match both ErrStrategyFault and the cause.
func (e *FaultError) Unwrap() []error {
	return []error{ErrStrategyFault, e.Err}
}
