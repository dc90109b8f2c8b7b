package hymod

import (
	"errors"
	"fmt"
)

var (
	// ErrMassBalance is returned by Status.Err when a step destroyed mass
	ErrMassBalance = errors.New("hymod: mass balance violated")

	// ErrInvalidInput is the parent of all call-boundary validation errors
	ErrInvalidInput = errors.New("hymod: invalid input")

	ErrInvalidParams = fmt.Errorf("%w: parameters", ErrInvalidInput)
	ErrStateLength   = fmt.Errorf("%w: reservoir storage count does not match n", ErrInvalidInput)
	ErrNilOutput     = fmt.Errorf("%w: nil output", ErrInvalidInput)
)
