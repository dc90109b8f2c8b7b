package hymod

import (
	"fmt"
	"math"
)

// Params are the static HYMOD parameters, constant for a simulation run
type Params struct {
	MaxStorage float64 `json:"max_storage"` // soil storage capacity (depth)
	A          float64 `json:"a"`           // fraction of saturation excess routed as quick flow
	B          float64 `json:"b"`           // saturation-excess exponent
	Ks         float64 `json:"ks"`          // slow-flow reservoir coefficient
	Kq         float64 `json:"kq"`          // quick-flow reservoir coefficient
	N          int     `json:"n"`           // number of reservoirs in the Nash cascade
}

// Validate reports whether the parameters can be used by Run
func (p Params) Validate() error {
	if !(p.MaxStorage > 0) || math.IsInf(p.MaxStorage, 0) {
		return fmt.Errorf("%w: max_storage must be positive, got %v", ErrInvalidParams, p.MaxStorage)
	}
	if !(p.A >= 0 && p.A <= 1) {
		return fmt.Errorf("%w: a must be within [0,1], got %v", ErrInvalidParams, p.A)
	}
	if p.N < 0 {
		return fmt.Errorf("%w: n must not be negative, got %d", ErrInvalidParams, p.N)
	}
	return nil
}

// State is a snapshot of the model storages at one instant.
// Sr holds one storage per cascade stage and is owned by the caller.
type State struct {
	Storage            float64   `json:"storage"`
	GroundwaterStorage float64   `json:"groundwater_storage"`
	Sr                 []float64 `json:"sr"`
}

// Fluxes are the outflows produced by one step
type Fluxes struct {
	SlowFlow float64 `json:"slow_flow"`
	Runoff   float64 `json:"runoff"`
	ETLoss   float64 `json:"et_loss"`
}

// Total returns the sum of all outgoing fluxes
func (f Fluxes) Total() float64 {
	return f.SlowFlow + f.Runoff + f.ETLoss
}

// Status is the outcome code of a step
type Status int32

const (
	StatusInvalidInput Status = -1
	StatusOK           Status = 0
	StatusMassBalance  Status = 100
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMassBalance:
		return "mass-balance-error"
	case StatusInvalidInput:
		return "invalid-input"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// Err converts a non-OK status into its sentinel error
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusMassBalance:
		return ErrMassBalance
	default:
		return ErrInvalidInput
	}
}
