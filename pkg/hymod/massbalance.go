package hymod

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MassTolerance is the largest mass deficit a step may show and still pass
const MassTolerance = 1e-6

// MassResidual returns the mass entering a step minus the mass leaving it or
// remaining in storage. A positive residual means water was lost. It is NaN
// when either state does not hold exactly p.N reservoir storages.
func MassResidual(p Params, old State, inputFlux float64, next State, fl Fluxes) float64 {
	if len(old.Sr) != p.N || len(next.Sr) != p.N {
		return math.NaN()
	}
	initial := old.Storage + old.GroundwaterStorage + floats.Sum(old.Sr) + inputFlux
	return initial - finalMass(next, fl)
}

// CheckMass verifies a completed step. Only a deficit larger than
// MassTolerance is reported; a surplus always passes. States whose Sr length
// differs from p.N are rejected with StatusInvalidInput.
func CheckMass(p Params, old State, inputFlux float64, next State, fl Fluxes) Status {
	if len(old.Sr) != p.N || len(next.Sr) != p.N {
		return StatusInvalidInput
	}
	return massStatus(MassResidual(p, old, inputFlux, next, fl))
}

func finalMass(next State, fl Fluxes) float64 {
	return next.Storage + next.GroundwaterStorage + floats.Sum(next.Sr) + fl.ETLoss + fl.Runoff + fl.SlowFlow
}

func massStatus(residual float64) Status {
	if residual > MassTolerance {
		return StatusMassBalance
	}
	return StatusOK
}
