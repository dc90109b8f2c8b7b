package hymod

import (
	"fmt"
	"math"

	"github.com/chrissnell/hymod/pkg/reservoir"
	"gonum.org/v1/gonum/floats"
)

type options struct {
	et       ET
	factory  ReservoirFactory
	timeUnit float64
}

// Option customises a call to Run
type Option func(*options)

// WithET replaces the evapotranspiration collaborator
func WithET(et ET) Option {
	return func(o *options) {
		if et != nil {
			o.et = et
		}
	}
}

// WithReservoirFactory replaces the linear reservoir used for the cascade and
// groundwater stages
func WithReservoirFactory(f ReservoirFactory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithTimeUnit sets the reference time unit of Ks and Kq in seconds
func WithTimeUnit(seconds float64) Option {
	return func(o *options) {
		if seconds > 0 {
			o.timeUnit = seconds
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		et:       ZeroET,
		timeUnit: reservoir.DefaultTimeUnit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o *options) newReservoir(storage, capacity, k float64) reservoir.Responder {
	if o.factory != nil {
		return o.factory(storage, capacity, k, o.timeUnit)
	}
	r := reservoir.New(storage, capacity, k, o.timeUnit)
	return &r
}

// SaturationExcess returns the fraction of storage that cannot infiltrate,
// 1 - (1 - storage/maxStorage)^b. Storage above maxStorage is not capped.
func SaturationExcess(storage, maxStorage, b float64) float64 {
	return 1.0 - math.Pow(1.0-storage/maxStorage, b)
}

// Run advances the model by one step of dt seconds. The new state is written
// to next, whose Sr must already hold p.N elements, and the outflows to fl.
//
// A non-nil error means the inputs were rejected and nothing was written.
// Otherwise next and fl are always filled in and the returned status reports
// whether the step conserved mass; the caller decides what to do with a
// StatusMassBalance result.
//
// s.Sr is only read. It may share its backing array with next.Sr.
func Run(dt float64, p Params, s State, next *State, fl *Fluxes, inputFlux float64, etParams any, opts ...Option) (Status, error) {
	if next == nil || fl == nil {
		return StatusInvalidInput, ErrNilOutput
	}
	if err := p.Validate(); err != nil {
		return StatusInvalidInput, err
	}
	if len(s.Sr) != p.N || len(next.Sr) != p.N {
		return StatusInvalidInput, fmt.Errorf("%w: n=%d, state has %d, next state has %d",
			ErrStateLength, p.N, len(s.Sr), len(next.Sr))
	}

	o := newOptions(opts)

	// taken before next.Sr is written, which may alias s.Sr
	initialMass := s.Storage + s.GroundwaterStorage + floats.Sum(s.Sr) + inputFlux

	var nash Cascade
	nash.Reset(s.Sr, p.MaxStorage, p.Kq, o.timeUnit, o.factory)
	groundwater := o.newReservoir(s.GroundwaterStorage, p.MaxStorage, p.Ks)

	storage := s.Storage + inputFlux

	fs := SaturationExcess(storage, p.MaxStorage, p.B)
	runoff := fs * p.A
	slow := fs * (1.0 - p.A)
	// fs is a fraction but is taken off a depth here; kept as formulated
	soilM := storage - fs

	et := o.et.Loss(soilM, etParams)

	slowFlow := groundwater.Response(slow, dt)
	runoff = nash.Route(runoff, dt)

	*fl = Fluxes{
		SlowFlow: slowFlow,
		Runoff:   runoff,
		ETLoss:   et,
	}

	next.Storage = soilM - et
	next.GroundwaterStorage = groundwater.Storage()
	nash.Storages(next.Sr)

	return massStatus(initialMass - finalMass(*next, *fl)), nil
}
