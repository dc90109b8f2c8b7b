// Package reservoir provides the linear storage-discharge element used to
// route flow through a hydrological model.
package reservoir

// DefaultTimeUnit is the reference time unit of a reservoir coefficient, in seconds (one day)
const DefaultTimeUnit = 86400.0

// Responder is a storage element that can be advanced by one time step.
// Implementations must conserve mass locally: after a call to Response the
// storage equals the previous storage plus inflow minus the returned outflow.
type Responder interface {
	Response(inflow, dt float64) float64
	Storage() float64
}

// Linear is a linear reservoir: outflow is proportional to storage
type Linear struct {
	sto      float64
	cap      float64
	k        float64
	timeUnit float64
}

// New creates a linear reservoir holding storage, with the given capacity,
// storage coefficient k (fraction released per timeUnit seconds) and
// reference time unit. A non-positive timeUnit falls back to DefaultTimeUnit.
func New(storage, capacity, k, timeUnit float64) Linear {
	if timeUnit <= 0 {
		timeUnit = DefaultTimeUnit
	}
	return Linear{
		sto:      storage,
		cap:      capacity,
		k:        k,
		timeUnit: timeUnit,
	}
}

// Response adds inflow to the reservoir, drains it for dt seconds and
// returns the depth that left the reservoir during the step. Storage above
// capacity spills and is returned as part of the outflow.
func (r *Linear) Response(inflow, dt float64) float64 {
	r.sto += inflow

	out := 0.0
	if r.sto > 0 {
		out = r.k * r.sto * dt / r.timeUnit
		if out < 0 {
			out = 0
		} else if out > r.sto {
			out = r.sto
		}
	}
	r.sto -= out

	if r.sto > r.cap {
		out += r.sto - r.cap
		r.sto = r.cap
	}
	return out
}

// Storage returns the water currently held in the reservoir
func (r *Linear) Storage() float64 {
	return r.sto
}

// Capacity returns the maximum storage before the reservoir spills
func (r *Linear) Capacity() float64 {
	return r.cap
}

// Coefficient returns the storage coefficient
func (r *Linear) Coefficient() float64 {
	return r.k
}
