// Package hymod implements a single time step of the HYMOD lumped
// rainfall-runoff model.
//
// A step adds the incoming water flux to soil storage, splits the saturation
// excess into a quick-flow part routed through a Nash cascade of linear
// reservoirs and a slow-flow part routed through a groundwater reservoir, and
// then verifies that the step did not destroy mass.
//
// Run is a pure function of its inputs. The reservoir storages of the next
// state are written into a caller-owned slice which must already have one
// element per cascade stage; Run never allocates or retains it. Concurrent
// calls are safe as long as they do not share output buffers.
//
//	next := hymod.State{Sr: make([]float64, params.N)}
//	var fl hymod.Fluxes
//	status, err := hymod.Run(86400, params, state, &next, &fl, precip, nil)
package hymod
