// Command libhymod builds the hymod step as a C shared library:
//
//	go build -buildmode=c-shared -o libhymod.so ./cmd/libhymod
//
// The exported symbol keeps the flat calling convention
//
//	int32_t hymod(double dt, hymod_params params, hymod_state state,
//	              hymod_state* new_state, hymod_fluxes* fluxes,
//	              double input_flux, void* et_params);
//
// state.Sr and new_state->Sr must each point at n doubles owned by the
// caller. They are only borrowed for the duration of the call.
package main

/*
#include <stdint.h>

typedef struct {
	double max_storage;
	double a;
	double b;
	double Ks;
	double Kq;
	double n;
} hymod_params;

typedef struct {
	double storage;
	double groundwater_storage;
	double* Sr;
} hymod_state;

typedef struct {
	double slow_flow;
	double runnoff;
	double et_loss;
} hymod_fluxes;
*/
import "C"

import (
	"math"
	"unsafe"

	kernel "github.com/chrissnell/hymod/pkg/hymod"
)

//export hymod
func hymod(dt C.double, params C.hymod_params, state C.hymod_state, newState *C.hymod_state, fluxes *C.hymod_fluxes, inputFlux C.double, etParams unsafe.Pointer) C.int32_t {
	if newState == nil || fluxes == nil {
		return C.int32_t(kernel.StatusInvalidInput)
	}

	n := float64(params.n)
	if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
		return C.int32_t(kernel.StatusInvalidInput)
	}

	p := kernel.Params{
		MaxStorage: float64(params.max_storage),
		A:          float64(params.a),
		B:          float64(params.b),
		Ks:         float64(params.Ks),
		Kq:         float64(params.Kq),
		N:          int(n),
	}

	sr, ok := borrow(state.Sr, p.N)
	if !ok {
		return C.int32_t(kernel.StatusInvalidInput)
	}
	nextSr, ok := borrow(newState.Sr, p.N)
	if !ok {
		return C.int32_t(kernel.StatusInvalidInput)
	}

	s := kernel.State{
		Storage:            float64(state.storage),
		GroundwaterStorage: float64(state.groundwater_storage),
		Sr:                 sr,
	}
	next := kernel.State{Sr: nextSr}
	var fl kernel.Fluxes

	code := kernel.Hymod(float64(dt), p, s, &next, &fl, float64(inputFlux), etParams)
	if code == int32(kernel.StatusInvalidInput) {
		return C.int32_t(code)
	}

	newState.storage = C.double(next.Storage)
	newState.groundwater_storage = C.double(next.GroundwaterStorage)
	fluxes.slow_flow = C.double(fl.SlowFlow)
	fluxes.runnoff = C.double(fl.Runoff)
	fluxes.et_loss = C.double(fl.ETLoss)

	return C.int32_t(code)
}

// borrow views n doubles of caller memory as a slice without copying
func borrow(ptr *C.double, n int) ([]float64, bool) {
	if n == 0 {
		return []float64{}, true
	}
	if ptr == nil {
		return nil, false
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(ptr)), n), true
}

func main() {}
