package hymod

// Hymod is the flat entry point with the integer return convention shared
// with foreign callers: 0 on success, 100 on a mass balance violation and -1
// when the inputs are rejected.
func Hymod(dt float64, p Params, s State, next *State, fl *Fluxes, inputFlux float64, etParams any) int32 {
	status, err := Run(dt, p, s, next, fl, inputFlux, etParams)
	if err != nil {
		return int32(StatusInvalidInput)
	}
	return int32(status)
}
