package config

import "github.com/chrissnell/hymod/pkg/hymod"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetCatchments() ([]CatchmentData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Catchments []CatchmentData `json:"catchments" validate:"required,min=1,dive"`
}

// CatchmentData holds the model setup for a single catchment
type CatchmentData struct {
	Name     string     `json:"name" validate:"required"`
	TimeUnit float64    `json:"time_unit,omitempty" validate:"gte=0"`
	Params   ParamsData `json:"params"`
	State    StateData  `json:"state"`
	Step     StepData   `json:"step"`
}

// ParamsData holds the HYMOD parameters of a catchment
type ParamsData struct {
	MaxStorage float64 `json:"max_storage" validate:"gt=0"`
	A          float64 `json:"a" validate:"gte=0,lte=1"`
	B          float64 `json:"b" validate:"gt=0"`
	Ks         float64 `json:"ks" validate:"gte=0"`
	Kq         float64 `json:"kq" validate:"gte=0"`
	N          int     `json:"n" validate:"gte=0"`
}

// StateData holds the storages a catchment starts from
type StateData struct {
	Storage            float64   `json:"storage" validate:"gte=0"`
	GroundwaterStorage float64   `json:"groundwater_storage" validate:"gte=0"`
	Sr                 []float64 `json:"sr" validate:"dive,gte=0"`
}

// StepData holds the forcing of the step to run
type StepData struct {
	DT        float64 `json:"dt" validate:"gt=0"`
	InputFlux float64 `json:"input_flux" validate:"gte=0"`
}

// HymodParams converts the catchment parameters for the model
func (c CatchmentData) HymodParams() hymod.Params {
	return hymod.Params{
		MaxStorage: c.Params.MaxStorage,
		A:          c.Params.A,
		B:          c.Params.B,
		Ks:         c.Params.Ks,
		Kq:         c.Params.Kq,
		N:          c.Params.N,
	}
}

// HymodState returns a copy of the catchment's initial state
func (c CatchmentData) HymodState() hymod.State {
	sr := make([]float64, len(c.State.Sr))
	copy(sr, c.State.Sr)
	return hymod.State{
		Storage:            c.State.Storage,
		GroundwaterStorage: c.State.GroundwaterStorage,
		Sr:                 sr,
	}
}
