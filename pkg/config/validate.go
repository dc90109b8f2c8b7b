package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(catchmentStructLevel, CatchmentData{})
}

// every cascade stage needs a starting storage, and a fractional b cannot
// take a soil filled past max_storage
func catchmentStructLevel(sl validator.StructLevel) {
	c := sl.Current().Interface().(CatchmentData)
	if len(c.State.Sr) != c.Params.N {
		sl.ReportError(c.State.Sr, "Sr", "sr", "len_eq_n", fmt.Sprint(c.Params.N))
	}
	if c.Params.B != math.Trunc(c.Params.B) && c.State.Storage+c.Step.InputFlux > c.Params.MaxStorage {
		sl.ReportError(c.State.Storage, "Storage", "storage", "fill_lte_max_storage", fmt.Sprint(c.Params.MaxStorage))
	}
}

// Validate checks field ranges, that each catchment has one reservoir storage
// per cascade stage, that storage plus input_flux stays within max_storage
// when b is fractional and that catchment names are unique
func Validate(cfg *ConfigData) error {
	if cfg == nil {
		return fmt.Errorf("%w: empty configuration", ErrInvalidConfig)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(cfg.Catchments))
	for _, c := range cfg.Catchments {
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate catchment %q", ErrInvalidConfig, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
