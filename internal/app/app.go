package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chrissnell/hymod/internal/log"
	"github.com/chrissnell/hymod/pkg/config"
	"github.com/chrissnell/hymod/pkg/hymod"
	"github.com/chrissnell/hymod/pkg/responseformat"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNonFinite is returned by Run when a catchment's step produced NaN or
// infinite values
var ErrNonFinite = errors.New("step produced non-finite values")

// StatusNonFinite marks a result whose values could not be reported
const StatusNonFinite = "non-finite"

// StepResult is the outcome of one catchment's step. A non-finite result
// carries zero State, Fluxes and Residual and explains itself in Error.
type StepResult struct {
	Catchment string       `json:"catchment"`
	Status    string       `json:"status"`
	Code      int32        `json:"code"`
	Residual  float64      `json:"mass_residual"`
	State     hymod.State  `json:"state"`
	Fluxes    hymod.Fluxes `json:"fluxes"`
	Error     string       `json:"error,omitempty"`
}

// Report collects the results of a run in configuration order
type Report struct {
	RunID   string       `json:"run_id"`
	Results []StepResult `json:"results"`
}

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	formatter      *responseformat.Formatter
	out            io.Writer
	etModel        hymod.ET
	reservoirs     hymod.ReservoirFactory
}

// Option configures an App
type Option func(*App)

// WithET sets the evapotranspiration model used for every catchment
func WithET(et hymod.ET) Option {
	return func(a *App) {
		if et != nil {
			a.etModel = et
		}
	}
}

// WithReservoirFactory sets the reservoir used for the cascade and
// groundwater stages of every catchment
func WithReservoirFactory(f hymod.ReservoirFactory) Option {
	return func(a *App) {
		a.reservoirs = f
	}
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger, formatter *responseformat.Formatter, out io.Writer, opts ...Option) *App {
	a := &App{
		configProvider: configProvider,
		logger:         logger,
		formatter:      formatter,
		out:            out,
		etModel:        hymod.ZeroET,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run steps every configured catchment once and writes the report. A
// catchment that fails the mass check or produces non-finite values does not
// stop the others; Run then returns an error wrapping hymod.ErrMassBalance
// or ErrNonFinite after the report is written.
func (a *App) Run(ctx context.Context) error {
	report, err := a.Step(ctx)
	if err != nil {
		return err
	}

	if err := a.formatter.Write(a.out, report); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}

	var unbalanced, nonFinite []string
	for _, r := range report.Results {
		switch {
		case r.Status == StatusNonFinite:
			nonFinite = append(nonFinite, r.Catchment)
		case r.Code != int32(hymod.StatusOK):
			unbalanced = append(unbalanced, r.Catchment)
		}
	}

	var errs []error
	if len(unbalanced) > 0 {
		errs = append(errs, fmt.Errorf("%w in %d catchment(s): %v", hymod.ErrMassBalance, len(unbalanced), unbalanced))
	}
	if len(nonFinite) > 0 {
		errs = append(errs, fmt.Errorf("%w in %d catchment(s): %v", ErrNonFinite, len(nonFinite), nonFinite))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Info("run complete")
	return nil
}

// Step runs one time step for each catchment concurrently. Each catchment
// gets its own output buffers.
func (a *App) Step(ctx context.Context) (*Report, error) {
	catchments, err := a.configProvider.GetCatchments()
	if err != nil {
		return nil, fmt.Errorf("error loading catchments: %w", err)
	}

	report := &Report{
		RunID:   uuid.NewString(),
		Results: make([]StepResult, len(catchments)),
	}
	logger := a.logger.With("run_id", report.RunID)

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range catchments {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := a.stepCatchment(c)
			if err != nil {
				return fmt.Errorf("catchment %s: %w", c.Name, err)
			}
			report.Results[i] = result

			switch {
			case result.Status == StatusNonFinite:
				logger.Warnw("step produced non-finite values", "catchment", c.Name)
			case result.Code == int32(hymod.StatusOK):
				logger.Infow("step complete", "catchment", c.Name, "runoff", result.Fluxes.Runoff,
					"slow_flow", result.Fluxes.SlowFlow, "mass_residual", result.Residual)
			default:
				logger.Warnw("mass balance violated", "catchment", c.Name, "mass_residual", result.Residual)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("context cancelled, step aborted")
		}
		return nil, err
	}
	return report, nil
}

func (a *App) stepCatchment(c config.CatchmentData) (StepResult, error) {
	params := c.HymodParams()
	state := c.HymodState()
	next := hymod.State{Sr: make([]float64, params.N)}
	var fluxes hymod.Fluxes

	status, err := hymod.Run(c.Step.DT, params, state, &next, &fluxes, c.Step.InputFlux, nil,
		hymod.WithET(a.etModel), hymod.WithReservoirFactory(a.reservoirs), hymod.WithTimeUnit(c.TimeUnit))
	if err != nil {
		return StepResult{}, err
	}

	residual := hymod.MassResidual(params, state, c.Step.InputFlux, next, fluxes)
	if !finite(residual, next.Storage, next.GroundwaterStorage, fluxes.SlowFlow, fluxes.Runoff, fluxes.ETLoss) || !finite(next.Sr...) {
		return StepResult{
			Catchment: c.Name,
			Status:    StatusNonFinite,
			Code:      int32(hymod.StatusInvalidInput),
			State:     hymod.State{Sr: []float64{}},
			Error:     "storage or fluxes are NaN or infinite; check storage and input_flux against max_storage",
		}, nil
	}

	return StepResult{
		Catchment: c.Name,
		Status:    status.String(),
		Code:      int32(status),
		Residual:  residual,
		State:     next,
		Fluxes:    fluxes,
	}, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
