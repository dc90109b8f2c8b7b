package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/chrissnell/hymod/pkg/config"
	"github.com/chrissnell/hymod/pkg/hymod"
	"github.com/chrissnell/hymod/pkg/reservoir"
	"github.com/chrissnell/hymod/pkg/responseformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticProvider struct {
	catchments []config.CatchmentData
	err        error
}

func (p *staticProvider) LoadConfig() (*config.ConfigData, error) {
	return &config.ConfigData{Catchments: p.catchments}, p.err
}

func (p *staticProvider) GetCatchments() ([]config.CatchmentData, error) {
	return p.catchments, p.err
}

func (p *staticProvider) IsReadOnly() bool { return true }
func (p *staticProvider) Close() error     { return nil }

func catchments() []config.CatchmentData {
	return []config.CatchmentData{
		{
			Name:   "upper-creek",
			Params: config.ParamsData{MaxStorage: 100, A: 0.5, B: 2, Ks: 0.01, Kq: 0.1, N: 2},
			State:  config.StateData{Storage: 50, GroundwaterStorage: 10, Sr: []float64{1, 1}},
			Step:   config.StepData{DT: 86400, InputFlux: 5},
		},
		{
			Name:   "dry-flat",
			Params: config.ParamsData{MaxStorage: 80, A: 0.2, B: 1, Ks: 0.01, Kq: 0.3, N: 3},
			State:  config.StateData{Sr: []float64{0, 0, 0}},
			Step:   config.StepData{DT: 3600},
		},
	}
}

func newTestApp(t *testing.T, provider config.ConfigProvider, out *bytes.Buffer, opts ...Option) *App {
	t.Helper()
	f, err := responseformat.NewFormatter(responseformat.FormatJSON)
	require.NoError(t, err)
	return New(provider, zap.NewNop().Sugar(), f, out, opts...)
}

func TestRunWritesReport(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, &staticProvider{catchments: catchments()}, &out)

	require.NoError(t, a.Run(context.Background()))

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Results, 2)

	creek := report.Results[0]
	assert.Equal(t, "upper-creek", creek.Catchment)
	assert.Equal(t, "ok", creek.Status)
	assert.Equal(t, int32(0), creek.Code)
	assert.InDelta(t, 54.2025, creek.State.Storage, 1e-9)
	assert.InDelta(t, 0.1139875, creek.Fluxes.Runoff, 1e-9)
	assert.InDelta(t, 0, creek.Residual, 1e-9)

	flat := report.Results[1]
	assert.Equal(t, "dry-flat", flat.Catchment)
	assert.Equal(t, hymod.Fluxes{}, flat.Fluxes)
	assert.Equal(t, []float64{0, 0, 0}, flat.State.Sr)
}

func TestRunDoesNotMutateConfiguredState(t *testing.T) {
	provider := &staticProvider{catchments: catchments()}
	a := newTestApp(t, provider, &bytes.Buffer{})

	_, err := a.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, provider.catchments[0].State.Sr)
}

type leakyReservoir struct {
	reservoir.Linear
}

func (l *leakyReservoir) Response(inflow, dt float64) float64 {
	return l.Linear.Response(inflow-1, dt)
}

func TestRunReportsMassBalanceViolation(t *testing.T) {
	var out bytes.Buffer
	leaky := func(storage, capacity, k, timeUnit float64) reservoir.Responder {
		return &leakyReservoir{Linear: reservoir.New(storage, capacity, k, timeUnit)}
	}
	a := newTestApp(t, &staticProvider{catchments: catchments()[:1]}, &out, WithReservoirFactory(leaky))

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, hymod.ErrMassBalance)

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Results, 1)
	assert.Equal(t, int32(100), report.Results[0].Code)
	assert.Equal(t, "mass-balance-error", report.Results[0].Status)
	assert.InDelta(t, 3, report.Results[0].Residual, 1e-9)
}

func TestRunUsesETModel(t *testing.T) {
	et := hymod.ETFunc(func(soil float64, _ any) float64 { return 2 })
	a := newTestApp(t, &staticProvider{catchments: catchments()[:1]}, &bytes.Buffer{}, WithET(et))

	report, err := a.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, report.Results[0].Fluxes.ETLoss)
	assert.InDelta(t, 52.2025, report.Results[0].State.Storage, 1e-9)
}

func TestStepProviderError(t *testing.T) {
	boom := errors.New("boom")
	a := newTestApp(t, &staticProvider{err: boom}, &bytes.Buffer{})

	_, err := a.Step(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStepRejectsInvalidCatchment(t *testing.T) {
	bad := catchments()[:1]
	bad[0].State.Sr = []float64{1}
	a := newTestApp(t, &staticProvider{catchments: bad}, &bytes.Buffer{})

	_, err := a.Step(context.Background())
	assert.ErrorIs(t, err, hymod.ErrStateLength)
	assert.Contains(t, err.Error(), "upper-creek")
}

func TestStepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestApp(t, &staticProvider{catchments: catchments()}, &bytes.Buffer{})
	_, err := a.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// storage + input above max_storage with a fractional b raises a negative
// base to a fractional power
func overfilledCatchment() config.CatchmentData {
	return config.CatchmentData{
		Name:   "overfilled",
		Params: config.ParamsData{MaxStorage: 100, A: 0.5, B: 1.5, Ks: 0.01, Kq: 0.1, N: 1},
		State:  config.StateData{Storage: 98, Sr: []float64{0}},
		Step:   config.StepData{DT: 86400, InputFlux: 5},
	}
}

func TestRunWritesReportWhenCatchmentIsNonFinite(t *testing.T) {
	var out bytes.Buffer
	cs := append(catchments()[:1], overfilledCatchment())
	a := newTestApp(t, &staticProvider{catchments: cs}, &out)

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.NotErrorIs(t, err, hymod.ErrMassBalance)

	var report Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Results, 2)

	assert.Equal(t, "ok", report.Results[0].Status)
	assert.InDelta(t, 54.2025, report.Results[0].State.Storage, 1e-9)

	bad := report.Results[1]
	assert.Equal(t, "overfilled", bad.Catchment)
	assert.Equal(t, StatusNonFinite, bad.Status)
	assert.Equal(t, int32(hymod.StatusInvalidInput), bad.Code)
	assert.NotEmpty(t, bad.Error)
	assert.Zero(t, bad.Residual)
}

func TestRunNonFiniteWithMsgPack(t *testing.T) {
	var out bytes.Buffer
	f, err := responseformat.NewFormatter(responseformat.FormatMsgPack)
	require.NoError(t, err)
	a := New(&staticProvider{catchments: []config.CatchmentData{overfilledCatchment()}}, zap.NewNop().Sugar(), f, &out)

	assert.ErrorIs(t, a.Run(context.Background()), ErrNonFinite)
	assert.NotZero(t, out.Len())
}

func TestOverfilledCatchmentFailsValidation(t *testing.T) {
	err := config.Validate(&config.ConfigData{Catchments: []config.CatchmentData{overfilledCatchment()}})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
