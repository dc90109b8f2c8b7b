package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceCatchment() CatchmentData {
	return CatchmentData{
		Name:     "upper-creek",
		TimeUnit: 86400,
		Params:   ParamsData{MaxStorage: 100, A: 0.5, B: 2, Ks: 0.01, Kq: 0.1, N: 2},
		State:    StateData{Storage: 50, GroundwaterStorage: 10, Sr: []float64{1, 1}},
		Step:     StepData{DT: 86400, InputFlux: 5},
	}
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join("testdata", "catchments.yaml"))
	defer provider.Close()

	cfg, err := provider.LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Catchments, 2)

	assert.Equal(t, referenceCatchment(), cfg.Catchments[0])

	bog := cfg.Catchments[1]
	assert.Equal(t, "headwater-bog", bog.Name)
	assert.Equal(t, 0.0, bog.TimeUnit)
	assert.Equal(t, 0, bog.Params.N)
	assert.Equal(t, []float64{}, bog.State.Sr)
	assert.Equal(t, 1.2, bog.Step.InputFlux)

	catchments, err := provider.GetCatchments()
	require.NoError(t, err)
	assert.Equal(t, cfg.Catchments, catchments)
	assert.True(t, provider.IsReadOnly())
}

func TestYAMLProviderMissingFile(t *testing.T) {
	provider := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := provider.LoadConfig()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLProviderRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catchments:
  - name: short
    params: {max-storage: 100, a: 0.5, b: 2, ks: 0.01, kq: 0.1, n: 3}
    state: {storage: 1, groundwater-storage: 1, sr: [1]}
    step: {dt: 86400, input-flux: 1}
`), 0o644))

	_, err := NewYAMLProvider(path).LoadConfig()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "len_eq_n")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ConfigData)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *ConfigData) {}},
		{name: "no catchments", mutate: func(c *ConfigData) { c.Catchments = nil }, wantErr: true},
		{name: "missing name", mutate: func(c *ConfigData) { c.Catchments[0].Name = "" }, wantErr: true},
		{name: "zero max storage", mutate: func(c *ConfigData) { c.Catchments[0].Params.MaxStorage = 0 }, wantErr: true},
		{name: "a above one", mutate: func(c *ConfigData) { c.Catchments[0].Params.A = 1.2 }, wantErr: true},
		{name: "a at one", mutate: func(c *ConfigData) { c.Catchments[0].Params.A = 1 }},
		{name: "zero b", mutate: func(c *ConfigData) { c.Catchments[0].Params.B = 0 }, wantErr: true},
		{name: "negative n", mutate: func(c *ConfigData) { c.Catchments[0].Params.N = -1 }, wantErr: true},
		{name: "sr longer than n", mutate: func(c *ConfigData) { c.Catchments[0].State.Sr = []float64{1, 1, 1} }, wantErr: true},
		{name: "negative reservoir storage", mutate: func(c *ConfigData) { c.Catchments[0].State.Sr[1] = -1 }, wantErr: true},
		{name: "zero dt", mutate: func(c *ConfigData) { c.Catchments[0].Step.DT = 0 }, wantErr: true},
		{name: "negative input", mutate: func(c *ConfigData) { c.Catchments[0].Step.InputFlux = -1 }, wantErr: true},
		{
			name: "fractional b overfilled by input",
			mutate: func(c *ConfigData) {
				c.Catchments[0].Params.B = 1.5
				c.Catchments[0].State.Storage = 98
			},
			wantErr: true,
		},
		{
			name: "fractional b filled exactly to max storage",
			mutate: func(c *ConfigData) {
				c.Catchments[0].Params.B = 1.5
				c.Catchments[0].State.Storage = 95
			},
		},
		{name: "integer b overfilled", mutate: func(c *ConfigData) { c.Catchments[0].State.Storage = 98 }},
		{
			name: "duplicate names",
			mutate: func(c *ConfigData) {
				c.Catchments = append(c.Catchments, referenceCatchment())
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ConfigData{Catchments: []CatchmentData{referenceCatchment()}}
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatchmentConversion(t *testing.T) {
	c := referenceCatchment()

	p := c.HymodParams()
	assert.Equal(t, 100.0, p.MaxStorage)
	assert.Equal(t, 2, p.N)

	s := c.HymodState()
	assert.Equal(t, 50.0, s.Storage)
	assert.Equal(t, []float64{1, 1}, s.Sr)

	s.Sr[0] = 99
	assert.Equal(t, 1.0, c.State.Sr[0], "state must be copied")
}

func newSQLite(t *testing.T) *SQLiteProvider {
	t.Helper()
	provider, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "hymod.db"))
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })
	require.NoError(t, provider.InitSchema())
	return provider
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	provider := newSQLite(t)

	yamlCfg, err := NewYAMLProvider(filepath.Join("testdata", "catchments.yaml")).LoadConfig()
	require.NoError(t, err)
	require.NoError(t, provider.SaveConfig(yamlCfg))

	cfg, err := provider.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, yamlCfg, cfg)
	assert.False(t, provider.IsReadOnly())

	// saving again replaces rather than appends
	require.NoError(t, provider.SaveConfig(yamlCfg))
	catchments, err := provider.GetCatchments()
	require.NoError(t, err)
	assert.Len(t, catchments, 2)
}

func TestSQLiteProviderAddDeleteCatchment(t *testing.T) {
	provider := newSQLite(t)

	c := referenceCatchment()
	require.NoError(t, provider.AddCatchment(&c))
	assert.Error(t, provider.AddCatchment(&c), "duplicate")

	got, err := provider.GetCatchment("upper-creek")
	require.NoError(t, err)
	assert.Equal(t, c, *got)

	bad := referenceCatchment()
	bad.Name = "bad"
	bad.Params.N = 5
	assert.ErrorIs(t, provider.AddCatchment(&bad), ErrInvalidConfig)

	require.NoError(t, provider.DeleteCatchment("upper-creek"))
	assert.Error(t, provider.DeleteCatchment("upper-creek"))

	_, err = provider.GetCatchment("upper-creek")
	assert.Error(t, err)
}

func TestSQLiteProviderEmptyDatabaseIsInvalid(t *testing.T) {
	provider := newSQLite(t)
	_, err := provider.LoadConfig()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSQLiteSchemaMigrations(t *testing.T) {
	provider := newSQLite(t)

	m := NewMigrator(provider.db, nil)
	version, err := m.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	pending, err := m.GetPendingMigrations()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// InitSchema is idempotent
	require.NoError(t, provider.InitSchema())
}
