package reservoir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearResponse(t *testing.T) {
	tests := []struct {
		name        string
		storage     float64
		capacity    float64
		k           float64
		inflow      float64
		dt          float64
		wantOut     float64
		wantStorage float64
	}{
		{
			name:        "one day drains k of storage",
			storage:     10,
			capacity:    100,
			k:           0.01,
			inflow:      0.39875,
			dt:          86400,
			wantOut:     0.1039875,
			wantStorage: 10.2947625,
		},
		{
			name:        "half a day drains half as much",
			storage:     10,
			capacity:    100,
			k:           0.1,
			inflow:      0,
			dt:          43200,
			wantOut:     0.5,
			wantStorage: 9.5,
		},
		{
			name:        "empty reservoir stays empty",
			storage:     0,
			capacity:    100,
			k:           0.1,
			inflow:      0,
			dt:          86400,
			wantOut:     0,
			wantStorage: 0,
		},
		{
			name:        "outflow never exceeds storage",
			storage:     4,
			capacity:    100,
			k:           2,
			inflow:      1,
			dt:          86400,
			wantOut:     5,
			wantStorage: 0,
		},
		{
			name:        "excess above capacity spills",
			storage:     9,
			capacity:    10,
			k:           0,
			inflow:      3,
			dt:          86400,
			wantOut:     2,
			wantStorage: 10,
		},
		{
			name:        "negative storage releases nothing",
			storage:     -1,
			capacity:    10,
			k:           0.5,
			inflow:      0,
			dt:          86400,
			wantOut:     0,
			wantStorage: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.storage, tt.capacity, tt.k, DefaultTimeUnit)
			out := r.Response(tt.inflow, tt.dt)

			assert.InDelta(t, tt.wantOut, out, 1e-12)
			assert.InDelta(t, tt.wantStorage, r.Storage(), 1e-12)
			assert.InDelta(t, tt.storage+tt.inflow, r.Storage()+out, 1e-12, "local mass balance")
		})
	}
}

func TestNewDefaultsTimeUnit(t *testing.T) {
	r := New(10, 100, 0.1, 0)
	out := r.Response(0, DefaultTimeUnit)

	assert.InDelta(t, 1.0, out, 1e-12)
	assert.Equal(t, 100.0, r.Capacity())
	assert.Equal(t, 0.1, r.Coefficient())
}

func TestLinearSatisfiesResponder(t *testing.T) {
	var _ Responder = &Linear{}
}
