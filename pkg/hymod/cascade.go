package hymod

import "github.com/chrissnell/hymod/pkg/reservoir"

// MaxInlineStages is the number of cascade stages held without a heap allocation
const MaxInlineStages = 16

// ReservoirFactory builds a reservoir from its initial storage, capacity,
// coefficient and reference time unit
type ReservoirFactory func(storage, capacity, k, timeUnit float64) reservoir.Responder

// Cascade is a Nash cascade: reservoirs in series, the outflow of one stage
// feeding the next. A Cascade must not be copied after Reset.
type Cascade struct {
	linear [MaxInlineStages]reservoir.Linear
	slots  [MaxInlineStages]reservoir.Responder
	stages []reservoir.Responder
}

// Reset rebuilds the cascade with one stage per element of storages. A nil
// factory uses reservoir.Linear stages.
func (c *Cascade) Reset(storages []float64, capacity, k, timeUnit float64, factory ReservoirFactory) {
	n := len(storages)
	if n <= MaxInlineStages {
		c.stages = c.slots[:n]
	} else {
		c.stages = make([]reservoir.Responder, n)
	}

	for i, s := range storages {
		switch {
		case factory != nil:
			c.stages[i] = factory(s, capacity, k, timeUnit)
		case i < MaxInlineStages:
			c.linear[i] = reservoir.New(s, capacity, k, timeUnit)
			c.stages[i] = &c.linear[i]
		default:
			r := reservoir.New(s, capacity, k, timeUnit)
			c.stages[i] = &r
		}
	}
}

// Len returns the number of stages
func (c *Cascade) Len() int {
	return len(c.stages)
}

// Route passes x through every stage in order and returns the outflow of the
// last one. An empty cascade returns x unchanged.
func (c *Cascade) Route(x, dt float64) float64 {
	for _, s := range c.stages {
		x = s.Response(x, dt)
	}
	return x
}

// Storages copies the storage of each stage into dst, which must hold Len elements
func (c *Cascade) Storages(dst []float64) {
	for i, s := range c.stages {
		dst[i] = s.Storage()
	}
}
