package driver

import (
	"math/rand"
	"time"
)

type WorldDriverOpt func(*WorldDriver)

// WithTickInterval sets the bounds of the randomized tick interval.
func WithTickInterval(min, max time.Duration) WorldDriverOpt {
	return func(d *WorldDriver) {
		d.minInterval = min
		d.maxInterval = max
	}
}

// WithRand sets the random source used to pick intervals.
func WithRand(rng *rand.Rand) WorldDriverOpt {
	return func(d *WorldDriver) {
		d.rng = rng
	}
}
