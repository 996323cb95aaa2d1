// Package driver runs the periodic world simulation: things that happen on
// their own, with no player input behind them.
package driver

import (
	"context"
	"math/rand"
	"time"
)

const (
	DefaultMinTickInterval = 8 * time.Second
	DefaultMaxTickInterval = 20 * time.Second

	// startupDelay gives listeners time to come up before the first tick.
	startupDelay = 3 * time.Second
)

type Manager interface {
	Tick(context.Context) error
}

// WorldDriver ticks its managers on a randomized interval, so autonomous
// events don't fall into a predictable rhythm.
type WorldDriver struct {
	minInterval time.Duration
	maxInterval time.Duration
	managers    []Manager
	rng         *rand.Rand
}

func NewWorldDriver(managers []Manager, opts ...WorldDriverOpt) *WorldDriver {
	d := &WorldDriver{
		minInterval: DefaultMinTickInterval,
		maxInterval: DefaultMaxTickInterval,
		managers:    managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.rng == nil {
		d.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return d
}

func (d *WorldDriver) Start(ctx context.Context) error {
	timer := time.NewTimer(startupDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			if err := d.Tick(ctx); err != nil {
				return err
			}
			timer.Reset(d.nextInterval())
		}
	}
}

func (d *WorldDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *WorldDriver) nextInterval() time.Duration {
	spread := d.maxInterval - d.minInterval
	if spread <= 0 {
		return d.minInterval
	}
	return d.minInterval + time.Duration(d.rng.Int63n(int64(spread)))
}
