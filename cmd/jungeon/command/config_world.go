package command

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pixil98/go-errors"
)

type WorldConfig struct {
	DataDir      string `json:"data_dir"`
	SnapshotPath string `json:"snapshot_path,omitempty"`

	// Bounds of the randomized interval between autonomous world ticks.
	TickMin string `json:"tick_min,omitempty"`
	TickMax string `json:"tick_max,omitempty"`
}

func (c *WorldConfig) Validate() error {
	el := errors.NewErrorList()

	if c.DataDir == "" {
		el.Add(fmt.Errorf("data_dir is required"))
	}

	min, max, err := c.tickBounds()
	if err != nil {
		el.Add(err)
	} else if min > max {
		el.Add(fmt.Errorf("tick_min must not exceed tick_max"))
	}

	return el.Err()
}

func (c *WorldConfig) tickBounds() (time.Duration, time.Duration, error) {
	var min, max time.Duration
	var err error
	if c.TickMin != "" {
		min, err = time.ParseDuration(c.TickMin)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing tick_min: %w", err)
		}
	}
	if c.TickMax != "" {
		max, err = time.ParseDuration(c.TickMax)
		if err != nil {
			return 0, 0, fmt.Errorf("parsing tick_max: %w", err)
		}
	}
	return min, max, nil
}

func (c *WorldConfig) snapshotPath() string {
	if c.SnapshotPath != "" {
		return c.SnapshotPath
	}
	return filepath.Join(c.DataDir, "savegame.json")
}
