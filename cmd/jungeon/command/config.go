package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	World     WorldConfig      `json:"world"`
	Listeners []ListenerConfig `json:"listeners"`
	Nats      NatsConfig       `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		if err := l.Validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.World.Validate())
	el.Add(c.Nats.Validate())

	return el.Err()
}
