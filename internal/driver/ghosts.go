package driver

import (
	"context"

	"github.com/hollowroot/jungeon/internal/commands"
	"github.com/hollowroot/jungeon/internal/game"
	"github.com/hollowroot/jungeon/internal/messaging"
)

// GhostManager wanders the ghosts on every tick and delivers the resulting
// sighting messages to the affected players.
type GhostManager struct {
	engine *game.Engine
	pub    *messaging.Publisher
}

func NewGhostManager(engine *game.Engine, pub *messaging.Publisher) *GhostManager {
	return &GhostManager{engine: engine, pub: pub}
}

func (g *GhostManager) Tick(ctx context.Context) error {
	events := g.engine.MoveGhostsAndCollectEvents()
	for playerID, texts := range events {
		for _, text := range texts {
			if err := g.pub.PublishTo(playerID, commands.EventMessage(text)); err != nil {
				return err
			}
		}
	}
	return nil
}
