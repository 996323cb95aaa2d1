package game

import (
	"fmt"
	"math/rand"
	"time"
)

// MoveGhostsAndCollectEvents advances every ghost through one random exit of
// its current room (ghosts in exitless rooms stay put), then reports a flavor
// message for each player now sharing a room with a ghost. The result maps
// player id to the messages that player should receive.
func (e *Engine) MoveGhostsAndCollectEvents() map[string][]string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.state.Ghosts) == 0 {
		return nil
	}
	rng := e.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		e.rng = rng
	}

	for _, ghost := range e.state.Ghosts {
		roomDef, ok := e.state.Config.Rooms[ghost.RoomID]
		if !ok || len(roomDef.Exits) == 0 {
			continue
		}
		exits := make([]*ExitDefinition, 0, len(roomDef.Exits))
		for _, exit := range roomDef.Exits {
			exits = append(exits, exit)
		}
		ghost.RoomID = exits[rng.Intn(len(exits))].Target
	}

	events := make(map[string][]string)
	for _, ghost := range e.state.Ghosts {
		for _, player := range e.state.Players {
			if player.RoomID == ghost.RoomID {
				msg := fmt.Sprintf("A ghost passes through the room: %s.", ghost.Description)
				events[player.PlayerID] = append(events[player.PlayerID], msg)
			}
		}
	}
	return events
}
