package commands

import (
	"fmt"
	"strings"
)

func handleTake(r *Router, playerID string, in Intent) (*Result, error) {
	query := strings.Join(in.Args, " ")
	names, count, err := r.engine.TakeItems(playerID, query)
	if err != nil {
		return nil, err
	}

	result := &Result{RefreshInventory: true}
	if count > 0 {
		result.Replies = append(result.Replies,
			EventMessage(fmt.Sprintf("You take %s.", strings.Join(names, ", "))))
		result.RoomEvents = append(result.RoomEvents,
			RoomEvent{ActorID: playerID, Text: "Someone picks something up nearby."})
	}
	return result, nil
}

func handleInventory(r *Router, playerID string, in Intent) (*Result, error) {
	coins, items, err := r.engine.Inventory(playerID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Replies: []Message{{
			Type: "inventory",
			Data: map[string]any{"coins": coins, "items": items},
		}},
	}, nil
}
