package commands

import (
	"fmt"

	"github.com/hollowroot/jungeon/internal/game"
)

// Message is one outbound frame for a client: a type tag plus a payload the
// transport serializes as-is.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// EventMessage builds the common free-text event frame.
func EventMessage(text string) Message {
	return Message{Type: "event", Data: map[string]any{"text": text}}
}

// ErrorMessage builds the frame transports send for a validation failure.
func ErrorMessage(text string) Message {
	return Message{Type: "error", Data: map[string]any{"message": text}}
}

// Direct addresses a message to one specific player other than the actor.
type Direct struct {
	PlayerID string
	Message  Message
}

// RoomEvent addresses a text event to the occupants of the actor's room.
type RoomEvent struct {
	ActorID     string
	Text        string
	IncludeSelf bool
}

// Result is everything a handler wants delivered. Replies go to the acting
// player; the transport additionally refreshes room or inventory views when
// the flags are set.
type Result struct {
	Replies          []Message
	Directs          []Direct
	RoomEvents       []RoomEvent
	RefreshRoom      bool
	RefreshInventory bool
}

// Roster reports which players currently have a live connection. Name
// resolution and world-wide messaging only ever consider online players.
type Roster interface {
	OnlinePlayerIDs() []string
}

type handlerFunc func(r *Router, playerID string, in Intent) (*Result, error)

// Router dispatches intents to handlers. Handlers return game.UserError for
// anything the player got wrong; the transport turns those into error frames.
type Router struct {
	engine   *game.Engine
	roster   Roster
	handlers map[string]handlerFunc
}

func NewRouter(engine *game.Engine, roster Roster) *Router {
	r := &Router{
		engine: engine,
		roster: roster,
	}
	r.handlers = map[string]handlerFunc{
		"noop":      handleNoop,
		"go":        handleGo,
		"look":      handleLook,
		"collect":   handleCollect,
		"drop":      handleDrop,
		"take":      handleTake,
		"inventory": handleInventory,
		"say":       handleSay,
		"emote":     handleEmote,
		"tell":      handleTell,
		"yell":      handleYell,
		"reply":     handleReply,
		"who":       handleWho,
	}
	return r
}

// Dispatch runs the handler for the intent's action. Unknown actions are a
// validation failure like any other.
func (r *Router) Dispatch(playerID string, in Intent) (*Result, error) {
	handler, ok := r.handlers[in.Action]
	if !ok {
		return nil, game.NewUserError(fmt.Sprintf("Unknown command: %s", in.Action))
	}
	return handler(r, playerID, in)
}

func handleNoop(r *Router, playerID string, in Intent) (*Result, error) {
	return &Result{}, nil
}

func handleLook(r *Router, playerID string, in Intent) (*Result, error) {
	return &Result{RefreshRoom: true}, nil
}

func handleGo(r *Router, playerID string, in Intent) (*Result, error) {
	if len(in.Args) == 0 {
		return nil, game.NewUserError("Specify a direction (north/south/east/west).")
	}
	view, err := r.engine.MovePlayer(playerID, in.Args[0])
	if err != nil {
		return nil, err
	}
	return &Result{
		Replies:    []Message{{Type: "roomState", Data: view}},
		RoomEvents: []RoomEvent{{ActorID: playerID, Text: "You hear footsteps as someone moves."}},
	}, nil
}

func handleCollect(r *Router, playerID string, in Intent) (*Result, error) {
	collected, _, err := r.engine.CollectCoins(playerID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Replies:          []Message{EventMessage(fmt.Sprintf("You collect %d coin(s).", collected))},
		RoomEvents:       []RoomEvent{{ActorID: playerID, Text: "Someone collects coins nearby."}},
		RefreshRoom:      true,
		RefreshInventory: true,
	}, nil
}

func handleDrop(r *Router, playerID string, in Intent) (*Result, error) {
	dropped, _, err := r.engine.DropCoins(playerID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Replies:          []Message{EventMessage(fmt.Sprintf("You drop %d coin(s).", dropped))},
		RoomEvents:       []RoomEvent{{ActorID: playerID, Text: "You hear coins clatter onto the floor."}},
		RefreshRoom:      true,
		RefreshInventory: true,
	}, nil
}
