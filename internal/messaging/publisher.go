package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/hollowroot/jungeon/internal/commands"
	"github.com/hollowroot/jungeon/internal/game"
)

// PlayerSubject is the NATS subject carrying frames for one player.
func PlayerSubject(playerID string) string {
	return fmt.Sprintf("player.%s", playerID)
}

// Publisher fans game frames out to per-player subjects. Room broadcasts
// resolve the occupant set through the engine at publish time, so a player
// who moved away between dispatch and delivery no longer hears the event.
type Publisher struct {
	server *NatsServer
	engine *game.Engine
}

func NewPublisher(server *NatsServer, engine *game.Engine) *Publisher {
	return &Publisher{server: server, engine: engine}
}

// PublishTo sends one frame to one player.
func (p *Publisher) PublishTo(playerID string, msg commands.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshalling message: %w", err)
	}
	return p.server.Publish(PlayerSubject(playerID), data)
}

// SubscribePlayer attaches a handler to one player's subject. The returned
// function removes the subscription.
func (p *Publisher) SubscribePlayer(playerID string, handler func(data []byte)) (func(), error) {
	return p.server.Subscribe(PlayerSubject(playerID), handler)
}

// BroadcastRoom delivers a text event to everyone in the actor's room,
// excluding the actor unless the event says otherwise.
func (p *Publisher) BroadcastRoom(ev commands.RoomEvent) error {
	actor := p.engine.Player(ev.ActorID)
	if actor == nil {
		return nil
	}

	msg := commands.EventMessage(ev.Text)
	var firstErr error
	for _, pid := range p.engine.RoomPlayerIDs(actor.RoomID) {
		if pid == ev.ActorID && !ev.IncludeSelf {
			continue
		}
		if err := p.PublishTo(pid, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// PublishResult delivers a dispatch result's cross-player portions: direct
// messages and room events. The acting player's own replies and refreshes
// stay with the connection that ran the command.
func (p *Publisher) PublishResult(result *commands.Result) error {
	var firstErr error
	for _, d := range result.Directs {
		if err := p.PublishTo(d.PlayerID, d.Message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, ev := range result.RoomEvents {
		if err := p.BroadcastRoom(ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
