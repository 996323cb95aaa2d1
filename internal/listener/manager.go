// Package listener holds the transports players connect through: websocket,
// telnet, and ssh. Each transport authenticates a session, then feeds lines
// or frames through the shared connection manager.
package listener

import (
	"fmt"
	"sync"

	"github.com/hollowroot/jungeon/internal/commands"
	"github.com/hollowroot/jungeon/internal/game"
	"github.com/hollowroot/jungeon/internal/messaging"
	"github.com/hollowroot/jungeon/internal/session"
)

// ConnectionManager tracks which players have a live connection and runs
// the login/dispatch flow all transports share. It is the commands.Roster:
// name resolution and world-wide tells only see connected players.
type ConnectionManager struct {
	mu     sync.RWMutex
	online map[string]struct{}

	engine   *game.Engine
	sessions *session.Manager
	pub      *messaging.Publisher
	router   *commands.Router
}

func NewConnectionManager(engine *game.Engine, sessions *session.Manager, pub *messaging.Publisher) *ConnectionManager {
	cm := &ConnectionManager{
		online:   make(map[string]struct{}),
		engine:   engine,
		sessions: sessions,
		pub:      pub,
	}
	cm.router = commands.NewRouter(engine, cm)
	return cm
}

func (m *ConnectionManager) OnlinePlayerIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.online))
	for id := range m.online {
		ids = append(ids, id)
	}
	return ids
}

// Login allocates the character and issues a session token. The caller must
// Attach once its delivery channel is ready.
func (m *ConnectionManager) Login(characterID string) (*session.Session, *game.PlayerState, error) {
	player, err := m.engine.AllocatePlayer(characterID)
	if err != nil {
		return nil, nil, err
	}
	return m.sessions.Create(player.PlayerID), player, nil
}

// Logout releases the player and forgets the session. Idempotent.
func (m *ConnectionManager) Logout(sess *session.Session) {
	m.engine.ReleasePlayer(sess.PlayerID)
	m.sessions.Remove(sess.ID)
	m.Detach(sess.PlayerID)
}

// Resolve maps a session token to its session, or nil.
func (m *ConnectionManager) Resolve(sessionID string) *session.Session {
	return m.sessions.Get(sessionID)
}

func (m *ConnectionManager) Attach(playerID string) {
	m.mu.Lock()
	m.online[playerID] = struct{}{}
	m.mu.Unlock()
}

func (m *ConnectionManager) Detach(playerID string) {
	m.mu.Lock()
	delete(m.online, playerID)
	m.mu.Unlock()
}

// Dispatch parses one line of input and runs it. The returned result covers
// only the acting player; cross-player deliveries have already been published.
func (m *ConnectionManager) Dispatch(playerID, line string) (*commands.Result, error) {
	result, err := m.router.Dispatch(playerID, commands.Parse(line))
	if err != nil {
		return nil, err
	}
	if err := m.pub.PublishResult(result); err != nil {
		return nil, fmt.Errorf("publishing result: %w", err)
	}
	return result, nil
}

// BroadcastOnlinePlayers pushes each connected player a roster frame that
// excludes themselves.
func (m *ConnectionManager) BroadcastOnlinePlayers() {
	ids := m.OnlinePlayerIDs()
	all := m.engine.OnlineNames(ids)
	for _, pid := range ids {
		others := make([]game.NamedPlayer, 0, len(all))
		for _, p := range all {
			if p.PlayerID != pid {
				others = append(others, p)
			}
		}
		msg := commands.Message{
			Type: "onlinePlayers",
			Data: map[string]any{"players": others},
		}
		// Best effort: a player who vanished mid-iteration just misses one
		// roster update.
		_ = m.pub.PublishTo(pid, msg)
	}
}

// Engine exposes the world engine for transports that render their own room
// and inventory views.
func (m *ConnectionManager) Engine() *game.Engine {
	return m.engine
}

// Subscribe attaches a frame handler for one player's outbound subject.
func (m *ConnectionManager) Subscribe(playerID string, handler func(data []byte)) (func(), error) {
	return m.pub.SubscribePlayer(playerID, handler)
}
