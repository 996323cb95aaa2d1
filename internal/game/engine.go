package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Engine owns all mutable game state behind a single mutex. Every operation,
// including read-only queries, runs entirely under the lock: no operation
// ever observes a partially mutated world.
type Engine struct {
	mu    sync.Mutex
	state *WorldState

	snapshots SnapshotScheduler
	rng       *rand.Rand
}

// EngineOpt configures an Engine.
type EngineOpt func(*Engine)

// WithRand sets the random source used for ghost wandering. Handy for tests.
func WithRand(rng *rand.Rand) EngineOpt {
	return func(e *Engine) {
		e.rng = rng
	}
}

// NewEngine wraps an assembled world state. The scheduler may be nil, in
// which case mutations are not persisted (used by tests).
func NewEngine(state *WorldState, snapshots SnapshotScheduler, opts ...EngineOpt) *Engine {
	e := &Engine{
		state:     state,
		snapshots: snapshots,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// schedulePersist hands the persistence worker a snapshot of the current
// state. Called with the lock held; Schedule must not block.
func (e *Engine) schedulePersist() {
	if e.snapshots == nil {
		return
	}
	e.snapshots.Schedule(BuildSnapshot(e.state))
}

func (e *Engine) updateCharacterSave(p *PlayerState) {
	e.state.CharacterSaves[p.CharacterID] = p.Save()
}

func (e *Engine) player(playerID string) (*PlayerState, error) {
	p, ok := e.state.Players[playerID]
	if !ok {
		return nil, NewUserError("Your session is no longer valid.")
	}
	return p, nil
}

// AllocatePlayer binds a character to a fresh player state. Fails if the
// character is already in use. A prior save restores room, coins, and items;
// item ids that no longer exist in configuration are dropped and a vanished
// room falls back to the template's starting room.
func (e *Engine) AllocatePlayer(characterID string) (*PlayerState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, active := e.state.ActiveCharacters[characterID]; active {
		return nil, NewUserError("Character already in use.")
	}
	tmpl, ok := e.state.Config.Characters[characterID]
	if !ok {
		return nil, NewUserError("Character not available.")
	}

	startingRoom := tmpl.StartingRoom
	if _, ok := e.state.RoomStates[startingRoom]; !ok {
		startingRoom = e.state.anyRoomID()
	}

	roomID := startingRoom
	coins := 0
	var items []string
	if save, ok := e.state.CharacterSaves[characterID]; ok {
		if _, ok := e.state.RoomStates[save.RoomID]; ok {
			roomID = save.RoomID
		}
		coins = save.Coins
		for _, itemID := range save.Items {
			if _, ok := e.state.Config.Items[itemID]; ok {
				items = append(items, itemID)
			}
		}
	}

	player := &PlayerState{
		PlayerID:    uuid.NewString(),
		CharacterID: tmpl.ID,
		Name:        tmpl.Name,
		RoomID:      roomID,
		Coins:       coins,
		Items:       items,
	}
	e.state.Players[player.PlayerID] = player
	e.state.ActiveCharacters[tmpl.ID] = struct{}{}
	e.state.RoomStates[player.RoomID].Players[player.PlayerID] = struct{}{}
	e.updateCharacterSave(player)
	e.schedulePersist()

	return clonePlayer(player), nil
}

// ReleasePlayer removes a player from the world. Idempotent; unknown ids are
// a no-op. The character save is deliberately kept for the next login.
func (e *Engine) ReleasePlayer(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.state.Players[playerID]
	if !ok {
		return
	}
	delete(e.state.Players, playerID)
	delete(e.state.ActiveCharacters, player.CharacterID)
	if rs, ok := e.state.RoomStates[player.RoomID]; ok {
		delete(rs.Players, playerID)
	}
	e.schedulePersist()
}

// AvailableCharacters returns the templates not currently bound to a player.
func (e *Engine) AvailableCharacters() []*CharacterTemplate {
	e.mu.Lock()
	defer e.mu.Unlock()

	var available []*CharacterTemplate
	for id, tmpl := range e.state.Config.Characters {
		if _, active := e.state.ActiveCharacters[id]; !active {
			available = append(available, tmpl)
		}
	}
	return available
}

// Player returns a copy of the player's state, or nil if unknown.
func (e *Engine) Player(playerID string) *PlayerState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return clonePlayer(e.state.Players[playerID])
}

// RoomPlayerIDs lists the occupants of a room.
func (e *Engine) RoomPlayerIDs(roomID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	rs, ok := e.state.RoomStates[roomID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(rs.Players))
	for id := range rs.Players {
		ids = append(ids, id)
	}
	return ids
}

// DescribeRoomForPlayer composes the room-state snapshot a client renders:
// description text, exit list, coin count, other occupants, and the minimap.
func (e *Engine) DescribeRoomForPlayer(playerID string) (*RoomView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	return e.roomView(player), nil
}

// MovePlayer walks a player through an exit. A locked exit requires a held
// key with a matching key id; a successful keyed traversal permanently
// unlocks both the exit and its reverse counterpart. Returns the destination
// room view.
func (e *Engine) MovePlayer(playerID, direction string) (*RoomView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, err := e.player(playerID)
	if err != nil {
		return nil, err
	}
	roomDef := e.state.Config.Rooms[player.RoomID]
	exit, ok := roomDef.Exits[strings.ToLower(direction)]
	if !ok {
		return nil, NewUserError("You cannot go that way.")
	}

	if exit.Locked {
		if !e.holdsKey(player, exit.KeyID) {
			return nil, NewUserError("The door is locked. You need a key.")
		}
		// One-way transition, shared by both sides of the physical door.
		exit.Locked = false
		for _, back := range e.state.Config.Rooms[exit.Target].Exits {
			if back.Target == roomDef.ID && back.KeyID == exit.KeyID {
				back.Locked = false
			}
		}
	}

	oldRoom := e.state.RoomStates[player.RoomID]
	newRoom := e.state.RoomStates[exit.Target]

	delete(oldRoom.Players, playerID)
	newRoom.Players[playerID] = struct{}{}
	player.RoomID = exit.Target

	return e.roomView(player), nil
}

func (e *Engine) holdsKey(player *PlayerState, keyID string) bool {
	if keyID == "" {
		return false
	}
	for _, itemID := range player.Items {
		item, ok := e.state.Config.Items[itemID]
		if ok && item.IsKey && item.KeyID == keyID {
			return true
		}
	}
	return false
}

// CollectCoins transfers the room's entire coin pile to the player. Exactly
// one of two simultaneous collectors wins; the other sees the no-coins error.
func (e *Engine) CollectCoins(playerID string) (collected, playerTotal int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, err := e.player(playerID)
	if err != nil {
		return 0, 0, err
	}
	room := e.state.RoomStates[player.RoomID]
	if room.Coins <= 0 {
		return 0, 0, NewUserError("There are no coins to collect.")
	}
	amount := room.Coins
	room.Coins = 0
	player.Coins += amount
	e.updateCharacterSave(player)
	e.schedulePersist()
	return amount, player.Coins, nil
}

// DropCoins transfers all of the player's coins to the current room.
func (e *Engine) DropCoins(playerID string) (dropped, roomTotal int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, err := e.player(playerID)
	if err != nil {
		return 0, 0, err
	}
	if player.Coins <= 0 {
		return 0, 0, NewUserError("You have no coins to drop.")
	}
	amount := player.Coins
	player.Coins = 0
	room := e.state.RoomStates[player.RoomID]
	room.Coins += amount
	e.updateCharacterSave(player)
	e.schedulePersist()
	return amount, room.Coins, nil
}

// TakeItems moves floor items into the player's inventory. An empty query or
// "all" takes everything; otherwise the first item whose name contains the
// query (case-insensitive) is taken. Returns the resolved names of what was
// taken and the raw count of item ids moved.
func (e *Engine) TakeItems(playerID, query string) (names []string, count int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, err := e.player(playerID)
	if err != nil {
		return nil, 0, err
	}
	room := e.state.RoomStates[player.RoomID]
	if len(room.Items) == 0 {
		return nil, 0, NewUserError("There are no items to take.")
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var taken []string
	if q == "" || q == "all" {
		taken = room.Items
		room.Items = nil
	} else {
		idx := -1
		for i, itemID := range room.Items {
			item, ok := e.state.Config.Items[itemID]
			if ok && strings.Contains(strings.ToLower(item.Name), q) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, 0, NewUserError("You don't see that here.")
		}
		taken = []string{room.Items[idx]}
		room.Items = append(room.Items[:idx], room.Items[idx+1:]...)
	}

	player.Items = append(player.Items, taken...)
	for _, itemID := range taken {
		if item, ok := e.state.Config.Items[itemID]; ok {
			names = append(names, item.Name)
		}
	}
	e.updateCharacterSave(player)
	e.schedulePersist()
	return names, len(taken), nil
}

// ItemRef is an id/name pair for inventory listings.
type ItemRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Inventory returns the player's coins and resolved item names. Item ids
// that no longer resolve to a configured item are skipped.
func (e *Engine) Inventory(playerID string) (coins int, items []ItemRef, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, err := e.player(playerID)
	if err != nil {
		return 0, nil, err
	}
	for _, itemID := range player.Items {
		if item, ok := e.state.Config.Items[itemID]; ok {
			items = append(items, ItemRef{ID: itemID, Name: item.Name})
		}
	}
	return player.Coins, items, nil
}

// EmoteMessage renders "<name> <template>" for a configured emote verb.
// Returns "" if the player is unknown or the verb has no template.
func (e *Engine) EmoteMessage(playerID, verb string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	player, ok := e.state.Players[playerID]
	if !ok {
		return ""
	}
	tmpl, ok := e.state.Config.Emotes[strings.ToLower(verb)]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s %s", player.Name, tmpl)
}

// SetLastTellFrom records who last privately messaged the target, for
// /reply addressing. Unknown targets are ignored.
func (e *Engine) SetLastTellFrom(targetID, fromID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if target, ok := e.state.Players[targetID]; ok {
		target.LastTellFrom = fromID
	}
}

// NamedPlayer pairs a player id with its display name.
type NamedPlayer struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// OnlineNames resolves player ids to display names, skipping unknown ids.
func (e *Engine) OnlineNames(playerIDs []string) []NamedPlayer {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []NamedPlayer
	for _, id := range playerIDs {
		if p, ok := e.state.Players[id]; ok {
			out = append(out, NamedPlayer{PlayerID: id, Name: p.Name})
		}
	}
	return out
}

func clonePlayer(p *PlayerState) *PlayerState {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Items = make([]string, len(p.Items))
	copy(cp.Items, p.Items)
	return &cp
}
