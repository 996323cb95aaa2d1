package game

// RoomState holds the mutable side of a room. Created once per room at load
// time and never destroyed.
type RoomState struct {
	ID           string
	Coins        int
	Players      map[string]struct{}
	ObjectsState map[string]string
	Items        []string
}

// NewRoomState creates the runtime state for a room definition.
func NewRoomState(def *RoomDefinition) *RoomState {
	objects := make(map[string]string, len(def.Objects))
	for _, o := range def.Objects {
		state := o.State
		if state == "" {
			state = "idle"
		}
		objects[o.ID] = state
	}
	return &RoomState{
		ID:           def.ID,
		Coins:        def.CoinsInitial,
		Players:      make(map[string]struct{}),
		ObjectsState: objects,
	}
}

// PlayerState is the ephemeral record of one connected client. It exists from
// login allocation to disconnect; the durable cross-session record is the
// CharacterSave.
type PlayerState struct {
	PlayerID    string
	CharacterID string
	Name        string
	RoomID      string
	Coins       int
	Items       []string

	// LastTellFrom is the player id of the most recent private-message
	// sender, used by /reply. Empty until someone tells this player.
	LastTellFrom string
}

// Save captures the durable subset of the player's state.
func (p *PlayerState) Save() *CharacterSave {
	items := make([]string, len(p.Items))
	copy(items, p.Items)
	return &CharacterSave{
		CharacterID: p.CharacterID,
		RoomID:      p.RoomID,
		Coins:       p.Coins,
		Items:       items,
	}
}

// GhostState is an autonomous wanderer. Not owned by any player.
type GhostState struct {
	ID          string
	RoomID      string
	Description string
}

// CharacterSave is the durable record of a character between logins. It is
// written whenever a bound player mutates and deliberately kept on logout.
type CharacterSave struct {
	CharacterID string
	RoomID      string
	Coins       int
	Items       []string
}

// WorldState is the single authoritative collection of all mutable game
// state. Exactly one instance exists per process; all access goes through the
// Engine's lock.
type WorldState struct {
	Config *WorldConfig

	RoomStates       map[string]*RoomState
	Players          map[string]*PlayerState
	ActiveCharacters map[string]struct{}
	Ghosts           map[string]*GhostState
	CharacterSaves   map[string]*CharacterSave
}

// NewWorldState assembles a world from loaded configuration and initial
// runtime collections.
func NewWorldState(cfg *WorldConfig, rooms map[string]*RoomState, ghosts map[string]*GhostState) *WorldState {
	if rooms == nil {
		rooms = make(map[string]*RoomState)
	}
	if ghosts == nil {
		ghosts = make(map[string]*GhostState)
	}
	return &WorldState{
		Config:           cfg,
		RoomStates:       rooms,
		Players:          make(map[string]*PlayerState),
		ActiveCharacters: make(map[string]struct{}),
		Ghosts:           ghosts,
		CharacterSaves:   make(map[string]*CharacterSave),
	}
}

// anyRoomID returns an arbitrary valid room id, used as a fallback when a
// saved room no longer exists.
func (w *WorldState) anyRoomID() string {
	for id := range w.RoomStates {
		return id
	}
	return ""
}
