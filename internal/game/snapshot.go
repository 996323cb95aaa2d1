package game

// Snapshot is the serializable capture of all durable mutable world state.
// It must round-trip through persist.Repository without loss; unknown or
// stale ids are dropped silently on restore, never here.
type Snapshot struct {
	Rooms      map[string]RoomSnapshot      `json:"rooms"`
	Characters map[string]CharacterSnapshot `json:"characters"`
	Ghosts     map[string]GhostSnapshot     `json:"ghosts"`
}

type RoomSnapshot struct {
	Coins int      `json:"coins"`
	Items []string `json:"items"`
}

type CharacterSnapshot struct {
	RoomID string   `json:"roomId"`
	Coins  int      `json:"coins"`
	Items  []string `json:"items"`
}

type GhostSnapshot struct {
	RoomID string `json:"roomId"`
}

// BuildSnapshot captures the durable subset of the world. The caller must
// hold the engine lock (or own the state exclusively, as at startup).
func BuildSnapshot(state *WorldState) *Snapshot {
	snap := &Snapshot{
		Rooms:      make(map[string]RoomSnapshot, len(state.RoomStates)),
		Characters: make(map[string]CharacterSnapshot, len(state.CharacterSaves)),
		Ghosts:     make(map[string]GhostSnapshot, len(state.Ghosts)),
	}
	for id, rs := range state.RoomStates {
		items := make([]string, len(rs.Items))
		copy(items, rs.Items)
		snap.Rooms[id] = RoomSnapshot{Coins: rs.Coins, Items: items}
	}
	for id, cs := range state.CharacterSaves {
		items := make([]string, len(cs.Items))
		copy(items, cs.Items)
		snap.Characters[id] = CharacterSnapshot{RoomID: cs.RoomID, Coins: cs.Coins, Items: items}
	}
	for id, g := range state.Ghosts {
		snap.Ghosts[id] = GhostSnapshot{RoomID: g.RoomID}
	}
	return snap
}

// ApplySnapshot overlays saved durable state onto a freshly loaded world.
// Entries for rooms, characters, ghosts or items the current world no longer
// defines are dropped; a saved character whose room vanished falls back to an
// arbitrary existing room. Call before the engine starts serving.
func (w *WorldState) ApplySnapshot(snap *Snapshot) {
	for id, rs := range snap.Rooms {
		room, ok := w.RoomStates[id]
		if !ok {
			continue
		}
		room.Coins = rs.Coins
		room.Items = w.knownItems(rs.Items)
	}

	for id, cs := range snap.Characters {
		if _, ok := w.Config.Characters[id]; !ok {
			continue
		}
		roomID := cs.RoomID
		if _, ok := w.RoomStates[roomID]; !ok {
			roomID = w.anyRoomID()
		}
		w.CharacterSaves[id] = &CharacterSave{
			CharacterID: id,
			RoomID:      roomID,
			Coins:       cs.Coins,
			Items:       w.knownItems(cs.Items),
		}
	}

	for id, gs := range snap.Ghosts {
		ghost, ok := w.Ghosts[id]
		if !ok {
			continue
		}
		if _, ok := w.RoomStates[gs.RoomID]; !ok {
			continue
		}
		ghost.RoomID = gs.RoomID
	}
}

func (w *WorldState) knownItems(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := w.Config.Items[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SnapshotScheduler accepts snapshots for asynchronous persistence. The
// engine calls it while holding its lock, so implementations must not block.
type SnapshotScheduler interface {
	Schedule(*Snapshot)
}
