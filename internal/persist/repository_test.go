package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/hollowroot/jungeon/internal/game"
)

func testWorldState(t *testing.T) *game.WorldState {
	t.Helper()

	cfg := &game.WorldConfig{
		Name: "test",
		Rooms: map[string]*game.RoomDefinition{
			"cell": {
				ID:          "cell",
				Name:        "Cell",
				Description: "A bare cell.",
				Exits: map[string]*game.ExitDefinition{
					game.DirNorth: {Target: "hall"},
				},
				CoinsInitial: 3,
			},
			"hall": {
				ID:          "hall",
				Name:        "Hall",
				Description: "A long hall.",
				Exits: map[string]*game.ExitDefinition{
					game.DirSouth: {Target: "cell"},
				},
			},
		},
		Characters: map[string]*game.CharacterTemplate{
			"bob": {ID: "bob", Name: "Bob the Brave", StartingRoom: "cell"},
		},
		Items: map[string]*game.ItemDefinition{
			"torch": {ID: "torch", Name: "Torch"},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rooms := map[string]*game.RoomState{}
	for id, def := range cfg.Rooms {
		rooms[id] = game.NewRoomState(def)
	}
	ghosts := map[string]*game.GhostState{
		"ghost_0": {ID: "ghost_0", RoomID: "cell", Description: "a pale shape"},
	}
	return game.NewWorldState(cfg, rooms, ghosts)
}

func TestRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	repo := NewRepository(path)

	state := testWorldState(t)
	state.RoomStates["cell"].Coins = 7
	state.RoomStates["hall"].Items = []string{"torch"}
	state.CharacterSaves["bob"] = &game.CharacterSave{
		CharacterID: "bob",
		RoomID:      "hall",
		Coins:       5,
		Items:       []string{"torch"},
	}
	state.Ghosts["ghost_0"].RoomID = "hall"

	err := repo.Write(game.BuildSnapshot(state))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored := testWorldState(t)
	repo.Restore(restored)

	testutil.AssertEqual(t, "cell coins", restored.RoomStates["cell"].Coins, 7)
	testutil.AssertEqual(t, "hall items", len(restored.RoomStates["hall"].Items), 1)
	testutil.AssertEqual(t, "bob room", restored.CharacterSaves["bob"].RoomID, "hall")
	testutil.AssertEqual(t, "bob coins", restored.CharacterSaves["bob"].Coins, 5)
	testutil.AssertEqual(t, "ghost room", restored.Ghosts["ghost_0"].RoomID, "hall")
}

func TestRepository_RestoreMissingFile(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "snapshot.json"))

	state := testWorldState(t)
	repo.Restore(state)
	testutil.AssertEqual(t, "cell coins untouched", state.RoomStates["cell"].Coins, 3)
}

func TestRepository_RestoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	err := os.WriteFile(path, []byte("{not json"), 0644)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Corrupt snapshots are no prior state, never a failure.
	state := testWorldState(t)
	NewRepository(path).Restore(state)
	testutil.AssertEqual(t, "cell coins untouched", state.RoomStates["cell"].Coins, 3)
}

func TestRepository_RestoreDropsStaleIds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	repo := NewRepository(path)

	snap := &game.Snapshot{
		Rooms: map[string]game.RoomSnapshot{
			"demolished": {Coins: 9},
			"cell":       {Coins: 2, Items: []string{"torch", "retired_item"}},
		},
		Characters: map[string]game.CharacterSnapshot{
			"nobody": {RoomID: "cell", Coins: 1},
			"bob":    {RoomID: "demolished", Coins: 4, Items: []string{"retired_item"}},
		},
		Ghosts: map[string]game.GhostSnapshot{
			"ghost_0":  {RoomID: "demolished"},
			"ghost_99": {RoomID: "cell"},
		},
	}
	err := repo.Write(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := testWorldState(t)
	repo.Restore(state)

	testutil.AssertEqual(t, "cell coins", state.RoomStates["cell"].Coins, 2)
	testutil.AssertEqual(t, "cell items", len(state.RoomStates["cell"].Items), 1)
	if _, ok := state.CharacterSaves["nobody"]; ok {
		t.Error("expected unknown character to be dropped")
	}

	// Saved room vanished, so bob lands in some existing room empty-handed.
	save := state.CharacterSaves["bob"]
	if save == nil {
		t.Fatal("expected bob's save to survive")
	}
	if _, ok := state.RoomStates[save.RoomID]; !ok {
		t.Errorf("expected fallback to an existing room, got %q", save.RoomID)
	}
	testutil.AssertEqual(t, "bob coins", save.Coins, 4)
	testutil.AssertEqual(t, "bob items", len(save.Items), 0)

	// Ghost in a vanished room stays where it was loaded.
	testutil.AssertEqual(t, "ghost room", state.Ghosts["ghost_0"].RoomID, "cell")
}

func TestWorker_ScheduleWithoutLoopWritesSynchronously(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	worker := NewWorker(NewRepository(path))

	state := testWorldState(t)
	state.RoomStates["cell"].Coins = 11
	worker.Schedule(game.BuildSnapshot(state))

	restored := testWorldState(t)
	NewRepository(path).Restore(restored)
	testutil.AssertEqual(t, "cell coins", restored.RoomStates["cell"].Coins, 11)
}
