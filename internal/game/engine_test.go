package game

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"
)

// newTestEngine builds a three-room world:
//
//	room_a --east (locked, key_1)--> room_b
//	room_a --north--> room_c
//
// with a key and a torch on the floor of room_a.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	cfg := &WorldConfig{
		Name: "test world",
		Rooms: map[string]*RoomDefinition{
			"room_a": {
				ID:          "room_a",
				Name:        "Stone Cell",
				Description: "A cold stone cell.",
				Exits: map[string]*ExitDefinition{
					DirEast:  {Target: "room_b", Locked: true, KeyID: "key_1"},
					DirNorth: {Target: "room_c"},
				},
				CoinsInitial: 5,
			},
			"room_b": {
				ID:          "room_b",
				Name:        "Vault",
				Description: "A dusty vault.",
				Exits: map[string]*ExitDefinition{
					DirWest: {Target: "room_a", Locked: true, KeyID: "key_1"},
				},
			},
			"room_c": {
				ID:          "room_c",
				Name:        "Corridor",
				Description: "A narrow corridor.",
				Exits: map[string]*ExitDefinition{
					DirSouth: {Target: "room_a"},
				},
				CoinsInitial: 3,
			},
		},
		Characters: map[string]*CharacterTemplate{
			"bob": {
				ID:           "bob",
				Name:         "Bob the Brave",
				StartingRoom: "room_a",
			},
			"lina": {
				ID:           "lina",
				Name:         "Lina the Quiet",
				StartingRoom: "room_a",
			},
		},
		Items: map[string]*ItemDefinition{
			"rusty_key": {ID: "rusty_key", Name: "Rusty Key", IsKey: true, KeyID: "key_1"},
			"torch":     {ID: "torch", Name: "Old Torch"},
		},
		Emotes: map[string]string{
			"sneeze": "sneezes loudly.",
		},
	}

	rooms := make(map[string]*RoomState, len(cfg.Rooms))
	for id, def := range cfg.Rooms {
		rooms[id] = NewRoomState(def)
	}
	rooms["room_a"].Items = []string{"rusty_key", "torch"}

	return NewEngine(NewWorldState(cfg, rooms, nil), nil)
}

func assertUserMessage(t *testing.T, err error, exp string) {
	t.Helper()
	var uerr *UserError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected a user error, got %v", err)
	}
	testutil.AssertEqual(t, "message", uerr.Message, exp)
}

func TestEngine_AllocatePlayer(t *testing.T) {
	e := newTestEngine(t)

	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name", bob.Name, "Bob the Brave")
	testutil.AssertEqual(t, "room", bob.RoomID, "room_a")
	testutil.AssertEqual(t, "coins", bob.Coins, 0)

	_, err = e.AllocatePlayer("bob")
	assertUserMessage(t, err, "Character already in use.")

	_, err = e.AllocatePlayer("ghost_of_nobody")
	assertUserMessage(t, err, "Character not available.")
}

func TestEngine_AvailableCharacters(t *testing.T) {
	e := newTestEngine(t)

	testutil.AssertEqual(t, "initial count", len(e.AvailableCharacters()), 2)

	if _, err := e.AllocatePlayer("bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	available := e.AvailableCharacters()
	testutil.AssertEqual(t, "count after login", len(available), 1)
	testutil.AssertEqual(t, "remaining", available[0].ID, "lina")
}

func TestEngine_ReleaseRestoresSave(t *testing.T) {
	e := newTestEngine(t)

	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := e.CollectCoins(bob.PlayerID); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if _, _, err := e.TakeItems(bob.PlayerID, "torch"); err != nil {
		t.Fatalf("take: %v", err)
	}
	if _, err := e.MovePlayer(bob.PlayerID, DirNorth); err != nil {
		t.Fatalf("move: %v", err)
	}

	e.ReleasePlayer(bob.PlayerID)
	// Idempotent on unknown ids.
	e.ReleasePlayer(bob.PlayerID)

	// The save advances on coin and item operations, not on movement: bob
	// last mutated in room_a, so that is where he comes back.
	again, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "restored room", again.RoomID, "room_a")
	testutil.AssertEqual(t, "restored coins", again.Coins, 5)
	testutil.AssertEqual(t, "restored items", len(again.Items), 1)
	testutil.AssertEqual(t, "restored item id", again.Items[0], "torch")

	// A coin operation after moving captures the new room.
	if _, err := e.MovePlayer(again.PlayerID, DirNorth); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, _, err := e.CollectCoins(again.PlayerID); err != nil {
		t.Fatalf("collect: %v", err)
	}
	e.ReleasePlayer(again.PlayerID)

	third, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room after collect", third.RoomID, "room_c")
	testutil.AssertEqual(t, "coins after collect", third.Coins, 8)
}

func TestEngine_MovePlayer(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = e.MovePlayer(bob.PlayerID, DirSouth)
	assertUserMessage(t, err, "You cannot go that way.")

	view, err := e.MovePlayer(bob.PlayerID, DirNorth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room", view.RoomID, "room_c")
	testutil.AssertEqual(t, "coins visible", view.Coins, 3)
	testutil.AssertEqual(t, "exit count", len(view.Exits), 1)
}

func TestEngine_LockedDoors(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = e.MovePlayer(bob.PlayerID, DirEast)
	assertUserMessage(t, err, "The door is locked. You need a key.")

	if _, _, err := e.TakeItems(bob.PlayerID, "key"); err != nil {
		t.Fatalf("take: %v", err)
	}
	view, err := e.MovePlayer(bob.PlayerID, DirEast)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room", view.RoomID, "room_b")

	// The unlock is permanent on both sides: another player without the
	// key can now walk through freely, in either direction.
	lina, err := e.AllocatePlayer("lina")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, dir := range []string{DirEast, DirWest, DirEast} {
		if _, err := e.MovePlayer(lina.PlayerID, dir); err != nil {
			t.Fatalf("move %s after unlock: %v", dir, err)
		}
	}
}

func TestEngine_CoinConservation(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lina, err := e.AllocatePlayer("lina")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := func() int {
		sum := 0
		for _, rs := range e.state.RoomStates {
			sum += rs.Coins
		}
		for _, p := range e.state.Players {
			sum += p.Coins
		}
		return sum
	}
	before := total()

	steps := []func() error{
		func() error { _, _, err := e.CollectCoins(bob.PlayerID); return err },
		func() error { _, err := e.MovePlayer(bob.PlayerID, DirNorth); return err },
		func() error { _, _, err := e.CollectCoins(bob.PlayerID); return err },
		func() error { _, _, err := e.DropCoins(bob.PlayerID); return err },
		func() error { _, err := e.MovePlayer(lina.PlayerID, DirNorth); return err },
		func() error { _, _, err := e.CollectCoins(lina.PlayerID); return err },
		func() error { _, _, err := e.DropCoins(lina.PlayerID); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		testutil.AssertEqual(t, "coin total", total(), before)
	}
}

func TestEngine_CollectAndDropErrors(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = e.DropCoins(bob.PlayerID)
	assertUserMessage(t, err, "You have no coins to drop.")

	if _, _, err := e.CollectCoins(bob.PlayerID); err != nil {
		t.Fatalf("collect: %v", err)
	}
	_, _, err = e.CollectCoins(bob.PlayerID)
	assertUserMessage(t, err, "There are no coins to collect.")

	_, _, err = e.CollectCoins("not-a-player")
	assertUserMessage(t, err, "Your session is no longer valid.")
}

func TestEngine_ConcurrentCollectSingleWinner(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lina, err := e.AllocatePlayer("lina")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := []string{bob.PlayerID, lina.PlayerID}
	results := make([]int, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			collected, _, err := e.CollectCoins(ids[i%len(ids)])
			if err == nil {
				results[i] = collected
			}
		}(i)
	}
	wg.Wait()

	winners := 0
	sum := 0
	for _, collected := range results {
		if collected > 0 {
			winners++
			sum += collected
		}
	}
	testutil.AssertEqual(t, "winners", winners, 1)
	testutil.AssertEqual(t, "collected", sum, 5)
}

func TestEngine_TakeItems(t *testing.T) {
	tests := map[string]struct {
		query     string
		expNames  []string
		expErrMsg string
	}{
		"by partial name": {
			query:    "torch",
			expNames: []string{"Old Torch"},
		},
		"case insensitive": {
			query:    "RUSTY",
			expNames: []string{"Rusty Key"},
		},
		"everything": {
			query:    "all",
			expNames: []string{"Rusty Key", "Old Torch"},
		},
		"empty query takes everything": {
			query:    "",
			expNames: []string{"Rusty Key", "Old Torch"},
		},
		"no match": {
			query:     "sword",
			expErrMsg: "You don't see that here.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t)
			bob, err := e.AllocatePlayer("bob")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			names, count, err := e.TakeItems(bob.PlayerID, tt.query)
			if tt.expErrMsg != "" {
				assertUserMessage(t, err, tt.expErrMsg)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "count", count, len(tt.expNames))
			testutil.AssertEqual(t, "names", len(names), len(tt.expNames))
			for i, exp := range tt.expNames {
				testutil.AssertEqual(t, "name", names[i], exp)
			}

			_, items, err := e.Inventory(bob.PlayerID)
			if err != nil {
				t.Fatalf("inventory: %v", err)
			}
			testutil.AssertEqual(t, "inventory size", len(items), len(tt.expNames))
		})
	}
}

func TestEngine_TakeFromEmptyRoom(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.MovePlayer(bob.PlayerID, DirNorth); err != nil {
		t.Fatalf("move: %v", err)
	}

	_, _, err = e.TakeItems(bob.PlayerID, "")
	assertUserMessage(t, err, "There are no items to take.")
}

func TestEngine_EmoteMessage(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "known verb", e.EmoteMessage(bob.PlayerID, "sneeze"), "Bob the Brave sneezes loudly.")
	testutil.AssertEqual(t, "case insensitive", e.EmoteMessage(bob.PlayerID, "SNEEZE"), "Bob the Brave sneezes loudly.")
	testutil.AssertEqual(t, "unknown verb", e.EmoteMessage(bob.PlayerID, "juggle"), "")
	testutil.AssertEqual(t, "unknown player", e.EmoteMessage("nobody", "sneeze"), "")
}

func TestEngine_DescribeRoomForPlayer(t *testing.T) {
	e := newTestEngine(t)
	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lina, err := e.AllocatePlayer("lina")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := e.DescribeRoomForPlayer(bob.PlayerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name", view.Name, "Stone Cell")
	testutil.AssertEqual(t, "occupants", len(view.Characters), 1)
	testutil.AssertEqual(t, "occupant name", view.Characters[0].Name, "Lina the Quiet")
	testutil.AssertEqual(t, "occupant id", view.Characters[0].CharacterID, lina.CharacterID)
	if view.Minimap == "" {
		t.Error("expected a minimap")
	}

	_, err = e.DescribeRoomForPlayer("gone")
	assertUserMessage(t, err, "Your session is no longer valid.")
}

func TestEngine_GhostsWanderAndHaunt(t *testing.T) {
	e := newTestEngine(t)
	e.state.Ghosts["ghost_0"] = &GhostState{
		ID:          "ghost_0",
		RoomID:      "room_c",
		Description: "a pale shimmer",
	}
	e.rng = rand.New(rand.NewSource(1))

	bob, err := e.AllocatePlayer("bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// room_c has a single exit, so the ghost lands in room_a with bob.
	events := e.MoveGhostsAndCollectEvents()
	testutil.AssertEqual(t, "ghost room", e.state.Ghosts["ghost_0"].RoomID, "room_a")
	msgs := events[bob.PlayerID]
	testutil.AssertEqual(t, "event count", len(msgs), 1)
	testutil.AssertEqual(t, "event", msgs[0], "A ghost passes through the room: a pale shimmer.")
}
