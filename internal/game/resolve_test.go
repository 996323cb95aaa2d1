package game

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func newResolveEngine(t *testing.T) (*Engine, map[string]string) {
	t.Helper()

	cfg := &WorldConfig{
		Rooms: map[string]*RoomDefinition{
			"hall": {ID: "hall", Name: "Hall", Description: "A hall."},
		},
		Characters: map[string]*CharacterTemplate{
			"bob_brave":  {ID: "bob_brave", Name: "Bob the Brave", StartingRoom: "hall"},
			"bob_lesser": {ID: "bob_lesser", Name: "Bob the Lesser", StartingRoom: "hall"},
			"lina":       {ID: "lina", Name: "Lina the Quiet", StartingRoom: "hall"},
		},
	}
	rooms := map[string]*RoomState{"hall": NewRoomState(cfg.Rooms["hall"])}
	e := NewEngine(NewWorldState(cfg, rooms, nil), nil)

	players := make(map[string]string)
	for _, id := range []string{"bob_brave", "bob_lesser", "lina"} {
		p, err := e.AllocatePlayer(id)
		if err != nil {
			t.Fatalf("allocate %s: %v", id, err)
		}
		players[id] = p.PlayerID
	}
	return e, players
}

func TestResolveCharacterName(t *testing.T) {
	e, players := newResolveEngine(t)
	online := []string{players["bob_brave"], players["bob_lesser"], players["lina"]}

	tests := map[string]struct {
		query string
		exp   string
	}{
		"full name":                  {query: "Bob the Brave", exp: players["bob_brave"]},
		"full name case insensitive": {query: "bob the lesser", exp: players["bob_lesser"]},
		"unique prefix":              {query: "li", exp: players["lina"]},
		"unique first word":          {query: "Lina", exp: players["lina"]},
		"ambiguous first word":       {query: "Bob", exp: ""},
		"ambiguous prefix":           {query: "bo", exp: ""},
		"no match":                   {query: "Torin", exp: ""},
		"empty":                      {query: "", exp: ""},
		"whitespace":                 {query: "   ", exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "resolved", e.ResolveCharacterName(tt.query, online), tt.exp)
		})
	}
}

func TestResolveCharacterName_OnlyOnlineConsidered(t *testing.T) {
	e, players := newResolveEngine(t)

	// Only one Bob online: the shared prefix is unique again.
	online := []string{players["bob_brave"], players["lina"]}
	testutil.AssertEqual(t, "prefix", e.ResolveCharacterName("bo", online), players["bob_brave"])
	testutil.AssertEqual(t, "first word", e.ResolveCharacterName("Bob", online), players["bob_brave"])

	// Stale ids in the roster are skipped rather than matched.
	testutil.AssertEqual(t, "stale id", e.ResolveCharacterName("Lina", []string{"gone", players["lina"]}), players["lina"])
}
