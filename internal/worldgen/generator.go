package worldgen

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/hollowroot/jungeon/internal/game"
)

// CoinParams shape the normal distribution coins are sampled from.
type CoinParams struct {
	Mean float64
	Std  float64
	Min  int
	Max  int
}

// DefaultCoinParams matches a small dungeon economy.
var DefaultCoinParams = CoinParams{Mean: 4.0, Std: 2.0, Min: 0, Max: 10}

// Params drive one generation run.
type Params struct {
	RoomCount int
	Coins     CoinParams
}

// Result is a complete generated world: immutable definitions plus the
// initial runtime collections. It serializes back to a world definition so
// a generated world can be inspected and reloaded verbatim.
type Result struct {
	Rooms      map[string]*game.RoomDefinition
	RoomStates map[string]*game.RoomState
	Items      map[string]*game.ItemDefinition
	Ghosts     map[string]*game.GhostState
}

// Generate builds a procedural world graph with the structural guarantees
// the engine relies on: a connected room graph, doors realized as paired
// directional exits, locked doors whose two sides share a key id, and keys
// sufficient for every locked door (up to the item budget).
func Generate(p Params, rng *rand.Rand) *Result {
	roomCount := p.RoomCount
	if roomCount < 1 {
		roomCount = 1
	}
	coins := p.Coins
	if coins.Max == 0 && coins.Mean == 0 && coins.Std == 0 {
		coins = DefaultCoinParams
	}

	degrees := assignDegrees(roomCount)
	edges := buildRandomGraph(roomCount, degrees, rng)

	lockedKeys := lockEdges(edges, roomCount, rng)
	exitsByIndex := assignDirections(edges, roomCount, lockedKeys, rng)

	result := &Result{
		Rooms:      make(map[string]*game.RoomDefinition, roomCount),
		RoomStates: make(map[string]*game.RoomState, roomCount),
		Items:      make(map[string]*game.ItemDefinition),
		Ghosts:     make(map[string]*game.GhostState),
	}

	for idx := 0; idx < roomCount; idx++ {
		def := describeRoom(idx)
		def.Exits = exitsByIndex[idx]
		def.CoinsInitial = sampleCoins(coins, rng)
		result.Rooms[def.ID] = def
		result.RoomStates[def.ID] = game.NewRoomState(def)
	}

	placeItems(result, roomCount, len(lockedKeys), rng)
	seedGhosts(result, roomCount, rng)

	return result
}

// lockEdges picks max(1, roomCount/10) edges, capped at the edge count, to
// be locked, and assigns each a unique key id shared by both directions.
func lockEdges(edges []edge, roomCount int, rng *rand.Rand) map[edge]string {
	target := roomCount / 10
	if target < 1 {
		target = 1
	}
	if target > len(edges) {
		target = len(edges)
	}

	perm := rng.Perm(len(edges))
	keys := make(map[edge]string, target)
	for i := 0; i < target; i++ {
		keys[edges[perm[i]]] = fmt.Sprintf("key_%d", i)
	}
	return keys
}

// assignDirections realizes each graph edge as a pair of directional exits.
// For every edge a direction pair is chosen such that neither endpoint
// already uses its side; if no pair qualifies after shuffling, an arbitrary
// pair is used anyway. Collisions on that fallback overwrite an existing
// exit, which is tolerated generator behavior.
func assignDirections(edges []edge, roomCount int, lockedKeys map[edge]string, rng *rand.Rand) []map[string]*game.ExitDefinition {
	exits := make([]map[string]*game.ExitDefinition, roomCount)
	used := make([]map[string]struct{}, roomCount)
	for i := 0; i < roomCount; i++ {
		exits[i] = make(map[string]*game.ExitDefinition)
		used[i] = make(map[string]struct{})
	}

	pairs := [][2]string{
		{game.DirNorth, game.DirSouth},
		{game.DirSouth, game.DirNorth},
		{game.DirEast, game.DirWest},
		{game.DirWest, game.DirEast},
	}

	for _, e := range edges {
		rng.Shuffle(len(pairs), func(i, j int) {
			pairs[i], pairs[j] = pairs[j], pairs[i]
		})

		d1, d2 := pairs[0][0], pairs[0][1]
		for _, pair := range pairs {
			_, uTaken := used[e.u][pair[0]]
			_, vTaken := used[e.v][pair[1]]
			if !uTaken && !vTaken {
				d1, d2 = pair[0], pair[1]
				break
			}
		}
		used[e.u][d1] = struct{}{}
		used[e.v][d2] = struct{}{}

		keyID, locked := lockedKeys[e]
		exits[e.u][d1] = &game.ExitDefinition{
			Target: roomID(e.v),
			Locked: locked,
			KeyID:  keyID,
		}
		exits[e.v][d2] = &game.ExitDefinition{
			Target: roomID(e.u),
			Locked: locked,
			KeyID:  keyID,
		}
	}
	return exits
}

// sampleCoins draws from the configured normal distribution, rounded and
// clamped to [Min, Max].
func sampleCoins(p CoinParams, rng *rand.Rand) int {
	value := int(math.Round(rng.NormFloat64()*p.Std + p.Mean))
	if value < p.Min {
		value = p.Min
	}
	if value > p.Max {
		value = p.Max
	}
	return value
}

func roomID(idx int) string {
	return fmt.Sprintf("room_%d", idx)
}
