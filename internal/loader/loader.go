// Package loader reads world configuration from disk and produces the
// immutable WorldConfig plus the initial mutable room and ghost collections.
// Missing or malformed files are startup-fatal; there is no degraded mode.
package loader

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hollowroot/jungeon/internal/game"
	"github.com/hollowroot/jungeon/internal/persist"
	"github.com/hollowroot/jungeon/internal/worldgen"
)

const (
	worldFile      = "world.json"
	charactersFile = "characters.json"
	verbsFile      = "verbs.json"

	// generatedFile is where a procedural run writes its result, so the
	// world that came out of the generator is explicit and reloadable.
	generatedFile = "world.generated.json"
)

type Loader struct {
	dataDir string
	rng     *rand.Rand
}

type LoaderOpt func(*Loader)

// WithRand sets the generation random source. Tests use this for
// reproducible worlds.
func WithRand(rng *rand.Rand) LoaderOpt {
	return func(l *Loader) {
		l.rng = rng
	}
}

func NewLoader(dataDir string, opts ...LoaderOpt) *Loader {
	l := &Loader{
		dataDir: dataDir,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses the three configuration files. A world marked procedural is
// generated instead of read, then written back to world.generated.json.
func (l *Loader) Load() (*game.WorldConfig, map[string]*game.RoomState, map[string]*game.GhostState, error) {
	var world worldDocument
	if err := l.readJSON(worldFile, &world); err != nil {
		return nil, nil, nil, err
	}
	var chars charactersDocument
	if err := l.readJSON(charactersFile, &chars); err != nil {
		return nil, nil, nil, err
	}
	var verbs verbsDocument
	if err := l.readJSON(verbsFile, &verbs); err != nil {
		return nil, nil, nil, err
	}

	characters := make(map[string]*game.CharacterTemplate, len(chars.Characters))
	for _, c := range chars.Characters {
		tmpl := c
		characters[c.ID] = &tmpl
	}

	var rooms map[string]*game.RoomDefinition
	var roomStates map[string]*game.RoomState
	var items map[string]*game.ItemDefinition
	var ghosts map[string]*game.GhostState

	if world.Procedural {
		generated := worldgen.Generate(worldgen.Params{
			RoomCount: world.RoomCount,
			Coins: worldgen.CoinParams{
				Mean: world.Coins.Mean,
				Std:  world.Coins.Std,
				Min:  world.Coins.Min,
				Max:  world.Coins.Max,
			},
		}, l.rng)
		rooms = generated.Rooms
		roomStates = generated.RoomStates
		items = generated.Items
		ghosts = generated.Ghosts

		name := world.WorldName
		if name == "" {
			name = "The Jungeon"
		}
		if err := l.writeGeneratedWorld(name, generated); err != nil {
			return nil, nil, nil, fmt.Errorf("writing generated world: %w", err)
		}
	} else {
		rooms, roomStates, items, ghosts = buildRooms(&world)
	}

	cfg := &game.WorldConfig{
		Name:        world.WorldName,
		Rooms:       rooms,
		Characters:  characters,
		Items:       items,
		Emotes:      verbs.Emotes,
		ObjectVerbs: verbs.ObjectVerbs,
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("validating world configuration: %w", err)
	}

	return cfg, roomStates, ghosts, nil
}

func (l *Loader) readJSON(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(l.dataDir, name))
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// buildRooms normalizes an explicit room listing into definitions and
// initial runtime state. Item ids a room lists that don't exist in the items
// map are dropped.
func buildRooms(world *worldDocument) (map[string]*game.RoomDefinition, map[string]*game.RoomState, map[string]*game.ItemDefinition, map[string]*game.GhostState) {
	items := make(map[string]*game.ItemDefinition, len(world.Items))
	for id, raw := range world.Items {
		name := raw.Name
		if name == "" {
			name = id
		}
		items[id] = &game.ItemDefinition{
			ID:          id,
			Name:        name,
			Description: raw.Description,
			IsKey:       raw.IsKey,
			KeyID:       raw.KeyID,
		}
	}

	rooms := make(map[string]*game.RoomDefinition, len(world.Rooms))
	roomStates := make(map[string]*game.RoomState, len(world.Rooms))
	for _, r := range world.Rooms {
		exits := make(map[string]*game.ExitDefinition, len(r.Exits))
		for dir, raw := range r.Exits {
			exits[dir] = &game.ExitDefinition{
				Target: raw.Target,
				Locked: raw.Locked,
				KeyID:  raw.KeyID,
			}
		}

		def := &game.RoomDefinition{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			Exits:        exits,
			CoinsInitial: r.Coins.Initial,
			CoinsRespawn: r.Coins.Respawn,
			Objects:      r.Objects,
			Appearance:   r.Appearance,
		}
		rooms[def.ID] = def

		state := game.NewRoomState(def)
		for _, itemID := range r.Items {
			if _, ok := items[itemID]; ok {
				state.Items = append(state.Items, itemID)
			}
		}
		roomStates[def.ID] = state
	}

	ghosts := make(map[string]*game.GhostState)
	for id, raw := range world.Ghosts {
		if _, ok := roomStates[raw.RoomID]; !ok {
			continue
		}
		ghosts[id] = &game.GhostState{
			ID:          id,
			RoomID:      raw.RoomID,
			Description: raw.Description,
		}
	}

	return rooms, roomStates, items, ghosts
}

// writeGeneratedWorld persists a generated world as an explicit (non
// procedural) world document so subsequent inspection and reloads see the
// same rooms the players do.
func (l *Loader) writeGeneratedWorld(name string, generated *worldgen.Result) error {
	doc := worldDocument{WorldName: name}

	for id, def := range generated.Rooms {
		exits := make(map[string]exitDocument, len(def.Exits))
		for dir, exit := range def.Exits {
			exits[dir] = exitDocument{
				Target: exit.Target,
				Locked: exit.Locked,
				KeyID:  exit.KeyID,
			}
		}
		doc.Rooms = append(doc.Rooms, roomDocument{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Exits:       exits,
			Coins: coinsDocument{
				Initial: def.CoinsInitial,
				Respawn: def.CoinsRespawn,
			},
			Objects:    def.Objects,
			Appearance: def.Appearance,
			Items:      generated.RoomStates[id].Items,
		})
	}

	doc.Items = make(map[string]itemDocument, len(generated.Items))
	for id, item := range generated.Items {
		doc.Items[id] = itemDocument{
			Name:        item.Name,
			Description: item.Description,
			IsKey:       item.IsKey,
			KeyID:       item.KeyID,
		}
	}

	doc.Ghosts = make(map[string]ghostDocument, len(generated.Ghosts))
	for id, ghost := range generated.Ghosts {
		doc.Ghosts[id] = ghostDocument{
			RoomID:      ghost.RoomID,
			Description: ghost.Description,
		}
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling world document: %w", err)
	}
	return persist.AtomicWrite(filepath.Join(l.dataDir, generatedFile), data, 0644)
}
