package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Cardinal directions. These are the only exit directions the world uses;
// parsers normalize single-letter aliases to these before reaching the engine.
const (
	DirNorth = "north"
	DirSouth = "south"
	DirEast  = "east"
	DirWest  = "west"
)

// ExitDefinition links a room to a neighbor. Locked starts true for keyed
// doors and flips permanently to false the first time someone unlocks it.
type ExitDefinition struct {
	Target string
	Locked bool
	KeyID  string
}

// RoomObject is a static fixture in a room. Its State is the initial state
// tag; the runtime tag lives in RoomState.ObjectsState.
type RoomObject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
}

// CoinsRespawn controls whether a room's coins come back after collection.
type CoinsRespawn struct {
	Enabled bool `json:"enabled,omitempty"`
}

// RoomDefinition is the immutable configuration of one room. It is never
// mutated after startup, except that exit lock flags flip on unlock.
type RoomDefinition struct {
	ID           string
	Name         string
	Description  string
	Exits        map[string]*ExitDefinition
	CoinsInitial int
	CoinsRespawn CoinsRespawn
	Objects      []RoomObject
	Appearance   map[string]string
}

func (r *RoomDefinition) Validate() error {
	el := errors.NewErrorList()

	if r.ID == "" {
		el.Add(fmt.Errorf("room id is required"))
	}
	if r.Name == "" {
		el.Add(fmt.Errorf("room %q: name is required", r.ID))
	}
	if r.CoinsInitial < 0 {
		el.Add(fmt.Errorf("room %q: initial coins must not be negative", r.ID))
	}
	for dir, exit := range r.Exits {
		switch dir {
		case DirNorth, DirSouth, DirEast, DirWest:
		default:
			el.Add(fmt.Errorf("room %q: invalid exit direction %q", r.ID, dir))
		}
		if exit == nil || exit.Target == "" {
			el.Add(fmt.Errorf("room %q: exit %s has no target", r.ID, dir))
			continue
		}
		if exit.Locked && exit.KeyID == "" {
			el.Add(fmt.Errorf("room %q: locked exit %s has no key id", r.ID, dir))
		}
	}

	return el.Err()
}

// ItemDefinition describes a takeable item. Keys carry a KeyID matched
// against locked exits.
type ItemDefinition struct {
	ID          string
	Name        string
	Description string
	IsKey       bool
	KeyID       string
}

// CharacterTemplate is a playable character as configured. At most one
// connected player binds each template at a time.
type CharacterTemplate struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortDescription,omitempty"`
	LongDescription  string `json:"longDescription,omitempty"`
	StartingRoom     string `json:"startingRoom"`
	AppearanceInRoom string `json:"appearanceInRoom,omitempty"`
}

func (c *CharacterTemplate) Validate() error {
	el := errors.NewErrorList()

	if c.ID == "" {
		el.Add(fmt.Errorf("character id is required"))
	}
	if c.Name == "" {
		el.Add(fmt.Errorf("character %q: name is required", c.ID))
	}
	if c.StartingRoom == "" {
		el.Add(fmt.Errorf("character %q: starting room is required", c.ID))
	}

	return el.Err()
}

// WorldConfig bundles every immutable definition the engine consults.
type WorldConfig struct {
	Name        string
	Rooms       map[string]*RoomDefinition
	Characters  map[string]*CharacterTemplate
	Items       map[string]*ItemDefinition
	Emotes      map[string]string
	ObjectVerbs []string
}

// Validate checks each definition and every cross reference: exit targets,
// character starting rooms, and key ids must all resolve.
func (c *WorldConfig) Validate() error {
	el := errors.NewErrorList()

	if len(c.Rooms) == 0 {
		el.Add(fmt.Errorf("world has no rooms"))
	}

	keyIDs := make(map[string]struct{})
	for id, item := range c.Items {
		if item.Name == "" {
			el.Add(fmt.Errorf("item %q: name is required", id))
		}
		if item.IsKey {
			if item.KeyID == "" {
				el.Add(fmt.Errorf("item %q: key has no key id", id))
			} else {
				keyIDs[item.KeyID] = struct{}{}
			}
		}
	}

	for id, room := range c.Rooms {
		el.Add(room.Validate())
		if room.ID != id {
			el.Add(fmt.Errorf("room %q: listed under id %q", room.ID, id))
		}
		for dir, exit := range room.Exits {
			if exit == nil || exit.Target == "" {
				continue
			}
			if _, ok := c.Rooms[exit.Target]; !ok {
				el.Add(fmt.Errorf("room %q: exit %s targets unknown room %q", id, dir, exit.Target))
			}
			if exit.Locked {
				if _, ok := keyIDs[exit.KeyID]; !ok {
					el.Add(fmt.Errorf("room %q: exit %s locked with key %q no item provides", id, dir, exit.KeyID))
				}
			}
		}
	}

	for id, char := range c.Characters {
		el.Add(char.Validate())
		if char.ID != id {
			el.Add(fmt.Errorf("character %q: listed under id %q", char.ID, id))
		}
		if char.StartingRoom != "" {
			if _, ok := c.Rooms[char.StartingRoom]; !ok {
				el.Add(fmt.Errorf("character %q: starting room %q does not exist", id, char.StartingRoom))
			}
		}
	}

	return el.Err()
}
