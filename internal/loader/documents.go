package loader

import (
	"encoding/json"
	"fmt"

	"github.com/hollowroot/jungeon/internal/game"
)

// worldDocument mirrors the on-disk world.json layout. Exits accept either a
// bare room id or a full object, so exitDocument carries its own unmarshaller.
type worldDocument struct {
	WorldName  string                   `json:"worldName"`
	Procedural bool                     `json:"procedural,omitempty"`
	RoomCount  int                      `json:"roomCount,omitempty"`
	Coins      coinParamsDocument       `json:"coins,omitempty"`
	Rooms      []roomDocument           `json:"rooms"`
	Items      map[string]itemDocument  `json:"items,omitempty"`
	Ghosts     map[string]ghostDocument `json:"ghosts,omitempty"`
}

type coinParamsDocument struct {
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
	Min  int     `json:"min,omitempty"`
	Max  int     `json:"max,omitempty"`
}

type roomDocument struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Exits       map[string]exitDocument `json:"exits,omitempty"`
	Coins       coinsDocument           `json:"coins,omitempty"`
	Objects     []game.RoomObject       `json:"objects,omitempty"`
	Appearance  map[string]string       `json:"appearance,omitempty"`
	Items       []string                `json:"items,omitempty"`
}

type coinsDocument struct {
	Initial int               `json:"initial,omitempty"`
	Respawn game.CoinsRespawn `json:"respawn,omitempty"`
}

type exitDocument struct {
	Target string `json:"target"`
	Locked bool   `json:"locked,omitempty"`
	KeyID  string `json:"keyId,omitempty"`
}

func (e *exitDocument) UnmarshalJSON(data []byte) error {
	var target string
	if err := json.Unmarshal(data, &target); err == nil {
		*e = exitDocument{Target: target}
		return nil
	}

	type plain exitDocument
	var full plain
	if err := json.Unmarshal(data, &full); err != nil {
		return fmt.Errorf("exit must be a room id or an exit object: %w", err)
	}
	*e = exitDocument(full)
	return nil
}

type itemDocument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsKey       bool   `json:"isKey,omitempty"`
	KeyID       string `json:"keyId,omitempty"`
}

type ghostDocument struct {
	RoomID      string `json:"roomId"`
	Description string `json:"description,omitempty"`
}

type charactersDocument struct {
	Characters []game.CharacterTemplate `json:"characters"`
}

type verbsDocument struct {
	Emotes      map[string]string `json:"emotes,omitempty"`
	ObjectVerbs []string          `json:"objectVerbs,omitempty"`
}
