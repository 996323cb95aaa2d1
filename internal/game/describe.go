package game

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Appearance template keys a room definition may carry.
const (
	TemplateCoins      = "coinsTemplate"
	TemplateEmptyCoins = "emptyCoinsTemplate"
	TemplateCharacters = "charactersTemplate"
)

var templateFuncs = sprig.TxtFuncMap()

// CharacterRef is the public view of another occupant of a room.
type CharacterRef struct {
	Name        string `json:"name"`
	CharacterID string `json:"characterId"`
}

// RoomView is the room-state snapshot sent to a client after a look or a
// move.
type RoomView struct {
	RoomID      string         `json:"roomId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Exits       []string       `json:"exits"`
	Coins       int            `json:"coins"`
	Minimap     string         `json:"minimap"`
	Characters  []CharacterRef `json:"characters"`
}

// roomView builds the view of the player's current room. Lock must be held.
func (e *Engine) roomView(player *PlayerState) *RoomView {
	roomDef := e.state.Config.Rooms[player.RoomID]
	roomState := e.state.RoomStates[player.RoomID]

	var others []*PlayerState
	var refs []CharacterRef
	for pid := range roomState.Players {
		if pid == player.PlayerID {
			continue
		}
		other := e.state.Players[pid]
		others = append(others, other)
		refs = append(refs, CharacterRef{Name: other.Name, CharacterID: other.CharacterID})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	exits := make([]string, 0, len(roomDef.Exits))
	for dir := range roomDef.Exits {
		exits = append(exits, dir)
	}
	sort.Strings(exits)

	return &RoomView{
		RoomID:      roomDef.ID,
		Name:        roomDef.Name,
		Description: composeDescription(roomDef, roomState, others, e.state.Config),
		Exits:       exits,
		Coins:       roomState.Coins,
		Minimap:     e.minimapFor(player),
		Characters:  refs,
	}
}

// composeDescription assembles the description text for a room: base text,
// coins line, items line, and other occupants rendered through each
// character's appearance template.
func composeDescription(def *RoomDefinition, state *RoomState, others []*PlayerState, cfg *WorldConfig) string {
	lines := []string{def.Description}

	if state.Coins > 0 {
		if line := expandAppearance(def.Appearance[TemplateCoins], map[string]any{"CoinCount": state.Coins}); line != "" {
			lines = append(lines, line)
		}
	} else if line := def.Appearance[TemplateEmptyCoins]; line != "" {
		lines = append(lines, line)
	}

	if len(state.Items) > 0 {
		var names []string
		for _, itemID := range state.Items {
			if item, ok := cfg.Items[itemID]; ok {
				names = append(names, item.Name)
			}
		}
		if len(names) > 0 {
			lines = append(lines, "Items here: "+strings.Join(names, ", ")+".")
		}
	}

	if len(others) > 0 {
		var appearances []string
		for _, p := range others {
			if tmpl, ok := cfg.Characters[p.CharacterID]; ok && tmpl.AppearanceInRoom != "" {
				appearances = append(appearances, expandAppearance(tmpl.AppearanceInRoom, map[string]any{"Name": tmpl.Name}))
			} else {
				appearances = append(appearances, fmt.Sprintf("%s is here.", p.Name))
			}
		}
		charLine := def.Appearance[TemplateCharacters]
		if charLine == "" {
			charLine = "{{ .Names }} are here."
		}
		lines = append(lines, expandAppearance(charLine, map[string]any{"Names": strings.Join(appearances, " ")}))
	}

	return strings.Join(lines, "\n")
}

// expandAppearance renders an appearance template. A malformed template logs
// and yields "" rather than surfacing an error to gameplay; appearance
// strings are content, not code.
func expandAppearance(tmplStr string, data any) string {
	if tmplStr == "" {
		return ""
	}
	// Plain strings pass through untouched.
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr
	}
	tmpl, err := template.New("").Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		slog.Warn("parsing appearance template", "template", tmplStr, "error", err)
		return ""
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Warn("executing appearance template", "template", tmplStr, "error", err)
		return ""
	}
	return buf.String()
}
