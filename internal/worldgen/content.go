package worldgen

import (
	"fmt"
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hollowroot/jungeon/internal/game"
)

var roomAdjectives = []string{
	"dusty", "echoing", "shadowed", "dripping", "cracked",
	"twisting", "silent", "icy", "stifling", "gloomy",
}

var roomNouns = []string{
	"hall", "cellar", "antechamber", "vault", "passage",
	"gallery", "crypt", "cavern", "library", "guardroom",
}

var genericItemNames = []string{
	"a tarnished silver ring",
	"a cracked emerald amulet",
	"a small brass compass",
	"a rune-etched stone",
	"a faded leather bookmark",
	"a glass vial of swirling mist",
	"a chipped obsidian dagger",
	"a delicate bone flute",
	"a copper coin with a square hole",
	"a fragment of a stained map",
	"a smooth stone painted with an eye",
	"a tiny clockwork beetle",
	"a lock of hair tied with red string",
	"a silver bell that makes no sound",
	"a wax-sealed black envelope",
	"a bronze key-shaped brooch",
}

var ghostDescriptions = []string{
	"a translucent knight with empty, burning eyes",
	"a tattered-robed specter that drips shadow",
	"a towering phantom crowned in jagged bone",
	"a drifting child-ghost humming a tuneless song",
}

var titleCaser = cases.Title(language.English)

// baseAppearance is shared by all generated rooms.
var baseAppearance = map[string]string{
	game.TemplateCoins:      "You see {{ .CoinCount }} gold coin(s) scattered about.",
	game.TemplateEmptyCoins: "You see no coins here.",
	game.TemplateCharacters: "{{ .Names }} are here.",
}

// describeRoom names a generated room from the adjective/noun cycle.
func describeRoom(idx int) *game.RoomDefinition {
	adj := roomAdjectives[idx%len(roomAdjectives)]
	noun := roomNouns[idx%len(roomNouns)]
	return &game.RoomDefinition{
		ID:          roomID(idx),
		Name:        titleCaser.String(adj + " " + noun),
		Description: fmt.Sprintf("A %s %s carved from damp stone. Faint echoes hint at unseen passages.", adj, noun),
		Appearance:  baseAppearance,
	}
}

// placeItems creates one key item per locked door (up to the item budget of
// max(1, roomCount/3)) plus generic flavor items, and scatters them into
// distinct rooms chosen by a random permutation. Once rooms run out any
// remaining items are simply not placed.
func placeItems(result *Result, roomCount, lockedDoors int, rng *rand.Rand) {
	totalItems := roomCount / 3
	if totalItems < 1 {
		totalItems = 1
	}
	numKeys := lockedDoors
	if numKeys > totalItems {
		numKeys = totalItems
	}
	numGeneric := totalItems - numKeys

	var order []string
	for i := 0; i < numKeys; i++ {
		keyID := fmt.Sprintf("key_%d", i)
		result.Items[keyID] = &game.ItemDefinition{
			ID:          keyID,
			Name:        fmt.Sprintf("Strange Key #%d", i+1),
			Description: "a heavy iron key with jagged teeth",
			IsKey:       true,
			KeyID:       keyID,
		}
		order = append(order, keyID)
	}
	for j := 0; j < numGeneric; j++ {
		itemID := fmt.Sprintf("item_%d", j)
		name := genericItemNames[j%len(genericItemNames)]
		result.Items[itemID] = &game.ItemDefinition{
			ID:          itemID,
			Name:        name,
			Description: name,
		}
		order = append(order, itemID)
	}

	roomIDs := make([]string, roomCount)
	for i := range roomIDs {
		roomIDs[i] = roomID(i)
	}
	rng.Shuffle(len(roomIDs), func(i, j int) {
		roomIDs[i], roomIDs[j] = roomIDs[j], roomIDs[i]
	})

	for i, itemID := range order {
		if i >= len(roomIDs) {
			break
		}
		rs := result.RoomStates[roomIDs[i]]
		rs.Items = append(rs.Items, itemID)
	}
}

// seedGhosts places min(3, max(1, roomCount/30)) ghosts uniformly at random,
// with replacement; two ghosts may share a starting room.
func seedGhosts(result *Result, roomCount int, rng *rand.Rand) {
	count := roomCount / 30
	if count < 1 {
		count = 1
	}
	if count > 3 {
		count = 3
	}
	for i := 0; i < count; i++ {
		ghostID := fmt.Sprintf("ghost_%d", i)
		result.Ghosts[ghostID] = &game.GhostState{
			ID:          ghostID,
			RoomID:      roomID(rng.Intn(roomCount)),
			Description: ghostDescriptions[i%len(ghostDescriptions)],
		}
	}
}
