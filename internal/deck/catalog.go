package deck

import "github.com/consolecatch/server/internal/models"

// CopiesPerKind is how many copies of each card kind a fresh deck contains.
const CopiesPerKind = 4

// Size is the total card count of a fresh deck: 21 kinds x 4 copies.
const Size = 84

type kindDef struct {
	kind  string
	name  string
	emoji string
}

type setDef struct {
	color string
	name  string
	kinds []kindDef
}

// consoleSets is the fixed card catalog: 7 colors ("suits") of 3 kinds each.
var consoleSets = []setDef{
	{color: "beige", name: "Nintendo", kinds: []kindDef{
		{"snes", "SNES", "🕹️"},
		{"n64", "N64", "🎮"},
		{"switch", "Switch", "🔋"},
	}},
	{color: "green", name: "Sony", kinds: []kindDef{
		{"ps1", "PS1", "📀"},
		{"psp", "PSP", "🎯"},
		{"ps4", "PS4", "🕹️"},
	}},
	{color: "blue", name: "Sega", kinds: []kindDef{
		{"saturn", "Saturn", "🪐"},
		{"dreamcast", "Dreamcast", "💫"},
		{"gamegear", "GameGear", "💿"},
	}},
	{color: "yellow", name: "Xbox", kinds: []kindDef{
		{"xbox", "XBOX", "🟩"},
		{"xbox360", "Xbox 360", "⚙️"},
		{"xboxone", "Xbox One", "⬛"},
	}},
	{color: "orange", name: "Steam", kinds: []kindDef{
		{"steamdeck", "SteamDeck", "🎲"},
		{"steammachine", "Steam Mach.", "🖥️"},
		{"steamframe", "Steam Frame", "🖼️"},
	}},
	{color: "grey", name: "PC", kinds: []kindDef{
		{"keyboard", "Keyboard", "⌨️"},
		{"mouse", "Mouse", "🖱️"},
		{"gamingpc", "Gaming PC", "🖥️"},
	}},
	{color: "red", name: "VR", kinds: []kindDef{
		{"oculus", "Oculus", "🥽"},
		{"metaquest", "Meta Quest", "🔮"},
		{"applevr", "Apple VR", "🍎"},
	}},
}

// Catalog returns the 21 distinct card kinds in a stable order.
func Catalog() []models.Card {
	cards := make([]models.Card, 0, len(consoleSets)*3)
	for _, set := range consoleSets {
		for _, k := range set.kinds {
			cards = append(cards, models.Card{
				Kind:    k.kind,
				Name:    k.name,
				Emoji:   k.emoji,
				Color:   set.color,
				SetName: set.name,
			})
		}
	}
	return cards
}
