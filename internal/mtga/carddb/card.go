// Package carddb provides the read-only card metadata snapshot consumed
// by the assumption engine and the rarity lookups of the distance
// calculator.
package carddb

import (
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// Card holds the facts the engines need about one card name.
type Card struct {
	Name       string      `json:"name"`
	ManaCost   string      `json:"mana_cost,omitempty"`
	ManaValue  float64     `json:"mana_value"`
	TypeLine   string      `json:"type_line"`
	OracleText string      `json:"oracle_text,omitempty"`
	Colors     []string    `json:"colors,omitempty"`
	Keywords   []string    `json:"keywords,omitempty"`
	Rarity     deck.Rarity `json:"rarity,omitempty"`
	ArenaID    int         `json:"arena_id,omitempty"`
	SetCode    string      `json:"set,omitempty"`
}

// frontType returns the type line of the front face.
func (c *Card) frontType() string {
	front, _, _ := strings.Cut(c.TypeLine, " // ")
	return front
}

// IsLand reports whether the front face is a land.
func (c *Card) IsLand() bool {
	return strings.Contains(c.frontType(), "Land")
}

// IsBasicLand reports whether the card is a basic land.
func (c *Card) IsBasicLand() bool {
	return strings.Contains(c.frontType(), "Basic") && c.IsLand()
}

// IsInstantSpeed reports whether the card can be cast at instant speed.
func (c *Card) IsInstantSpeed() bool {
	if strings.Contains(c.frontType(), "Instant") {
		return true
	}
	for _, kw := range c.Keywords {
		if strings.EqualFold(kw, "Flash") {
			return true
		}
	}
	return false
}

// HasAnyText reports whether the oracle text contains any of the phrases,
// ignoring case.
func (c *Card) HasAnyText(phrases ...string) bool {
	text := strings.ToLower(c.OracleText)
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

var basicLandNames = map[string]bool{
	"Plains":                true,
	"Island":                true,
	"Swamp":                 true,
	"Mountain":              true,
	"Forest":                true,
	"Wastes":                true,
	"Snow-Covered Plains":   true,
	"Snow-Covered Island":   true,
	"Snow-Covered Swamp":    true,
	"Snow-Covered Mountain": true,
	"Snow-Covered Forest":   true,
}

// IsBasicLandName reports whether name is a basic land. Basic lands are
// known by name even when the card database has not been loaded.
func IsBasicLandName(name string) bool {
	return basicLandNames[name]
}
