// Package archetype resolves the broad play style of a decklist.
package archetype

import (
	"sort"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// Archetype is one of the broad play styles the engine has conventions for.
type Archetype string

const (
	Aggro    Archetype = "aggro"
	Midrange Archetype = "midrange"
	Control  Archetype = "control"
	Combo    Archetype = "combo"
)

// Known lists the archetypes with typical-range conventions.
var Known = []Archetype{Aggro, Midrange, Control, Combo}

// Source records how an archetype was determined.
type Source string

const (
	SourceDeclared    Source = "declared"
	SourceName        Source = "deck_name"
	SourceComposition Source = "composition"
	SourceDefault     Source = "default"
)

// Parse normalizes s and reports whether it is a known archetype.
func Parse(s string) (Archetype, bool) {
	a := Archetype(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Known {
		if a == k {
			return a, true
		}
	}
	return a, false
}

var nameKeywords = []struct {
	archetype Archetype
	words     []string
}{
	{Aggro, []string{"aggro", "burn", "red deck", "sligh"}},
	{Control, []string{"control", "blue", "esper", "azorius"}},
	{Combo, []string{"combo", "storm", "ramp"}},
	{Midrange, []string{"midrange"}},
}

// FromName infers an archetype from keywords in a deck name.
func FromName(deckName string) (Archetype, bool) {
	lower := strings.ToLower(deckName)
	for _, entry := range nameKeywords {
		for _, w := range entry.words {
			if strings.Contains(lower, w) {
				return entry.archetype, true
			}
		}
	}
	return "", false
}

// CardLookup resolves card facts by name.
type CardLookup interface {
	Lookup(name string) (*carddb.Card, bool)
}

// DeckAnalysis is a breakdown of deck composition. Cards the lookup
// does not know are counted in UnknownCount only.
type DeckAnalysis struct {
	ColorCounts map[string]int `json:"color_counts"`

	CreatureCount int `json:"creature_count"`
	InstantCount  int `json:"instant_count"`
	SorceryCount  int `json:"sorcery_count"`
	NonlandCount  int `json:"nonland_count"`
	LandCount     int `json:"land_count"`
	UnknownCount  int `json:"unknown_count"`

	ManaCurve    map[int]int `json:"mana_curve"` // mana value (7 = 7+) -> copies
	AvgManaValue float64     `json:"avg_mana_value"`
}

// Analyze breaks down the composition of cards.
func Analyze(cards deck.Multiset, lookup CardLookup) *DeckAnalysis {
	analysis := &DeckAnalysis{
		ColorCounts: make(map[string]int),
		ManaCurve:   make(map[int]int),
	}

	totalMV := 0.0
	for _, name := range cards.Names() {
		qty := cards[name]

		var card *carddb.Card
		if lookup != nil {
			card, _ = lookup.Lookup(name)
		}
		if card == nil {
			if carddb.IsBasicLandName(name) {
				analysis.LandCount += qty
			} else {
				analysis.UnknownCount += qty
			}
			continue
		}

		for _, color := range card.Colors {
			analysis.ColorCounts[color] += qty
		}

		if card.IsLand() {
			analysis.LandCount += qty
			continue
		}

		typeLine := strings.ToLower(card.TypeLine)
		if strings.Contains(typeLine, "creature") {
			analysis.CreatureCount += qty
		}
		if strings.Contains(typeLine, "instant") {
			analysis.InstantCount += qty
		}
		if strings.Contains(typeLine, "sorcery") {
			analysis.SorceryCount += qty
		}

		mv := int(card.ManaValue)
		if mv > 7 {
			mv = 7
		}
		analysis.ManaCurve[mv] += qty
		analysis.NonlandCount += qty
		totalMV += card.ManaValue * float64(qty)
	}

	if analysis.NonlandCount > 0 {
		analysis.AvgManaValue = totalMV / float64(analysis.NonlandCount)
	}
	return analysis
}

// ColorIdentity returns the WUBRG-ordered colors present, or "C".
func (a *DeckAnalysis) ColorIdentity() string {
	var identity strings.Builder
	for _, color := range []string{"W", "U", "B", "R", "G"} {
		if a.ColorCounts[color] > 0 {
			identity.WriteString(color)
		}
	}
	if identity.Len() == 0 {
		return "C"
	}
	return identity.String()
}

// DominantColors returns colors holding at least 15% of colored copies,
// most common first.
func (a *DeckAnalysis) DominantColors() []string {
	totalColored := 0
	for _, count := range a.ColorCounts {
		totalColored += count
	}
	if totalColored == 0 {
		return nil
	}

	colors := make([]string, 0, len(a.ColorCounts))
	for color := range a.ColorCounts {
		colors = append(colors, color)
	}
	sort.Slice(colors, func(i, j int) bool {
		if a.ColorCounts[colors[i]] != a.ColorCounts[colors[j]] {
			return a.ColorCounts[colors[i]] > a.ColorCounts[colors[j]]
		}
		return colors[i] < colors[j]
	})

	threshold := float64(totalColored) * 0.15
	dominant := make([]string, 0, len(colors))
	for _, color := range colors {
		if float64(a.ColorCounts[color]) >= threshold {
			dominant = append(dominant, color)
		}
	}
	return dominant
}

// DetectStyle classifies the deck from its curve and type ratios.
func DetectStyle(a *DeckAnalysis) (Archetype, bool) {
	if a.NonlandCount == 0 {
		return "", false
	}

	creatureRatio := float64(a.CreatureCount) / float64(a.NonlandCount)
	spellRatio := float64(a.InstantCount+a.SorceryCount) / float64(a.NonlandCount)

	lowCurve := a.ManaCurve[0] + a.ManaCurve[1] + a.ManaCurve[2]
	highCurve := a.ManaCurve[5] + a.ManaCurve[6] + a.ManaCurve[7]
	lowRatio := float64(lowCurve) / float64(a.NonlandCount)
	highRatio := float64(highCurve) / float64(a.NonlandCount)

	// Low curve, creature heavy.
	if lowRatio > 0.5 && creatureRatio > 0.6 && a.AvgManaValue < 2.5 {
		return Aggro, true
	}

	// High curve, spell heavy.
	if highRatio > 0.3 && spellRatio > 0.4 && a.AvgManaValue > 3.5 {
		return Control, true
	}

	if creatureRatio > 0.4 && a.AvgManaValue >= 2.5 && a.AvgManaValue <= 3.5 {
		return Midrange, true
	}

	// Cheap, spell-dense lists without a creature base.
	if spellRatio > 0.6 && creatureRatio < 0.2 {
		return Combo, true
	}

	return "", false
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Archetype Archetype `json:"archetype"`
	Known     bool      `json:"known"`
	Source    Source    `json:"source"`
}

// Resolve picks the archetype for a deck: the declared one when given,
// otherwise the deck name, then composition, then midrange. A declared
// archetype outside Known resolves with Known=false.
func Resolve(declared, deckName string, analysis *DeckAnalysis) Resolution {
	if strings.TrimSpace(declared) != "" {
		a, ok := Parse(declared)
		return Resolution{Archetype: a, Known: ok, Source: SourceDeclared}
	}
	if a, ok := FromName(deckName); ok {
		return Resolution{Archetype: a, Known: true, Source: SourceName}
	}
	if analysis != nil {
		if a, ok := DetectStyle(analysis); ok {
			return Resolution{Archetype: a, Known: true, Source: SourceComposition}
		}
	}
	return Resolution{Archetype: Midrange, Known: true, Source: SourceDefault}
}
