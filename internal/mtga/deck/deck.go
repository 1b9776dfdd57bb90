// Package deck defines the value types shared by the deck distance and
// assumption engines: card multisets, rarities, decks and wildcard costs.
package deck

import (
	"sort"
	"strings"
)

// Rarity is a card rarity as used for wildcard crafting.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

// DefaultRarity is assumed for cards the rarity lookup does not know.
// Treating unknowns as cheap would understate the wildcard cost.
const DefaultRarity = RarityRare

// Rarities lists every rarity from cheapest to most expensive.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic}

// ParseRarity normalizes a rarity string. It reports false for values
// outside the four craftable rarities (e.g. "special", "bonus").
func ParseRarity(s string) (Rarity, bool) {
	switch Rarity(strings.ToLower(strings.TrimSpace(s))) {
	case RarityCommon:
		return RarityCommon, true
	case RarityUncommon:
		return RarityUncommon, true
	case RarityRare:
		return RarityRare, true
	case RarityMythic:
		return RarityMythic, true
	}
	return "", false
}

// Weight returns the relative acquisition difficulty of one wildcard.
func (r Rarity) Weight() float64 {
	switch r {
	case RarityCommon:
		return 0.1
	case RarityUncommon:
		return 0.25
	case RarityMythic:
		return 4.0
	default:
		return 1.0
	}
}

// RarityLookup resolves card names to rarities.
type RarityLookup interface {
	Rarity(name string) (Rarity, bool)
}

// RarityMap is a RarityLookup backed by a plain map. Entries outside the
// four craftable rarities count as unknown.
type RarityMap map[string]Rarity

// Rarity implements RarityLookup.
func (m RarityMap) Rarity(name string) (Rarity, bool) {
	r, ok := m[name]
	if !ok {
		return "", false
	}
	return ParseRarity(string(r))
}

// RarityChain asks each lookup in order and returns the first answer.
type RarityChain []RarityLookup

// Rarity implements RarityLookup.
func (c RarityChain) Rarity(name string) (Rarity, bool) {
	for _, lookup := range c {
		if lookup == nil {
			continue
		}
		if r, ok := lookup.Rarity(name); ok {
			return r, true
		}
	}
	return "", false
}

// ResolveRarity looks name up, falling back to DefaultRarity when the
// lookup is nil, does not know the card, or answers with a rarity that
// cannot be crafted.
func ResolveRarity(lookup RarityLookup, name string) Rarity {
	if lookup == nil {
		return DefaultRarity
	}
	if r, ok := lookup.Rarity(name); ok {
		if parsed, ok := ParseRarity(string(r)); ok {
			return parsed
		}
	}
	return DefaultRarity
}

// Multiset maps card names (exact Arena spelling) to quantities.
// A name absent from the map has quantity zero.
type Multiset map[string]int

// NewMultiset copies m, dropping non-positive quantities.
func NewMultiset(m map[string]int) Multiset {
	out := make(Multiset, len(m))
	for name, qty := range m {
		if qty > 0 && name != "" {
			out[name] = qty
		}
	}
	return out
}

// Count returns the quantity of name.
func (m Multiset) Count(name string) int {
	return m[name]
}

// Add increases the quantity of name by qty. Non-positive values are ignored.
func (m Multiset) Add(name string, qty int) {
	if qty <= 0 || name == "" {
		return
	}
	m[name] += qty
}

// Total returns the sum of all quantities.
func (m Multiset) Total() int {
	total := 0
	for _, qty := range m {
		total += qty
	}
	return total
}

// Names returns the card names in sorted order.
func (m Multiset) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (m Multiset) Clone() Multiset {
	out := make(Multiset, len(m))
	for name, qty := range m {
		out[name] = qty
	}
	return out
}

// Deck is a named decklist, usually a scraped meta deck.
type Deck struct {
	Name      string   `json:"name"`
	Format    string   `json:"format"`
	Archetype string   `json:"archetype"`
	Cards     Multiset `json:"cards"`
	Sideboard Multiset `json:"sideboard,omitempty"`
	WinRate   *float64 `json:"win_rate,omitempty"`
	MetaShare *float64 `json:"meta_share,omitempty"`
	SourceURL string   `json:"source_url,omitempty"`
}

// MainCount returns the number of cards in the main deck.
func (d *Deck) MainCount() int {
	return d.Cards.Total()
}

// Required returns the multiset a player must own to build the deck.
// The sideboard is folded in only when includeSideboard is set.
func (d *Deck) Required(includeSideboard bool) Multiset {
	req := d.Cards.Clone()
	if includeSideboard {
		for name, qty := range d.Sideboard {
			req.Add(name, qty)
		}
	}
	return req
}
