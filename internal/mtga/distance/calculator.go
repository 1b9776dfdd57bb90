// Package distance reconciles a player's collection against decklists.
package distance

import (
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// Options tunes a distance calculation.
type Options struct {
	// IncludeSideboard folds sideboard quantities into the requirement.
	IncludeSideboard bool
}

// Calculate reconciles owned against the deck's required cards.
//
// Cards the player owns but the deck does not use are ignored. Cards
// missing from the rarity lookup are costed as rare. An empty deck
// yields a completion percentage of 0.
func Calculate(owned deck.Multiset, d *deck.Deck, rarities deck.RarityLookup, opts Options) *deck.DeckDistance {
	required := d.Required(opts.IncludeSideboard)

	result := &deck.DeckDistance{
		DeckName:        d.Name,
		Format:          d.Format,
		MissingCardList: make([]deck.MissingCard, 0),
	}

	counts := make(map[deck.Rarity]int, len(deck.Rarities))
	for _, name := range required.Names() {
		need := required[name]
		have := owned.Count(name)

		result.TotalCards += need
		result.OwnedCards += min(have, need)

		if have < need {
			shortfall := need - have
			rarity := deck.ResolveRarity(rarities, name)
			result.MissingCards += shortfall
			counts[rarity] += shortfall
			result.MissingCardList = append(result.MissingCardList, deck.MissingCard{
				Name:     name,
				Quantity: shortfall,
				Rarity:   rarity,
			})
		}
	}

	if result.TotalCards > 0 {
		result.CompletionPercentage = float64(result.OwnedCards) / float64(result.TotalCards)
	}
	result.IsComplete = result.MissingCards == 0
	result.WildcardCost = deck.NewWildcardCost(counts)

	return result
}
