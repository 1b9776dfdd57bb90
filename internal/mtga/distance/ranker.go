package distance

import (
	"sort"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

const (
	defaultWinRate   = 0.5
	defaultMetaShare = 0.05
	maxMetaShare     = 0.5

	// DefaultBudget is the weighted wildcard budget used when none is given.
	DefaultBudget = 20.0
)

// RankedDeck pairs a deck with its distance and recommendation score.
type RankedDeck struct {
	Deck     *deck.Deck         `json:"deck"`
	Distance *deck.DeckDistance `json:"distance"`
	Score    float64            `json:"score"`
	CanBuild bool               `json:"can_build"`
	InBudget bool               `json:"within_budget"`
}

// RankOptions tunes Rank.
type RankOptions struct {
	Options

	// Budget is the maximum weighted wildcard cost considered affordable.
	Budget float64
}

// Score rates how attractive a deck is to build next.
//
// Completion dominates (40), then affordability (30, decaying with the
// weighted wildcard cost), then win rate (20) and meta share (20,
// capped at 50%).
func Score(d *deck.Deck, dist *deck.DeckDistance) float64 {
	winRate := defaultWinRate
	if d.WinRate != nil {
		winRate = *d.WinRate
	}
	metaShare := defaultMetaShare
	if d.MetaShare != nil {
		metaShare = *d.MetaShare
	}

	score := dist.CompletionPercentage * 40
	score += 30 / (1 + dist.WildcardCost.WeightedCost/10)
	score += winRate * 20
	score += min(metaShare, maxMetaShare) * 20
	return score
}

// Rank computes the distance to every deck and orders the decks by
// descending score. Ties are broken by deck name.
func Rank(decks []*deck.Deck, owned deck.Multiset, rarities deck.RarityLookup, opts RankOptions) []*RankedDeck {
	budget := opts.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}

	ranked := make([]*RankedDeck, 0, len(decks))
	for _, d := range decks {
		dist := Calculate(owned, d, rarities, opts.Options)
		ranked = append(ranked, &RankedDeck{
			Deck:     d,
			Distance: dist,
			Score:    Score(d, dist),
			CanBuild: dist.IsComplete,
			InBudget: dist.WildcardCost.WeightedCost <= budget,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Deck.Name < ranked[j].Deck.Name
	})
	return ranked
}

// Buildable returns the ranked decks the collection already completes.
func Buildable(ranked []*RankedDeck) []*RankedDeck {
	out := make([]*RankedDeck, 0)
	for _, r := range ranked {
		if r.CanBuild {
			out = append(out, r)
		}
	}
	return out
}

// WithinBudget returns the ranked decks that are not yet complete but
// fit the budget.
func WithinBudget(ranked []*RankedDeck) []*RankedDeck {
	out := make([]*RankedDeck, 0)
	for _, r := range ranked {
		if !r.CanBuild && r.InBudget {
			out = append(out, r)
		}
	}
	return out
}
