package deck

// WildcardCost counts the wildcards needed to finish a deck, per rarity.
// Build it with NewWildcardCost; it is not modified afterwards.
type WildcardCost struct {
	Common       int     `json:"common"`
	Uncommon     int     `json:"uncommon"`
	Rare         int     `json:"rare"`
	Mythic       int     `json:"mythic"`
	Total        int     `json:"total"`
	WeightedCost float64 `json:"weighted_cost"`
}

// NewWildcardCost builds a cost from per-rarity counts and derives the
// total and weighted cost.
func NewWildcardCost(counts map[Rarity]int) WildcardCost {
	wc := WildcardCost{
		Common:   counts[RarityCommon],
		Uncommon: counts[RarityUncommon],
		Rare:     counts[RarityRare],
		Mythic:   counts[RarityMythic],
	}
	wc.Total = wc.Common + wc.Uncommon + wc.Rare + wc.Mythic
	wc.WeightedCost = float64(wc.Common)*RarityCommon.Weight() +
		float64(wc.Uncommon)*RarityUncommon.Weight() +
		float64(wc.Rare)*RarityRare.Weight() +
		float64(wc.Mythic)*RarityMythic.Weight()
	return wc
}

// MissingCard is one shortfall entry of a DeckDistance.
type MissingCard struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Rarity   Rarity `json:"rarity"`
}

// DeckDistance is the result of reconciling a collection against one deck.
type DeckDistance struct {
	DeckName             string        `json:"deck_name"`
	Format               string        `json:"format"`
	OwnedCards           int           `json:"owned_cards"`
	MissingCards         int           `json:"missing_cards"`
	TotalCards           int           `json:"total_cards"`
	CompletionPercentage float64       `json:"completion_percentage"`
	IsComplete           bool          `json:"is_complete"`
	WildcardCost         WildcardCost  `json:"wildcard_cost"`
	MissingCardList      []MissingCard `json:"missing_card_list"`
}
