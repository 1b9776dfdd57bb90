package forge

import (
	"context"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/cards/fuzzy"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deckexport"
)

// DefaultSuggestionLimit caps card name suggestions.
const DefaultSuggestionLimit = 5

// ExportDeck renders a stored deck as import text. An empty format
// exports Arena text.
func (s *Service) ExportDeck(ctx context.Context, format, name, exportFormat string) (*deckexport.DeckExport, error) {
	f, err := deckexport.ParseFormat(exportFormat)
	if err != nil {
		return nil, err
	}
	d, err := s.GetMetaDeck(ctx, format, name)
	if err != nil {
		return nil, err
	}
	return deckexport.Export(d, &deckexport.ExportOptions{Format: f, IncludeHeaders: true})
}

// ExportMissing renders the cards the user still needs for a stored deck.
func (s *Service) ExportMissing(ctx context.Context, userID, format, name, exportFormat string, includeSideboard bool) (*deckexport.DeckExport, error) {
	f, err := deckexport.ParseFormat(exportFormat)
	if err != nil {
		return nil, err
	}
	dist, err := s.Distance(ctx, userID, format, name, includeSideboard)
	if err != nil {
		return nil, err
	}
	return deckexport.ExportMissing(dist, &deckexport.ExportOptions{Format: f, IncludeHeaders: true})
}

// SuggestCards returns card names resembling name, best first.
func (s *Service) SuggestCards(name string, limit int) []fuzzy.Match {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	matches := s.Cards().Suggest(name, limit)
	if matches == nil {
		matches = []fuzzy.Match{}
	}
	return matches
}
