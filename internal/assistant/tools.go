package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
)

// Tool names.
const (
	ToolCalculateDeckDistance  = "calculate_deck_distance"
	ToolDeriveAssumptions      = "derive_assumptions"
	ToolApplyStress            = "apply_stress"
	ToolFindBreakingPoint      = "find_breaking_point"
	ToolGetDeckRecommendations = "get_deck_recommendations"
	ToolListMetaDecks          = "list_meta_decks"
	ToolGetCollectionStats     = "get_collection_stats"
)

// importedDeckName names a deck given as text without a name.
const importedDeckName = "Imported deck"

var errDeckRequired = errors.New("either deck_text or format and deck_name is required")

// DistanceInput is the input of calculate_deck_distance.
type DistanceInput struct {
	UserID           string            `json:"user_id,omitempty" jsonschema:"user whose stored collection is compared"`
	Owned            map[string]int    `json:"owned,omitempty" jsonschema:"owned card quantities by name, used instead of a stored collection"`
	Format           string            `json:"format,omitempty" jsonschema:"format of a stored meta deck"`
	DeckName         string            `json:"deck_name,omitempty" jsonschema:"name of a stored meta deck"`
	DeckText         string            `json:"deck_text,omitempty" jsonschema:"decklist in Arena export format, used instead of a stored deck"`
	IncludeSideboard bool              `json:"include_sideboard,omitempty" jsonschema:"also count sideboard cards"`
	RarityLookup     map[string]string `json:"rarity_lookup,omitempty" jsonschema:"card rarities by name, checked before the card database"`
}

// DeckInput selects a deck for the assumption tools.
type DeckInput struct {
	Format    string `json:"format,omitempty" jsonschema:"format of a stored meta deck"`
	DeckName  string `json:"deck_name,omitempty" jsonschema:"name of a stored meta deck"`
	DeckText  string `json:"deck_text,omitempty" jsonschema:"decklist in Arena export format, used instead of a stored deck"`
	Archetype string `json:"archetype,omitempty" jsonschema:"archetype override: aggro, midrange, control or combo"`
}

// StressInput is the input of apply_stress.
type StressInput struct {
	Format     string   `json:"format,omitempty" jsonschema:"format of a stored meta deck"`
	DeckName   string   `json:"deck_name,omitempty" jsonschema:"name of a stored meta deck"`
	DeckText   string   `json:"deck_text,omitempty" jsonschema:"decklist in Arena export format, used instead of a stored deck"`
	Archetype  string   `json:"archetype,omitempty" jsonschema:"archetype override: aggro, midrange, control or combo"`
	StressType string   `json:"stress_type" jsonschema:"underperform, missing, delayed or hostile_meta"`
	Target     string   `json:"target,omitempty" jsonschema:"card name to stress, or all"`
	Intensity  *float64 `json:"intensity,omitempty" jsonschema:"stress intensity in (0, 1], default 0.5"`
}

// ScenarioInput is one scenario of a custom breaking-point catalog.
type ScenarioInput struct {
	StressType string  `json:"stress_type" jsonschema:"underperform, missing, delayed or hostile_meta"`
	Target     string  `json:"target,omitempty" jsonschema:"card name to stress, or all"`
	Intensity  float64 `json:"intensity" jsonschema:"stress intensity in (0, 1]"`
}

// BreakingPointInput is the input of find_breaking_point.
type BreakingPointInput struct {
	Format    string          `json:"format,omitempty" jsonschema:"format of a stored meta deck"`
	DeckName  string          `json:"deck_name,omitempty" jsonschema:"name of a stored meta deck"`
	DeckText  string          `json:"deck_text,omitempty" jsonschema:"decklist in Arena export format, used instead of a stored deck"`
	Archetype string          `json:"archetype,omitempty" jsonschema:"archetype override: aggro, midrange, control or combo"`
	Scenarios []ScenarioInput `json:"scenarios,omitempty" jsonschema:"scenarios to explore; the default catalog when empty"`
}

// RecommendationsInput is the input of get_deck_recommendations.
type RecommendationsInput struct {
	UserID string  `json:"user_id" jsonschema:"user whose stored collection is ranked against"`
	Format string  `json:"format" jsonschema:"standard, historic, explorer or timeless"`
	Limit  int     `json:"limit,omitempty" jsonschema:"maximum decks to return, default 10"`
	Budget float64 `json:"budget,omitempty" jsonschema:"weighted wildcard budget"`
}

// FormatInput is the input of list_meta_decks.
type FormatInput struct {
	Format string `json:"format" jsonschema:"standard, historic, explorer or timeless"`
}

// UserInput is the input of get_collection_stats.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"user whose collection is summarized"`
}

// MetaDeckSummary is one entry of list_meta_decks.
type MetaDeckSummary struct {
	Name      string   `json:"name"`
	Archetype string   `json:"archetype"`
	Cards     int      `json:"cards"`
	WinRate   *float64 `json:"win_rate,omitempty"`
	MetaShare *float64 `json:"meta_share,omitempty"`
}

// MetaDeckList is the output of list_meta_decks.
type MetaDeckList struct {
	Format string            `json:"format"`
	Decks  []MetaDeckSummary `json:"decks"`
}

func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        ToolCalculateDeckDistance,
		Description: "Compares a collection with a decklist: owned and missing cards, completion and the wildcards needed by rarity.",
	}, s.calculateDeckDistance)
	addTool(s, &mcp.Tool{
		Name:        ToolDeriveAssumptions,
		Description: "Lists the structural beliefs a deck relies on, each rated healthy, warning or critical, with an overall fragility score.",
	}, s.deriveAssumptions)
	addTool(s, &mcp.Tool{
		Name:        ToolApplyStress,
		Description: "Explores one hypothetical stress on a deck and reports how its assumptions and fragility move.",
	}, s.applyStress)
	addTool(s, &mcp.Tool{
		Name:        ToolFindBreakingPoint,
		Description: "Explores a catalog of stresses and reports the belief that breaks first.",
	}, s.findBreakingPoint)
	addTool(s, &mcp.Tool{
		Name:        ToolGetDeckRecommendations,
		Description: "Ranks a format's meta decks by how close a stored collection is to building them.",
	}, s.getDeckRecommendations)
	addTool(s, &mcp.Tool{
		Name:        ToolListMetaDecks,
		Description: "Lists the stored meta decks of a format.",
	}, s.listMetaDecks)
	addTool(s, &mcp.Tool{
		Name:        ToolGetCollectionStats,
		Description: "Summarizes a stored collection by rarity.",
	}, s.getCollectionStats)
}

// resolveDeck parses text when given, otherwise loads the stored deck.
// A non-empty archetype overrides the deck's own.
func (s *Server) resolveDeck(ctx context.Context, format, name, text, archetype string) (*deck.Deck, error) {
	var d *deck.Deck
	if strings.TrimSpace(text) != "" {
		parsed, err := s.svc.Parser().ParseDeck(text)
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = importedDeckName
		}
		if format != "" {
			if format, err = meta.NormalizeFormat(format); err != nil {
				return nil, err
			}
		}
		d = parsed.Deck(name, format, "")
	} else {
		if format == "" || name == "" {
			return nil, errDeckRequired
		}
		stored, err := s.svc.GetMetaDeck(ctx, format, name)
		if err != nil {
			return nil, err
		}
		copied := *stored
		d = &copied
	}
	if archetype != "" {
		d.Archetype = archetype
	}
	return d, nil
}

func (s *Server) calculateDeckDistance(ctx context.Context, _ *mcp.CallToolRequest, in DistanceInput) (*mcp.CallToolResult, any, error) {
	d, err := s.resolveDeck(ctx, in.Format, in.DeckName, in.DeckText, "")
	if err != nil {
		return nil, nil, err
	}

	owned := deck.NewMultiset(in.Owned)
	if in.Owned == nil {
		if in.UserID == "" {
			return nil, nil, errors.New("either user_id or owned is required")
		}
		c, err := s.svc.GetCollection(ctx, in.UserID)
		if err != nil {
			return nil, nil, err
		}
		owned = c.Cards
	}
	var overrides deck.RarityMap
	if len(in.RarityLookup) > 0 {
		overrides = make(deck.RarityMap, len(in.RarityLookup))
		for name, r := range in.RarityLookup {
			overrides[name] = deck.Rarity(r)
		}
	}
	return nil, s.svc.CalculateDistance(owned, d, in.IncludeSideboard, overrides), nil
}

func (s *Server) deriveAssumptions(ctx context.Context, _ *mcp.CallToolRequest, in DeckInput) (*mcp.CallToolResult, any, error) {
	d, err := s.resolveDeck(ctx, in.Format, in.DeckName, in.DeckText, in.Archetype)
	if err != nil {
		return nil, nil, err
	}
	return nil, s.svc.DeriveAssumptions(d), nil
}

func (s *Server) applyStress(ctx context.Context, _ *mcp.CallToolRequest, in StressInput) (*mcp.CallToolResult, any, error) {
	st, _ := stress.ParseStressType(in.StressType)
	sc := stress.Scenario{StressType: st, Target: in.Target, Intensity: stress.DefaultIntensity}
	if sc.Target == "" {
		sc.Target = stress.TargetAll
	}
	if in.Intensity != nil {
		sc.Intensity = *in.Intensity
	}
	if err := sc.Validate(); err != nil {
		return nil, nil, err
	}

	d, err := s.resolveDeck(ctx, in.Format, in.DeckName, in.DeckText, in.Archetype)
	if err != nil {
		return nil, nil, err
	}
	result, err := s.svc.ApplyStress(s.svc.DeriveAssumptions(d), sc)
	if err != nil {
		return nil, nil, err
	}
	return nil, result, nil
}

func (s *Server) findBreakingPoint(ctx context.Context, _ *mcp.CallToolRequest, in BreakingPointInput) (*mcp.CallToolResult, any, error) {
	var catalog []stress.Scenario
	for _, sc := range in.Scenarios {
		st, _ := stress.ParseStressType(sc.StressType)
		target := sc.Target
		if target == "" {
			target = stress.TargetAll
		}
		catalog = append(catalog, stress.Scenario{StressType: st, Target: target, Intensity: sc.Intensity})
	}

	d, err := s.resolveDeck(ctx, in.Format, in.DeckName, in.DeckText, in.Archetype)
	if err != nil {
		return nil, nil, err
	}
	bp, err := s.svc.FindBreakingPoint(s.svc.DeriveAssumptions(d), catalog)
	if err != nil {
		return nil, nil, err
	}
	return nil, bp, nil
}

func (s *Server) getDeckRecommendations(ctx context.Context, _ *mcp.CallToolRequest, in RecommendationsInput) (*mcp.CallToolResult, any, error) {
	rec, err := s.svc.Recommendations(ctx, in.UserID, in.Format, in.Limit, in.Budget)
	if err != nil {
		return nil, nil, err
	}
	return nil, rec, nil
}

func (s *Server) listMetaDecks(ctx context.Context, _ *mcp.CallToolRequest, in FormatInput) (*mcp.CallToolResult, any, error) {
	format, err := meta.NormalizeFormat(in.Format)
	if err != nil {
		return nil, nil, err
	}
	decks, err := s.svc.ListMetaDecks(ctx, format)
	if err != nil {
		return nil, nil, err
	}

	out := MetaDeckList{Format: format, Decks: make([]MetaDeckSummary, 0, len(decks))}
	for _, d := range decks {
		out.Decks = append(out.Decks, MetaDeckSummary{
			Name:      d.Name,
			Archetype: d.Archetype,
			Cards:     d.MainCount(),
			WinRate:   d.WinRate,
			MetaShare: d.MetaShare,
		})
	}
	return nil, out, nil
}

func (s *Server) getCollectionStats(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
	if in.UserID == "" {
		return nil, nil, fmt.Errorf("user_id is required")
	}
	stats, err := s.svc.CollectionStats(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}
	return nil, stats, nil
}
