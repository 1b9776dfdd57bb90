package forge

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/metrics"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/distance"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
)

// DefaultRecommendationLimit caps the recommendations returned when no
// limit is given.
const DefaultRecommendationLimit = 10

// Recommendations is a ranked list of decks to build next.
type Recommendations struct {
	UserID       string                 `json:"user_id"`
	Format       string                 `json:"format"`
	Budget       float64                `json:"budget"`
	TotalDecks   int                    `json:"total_decks"`
	Buildable    int                    `json:"buildable"`
	WithinBudget int                    `json:"within_budget"`
	Decks        []*distance.RankedDeck `json:"decks"`
}

// CalculateDistance reconciles owned against d. Rarities come from
// overrides first, then the current card database.
func (s *Service) CalculateDistance(owned deck.Multiset, d *deck.Deck, includeSideboard bool, overrides deck.RarityMap) *deck.DeckDistance {
	defer s.metrics.Time(metrics.OpDistance)()
	var rarities deck.RarityLookup = s.Cards()
	if len(overrides) > 0 {
		rarities = deck.RarityChain{overrides, s.Cards()}
	}
	return distance.Calculate(owned, d, rarities, distance.Options{IncludeSideboard: includeSideboard})
}

// Distance compares the user's stored collection with a stored deck.
func (s *Service) Distance(ctx context.Context, userID, format, name string, includeSideboard bool) (*deck.DeckDistance, error) {
	c, err := s.owned(ctx, userID)
	if err != nil {
		return nil, err
	}
	d, err := s.GetMetaDeck(ctx, format, name)
	if err != nil {
		return nil, err
	}
	return s.CalculateDistance(c.Cards, d, includeSideboard, nil), nil
}

// RankDecks ranks decks against owned. A non-positive limit returns all.
func (s *Service) RankDecks(owned deck.Multiset, decks []*deck.Deck, budget float64, limit int) *Recommendations {
	defer s.metrics.Time(metrics.OpRecommendations)()

	if budget <= 0 {
		budget = distance.DefaultBudget
	}
	ranked := distance.Rank(decks, owned, s.Cards(), distance.RankOptions{Budget: budget})

	rec := &Recommendations{
		Budget:       budget,
		TotalDecks:   len(ranked),
		Buildable:    len(distance.Buildable(ranked)),
		WithinBudget: len(distance.WithinBudget(ranked)),
		Decks:        ranked,
	}
	if limit > 0 && len(ranked) > limit {
		rec.Decks = ranked[:limit]
	}
	return rec
}

// Recommendations ranks the stored decks of format for the user.
func (s *Service) Recommendations(ctx context.Context, userID, format string, limit int, budget float64) (*Recommendations, error) {
	c, err := s.owned(ctx, userID)
	if err != nil {
		return nil, err
	}
	decks, err := s.ListMetaDecks(ctx, format)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	rec := s.RankDecks(c.Cards, decks, budget, limit)
	rec.UserID = userID
	rec.Format, _ = meta.NormalizeFormat(format)
	return rec, nil
}

// DeriveAssumptions evaluates the assumption catalog for d.
func (s *Service) DeriveAssumptions(d *deck.Deck) *assumptions.AssumptionSet {
	defer s.metrics.Time(metrics.OpDerive)()
	return s.engine.Derive(d, s.Cards())
}

// Assumptions derives the assumption set of a stored deck.
func (s *Service) Assumptions(ctx context.Context, format, name string) (*assumptions.AssumptionSet, error) {
	d, err := s.GetMetaDeck(ctx, format, name)
	if err != nil {
		return nil, err
	}
	return s.DeriveAssumptions(d), nil
}

// ApplyStress runs one scenario against set.
func (s *Service) ApplyStress(set *assumptions.AssumptionSet, sc stress.Scenario) (*stress.Result, error) {
	defer s.metrics.Time(metrics.OpStress)()

	r, err := s.simulator.Apply(set, sc)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStress(string(r.Scenario.StressType), r.AssumptionViolated)
	return r, nil
}

// Stress derives a stored deck's assumptions and applies sc.
func (s *Service) Stress(ctx context.Context, format, name string, sc stress.Scenario) (*stress.Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	set, err := s.Assumptions(ctx, format, name)
	if err != nil {
		return nil, err
	}
	return s.ApplyStress(set, sc)
}

// FindBreakingPoint searches catalog, or the default catalog when nil,
// for the belief that breaks first.
func (s *Service) FindBreakingPoint(set *assumptions.AssumptionSet, catalog []stress.Scenario) (*stress.BreakingPoint, error) {
	defer s.metrics.Time(metrics.OpBreakingPoint)()

	for i, sc := range catalog {
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i, err)
		}
	}
	return s.simulator.FindBreakingPoint(set, catalog)
}

// BreakingPoint runs the default catalog against a stored deck.
func (s *Service) BreakingPoint(ctx context.Context, format, name string) (*stress.BreakingPoint, error) {
	set, err := s.Assumptions(ctx, format, name)
	if err != nil {
		return nil, err
	}
	return s.FindBreakingPoint(set, nil)
}
