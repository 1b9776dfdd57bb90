package stress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb/carddbtest"
)

func fixtureSet(t *testing.T) *assumptions.AssumptionSet {
	t.Helper()
	set := assumptions.NewEngine(assumptions.DefaultConfig()).Derive(carddbtest.RedAggro(), carddbtest.Snapshot())
	require.NotNil(t, set)
	return set
}

// removalSet is a hand-built set with a single anchor that is also the
// deck's only removal.
func removalSet() *assumptions.AssumptionSet {
	scoring := assumptions.DefaultScoring()
	return &assumptions.AssumptionSet{
		DeckName:  "Removal Test",
		Archetype: "midrange",
		Scoring:   scoring,
		Assumptions: []assumptions.Assumption{
			{
				Kind:          assumptions.LandCount,
				Name:          assumptions.LandCount.String(),
				Category:      assumptions.LandCount.Category(),
				ObservedValue: assumptions.Number(24),
				TypicalRange:  assumptions.Range{23, 26},
				Health:        assumptions.Healthy,
				Adjustable:    true,
				HasConvention: true,
			},
			{
				Kind:          assumptions.MustDrawCards,
				Name:          assumptions.MustDrawCards.String(),
				Category:      assumptions.MustDrawCards.Category(),
				ObservedValue: assumptions.Cards([]string{"Go for the Throat"}),
				TypicalRange:  assumptions.Range{2, 5},
				Health:        assumptions.Critical,
				Adjustable:    true,
				HasConvention: true,
			},
			{
				Kind:          assumptions.RemovalDensity,
				Name:          assumptions.RemovalDensity.String(),
				Category:      assumptions.RemovalDensity.Category(),
				ObservedValue: assumptions.Number(4),
				TypicalRange:  assumptions.Range{4, 10},
				Health:        assumptions.Healthy,
				Adjustable:    true,
				HasConvention: true,
			},
		},
		Facts: assumptions.DeckFacts{
			MainCount:    60,
			NonlandCount: 36,
			Cards: map[string]assumptions.CardFact{
				"Go for the Throat": {Quantity: 4, ManaValue: 2, Resolved: true, Early: true, Interaction: true, InstantSpeed: true},
			},
		},
	}
}

func TestApply_MissingAnchorViolatesMustDraw(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	result, err := sim.Apply(removalSet(), Scenario{StressType: Missing, Target: "Go for the Throat", Intensity: 1})
	require.NoError(t, err)

	assert.True(t, result.AssumptionViolated)
	assert.Equal(t, "Must-Draw Cards", result.ViolatedBelief)
	assert.Equal(t, 0.3333, result.OriginalFragility)
	// Removal Density turns critical, and losing the anchor adds 0.15.
	assert.Equal(t, 0.8167, result.StressedFragility)
	assert.Equal(t, 0.4834, result.FragilityChange)
	assert.Contains(t, result.ViolationExplanation, "Go for the Throat")

	require.Len(t, result.AffectedAssumptions, 2)
	mustDraw := result.AffectedAssumptions[0]
	assert.Equal(t, assumptions.MustDrawCards, mustDraw.Kind)
	assert.Empty(t, mustDraw.StressedValue.Names())
	assert.True(t, mustDraw.BeliefViolated)
	assert.NotEmpty(t, mustDraw.ViolationReason)

	removal := result.AffectedAssumptions[1]
	assert.Equal(t, assumptions.RemovalDensity, removal.Kind)
	assert.Equal(t, 0.0, removal.StressedValue.Float())
	assert.Equal(t, assumptions.Critical, removal.StressedHealth)
	assert.True(t, removal.BeliefViolated)

	assert.NotEmpty(t, result.ExplorationSummary)
	assert.NotEmpty(t, result.Considerations)
}

// creatureAnchorSet is a hand-built set whose only anchor is a creature
// that feeds no other count, and whose Must-Draw tier is already
// critical.
func creatureAnchorSet() *assumptions.AssumptionSet {
	return &assumptions.AssumptionSet{
		DeckName:  "Anchor Test",
		Archetype: "aggro",
		Scoring:   assumptions.DefaultScoring(),
		Assumptions: []assumptions.Assumption{
			{
				Kind:          assumptions.LandCount,
				Name:          assumptions.LandCount.String(),
				Category:      assumptions.LandCount.Category(),
				ObservedValue: assumptions.Number(22),
				TypicalRange:  assumptions.Range{20, 24},
				Health:        assumptions.Healthy,
				Adjustable:    true,
				HasConvention: true,
			},
			{
				Kind:          assumptions.KeyCardDependency,
				Name:          assumptions.KeyCardDependency.String(),
				Category:      assumptions.KeyCardDependency.Category(),
				ObservedValue: assumptions.Number(6),
				TypicalRange:  assumptions.Range{4, 10},
				Health:        assumptions.Healthy,
				Adjustable:    true,
				HasConvention: true,
			},
			{
				Kind:          assumptions.MustDrawCards,
				Name:          assumptions.MustDrawCards.String(),
				Category:      assumptions.MustDrawCards.Category(),
				ObservedValue: assumptions.Cards([]string{"Monastery Swiftspear"}),
				TypicalRange:  assumptions.Range{2, 5},
				Health:        assumptions.Critical,
				Adjustable:    true,
				HasConvention: true,
			},
		},
		Facts: assumptions.DeckFacts{
			MainCount:    60,
			NonlandCount: 38,
			Cards: map[string]assumptions.CardFact{
				"Monastery Swiftspear": {Quantity: 4, ManaValue: 1, Resolved: true, Early: true},
			},
		},
	}
}

func TestApply_MissingAnchorRaisesFragility(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	result, err := sim.Apply(creatureAnchorSet(), Scenario{StressType: Missing, Target: "Monastery Swiftspear", Intensity: 1})
	require.NoError(t, err)

	assert.True(t, result.AssumptionViolated)
	assert.Equal(t, "Must-Draw Cards", result.ViolatedBelief)
	assert.Equal(t, 0.3333, result.OriginalFragility)
	assert.Equal(t, 0.4833, result.StressedFragility)
	assert.Equal(t, 0.15, result.FragilityChange)
	assert.Greater(t, result.FragilityChange, 0.0)

	require.Len(t, result.AffectedAssumptions, 2)
	keyCards := result.AffectedAssumptions[0]
	assert.Equal(t, assumptions.KeyCardDependency, keyCards.Kind)
	assert.Equal(t, 5.0, keyCards.StressedValue.Float())
	assert.Equal(t, assumptions.Healthy, keyCards.StressedHealth)
	assert.False(t, keyCards.BeliefViolated)

	mustDraw := result.AffectedAssumptions[1]
	assert.Equal(t, assumptions.MustDrawCards, mustDraw.Kind)
	assert.Equal(t, assumptions.Critical, mustDraw.StressedHealth)
	assert.True(t, mustDraw.BeliefViolated)
	assert.Contains(t, mustDraw.ViolationReason, "adds 0.15 to fragility")
}

func TestApply_AnchorPenaltyScalesWithIntensity(t *testing.T) {
	sim := NewSimulator(Config{AnchorRemovalPenalty: 0.4})

	// Half intensity takes ceil(4*0.5) = 2 copies, all of a two-copy anchor.
	set := creatureAnchorSet()
	set.Facts.Cards["Monastery Swiftspear"] = assumptions.CardFact{Quantity: 2, ManaValue: 1, Resolved: true, Early: true}

	result, err := sim.Apply(set, Scenario{StressType: Missing, Target: "Monastery Swiftspear", Intensity: 0.5})
	require.NoError(t, err)
	assert.True(t, result.AssumptionViolated)
	assert.Equal(t, 0.2, result.FragilityChange)

	// A partial loss keeps the anchor and adds nothing.
	set.Facts.Cards["Monastery Swiftspear"] = assumptions.CardFact{Quantity: 4, ManaValue: 1, Resolved: true, Early: true}
	result, err = sim.Apply(set, Scenario{StressType: Missing, Target: "Monastery Swiftspear", Intensity: 0.5})
	require.NoError(t, err)
	assert.False(t, result.AssumptionViolated)
	assert.Equal(t, 0.0, result.FragilityChange)
}

func TestApply_InvalidScenario(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	set := fixtureSet(t)

	tests := []struct {
		name     string
		scenario Scenario
	}{
		{"unknown type", Scenario{StressType: "bogus", Target: TargetAll, Intensity: 0.5}},
		{"zero intensity", Scenario{StressType: Missing, Target: TargetAll, Intensity: 0}},
		{"negative intensity", Scenario{StressType: Missing, Target: TargetAll, Intensity: -0.1}},
		{"intensity above one", Scenario{StressType: Delayed, Target: TargetAll, Intensity: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Apply(set, tt.scenario)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScenario))
		})
	}

	_, err := sim.Apply(nil, Scenario{StressType: Missing, Intensity: 0.5})
	assert.Error(t, err)
}

func TestApply_UnknownTargetAffectsNothing(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	set := fixtureSet(t)

	for _, st := range StressTypes {
		t.Run(string(st), func(t *testing.T) {
			result, err := sim.Apply(set, Scenario{StressType: st, Target: "Not In This Deck", Intensity: 1})
			require.NoError(t, err)
			assert.NotNil(t, result.AffectedAssumptions)
			assert.Empty(t, result.AffectedAssumptions)
			assert.False(t, result.AssumptionViolated)
			assert.Equal(t, NoViolation, result.ViolatedBelief)
			assert.Equal(t, 0.0, result.FragilityChange)
			assert.Equal(t, result.OriginalFragility, result.StressedFragility)
		})
	}
}

func TestApply_NormalizesScenario(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	result, err := sim.Apply(fixtureSet(t), Scenario{StressType: "MISSING", Target: "ALL", Intensity: 0.5})
	require.NoError(t, err)
	assert.Equal(t, Missing, result.Scenario.StressType)
	assert.Equal(t, TargetAll, result.Scenario.Target)

	result, err = sim.Apply(fixtureSet(t), Scenario{StressType: Delayed, Intensity: 0.5})
	require.NoError(t, err)
	assert.Equal(t, TargetAll, result.Scenario.Target)
}

func TestApply_DoesNotMutateSet(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	want := fixtureSet(t)
	set := fixtureSet(t)

	for _, st := range StressTypes {
		_, err := sim.Apply(set, Scenario{StressType: st, Target: TargetAll, Intensity: 1})
		require.NoError(t, err)
		_, err = sim.Apply(set, Scenario{StressType: st, Target: "Heartfire Hero", Intensity: 1})
		require.NoError(t, err)
	}
	assert.Equal(t, want, set)
}

func TestApply_Deterministic(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	set := fixtureSet(t)
	sc := Scenario{StressType: Underperform, Target: TargetAll, Intensity: 0.75}

	first, err := sim.Apply(set, sc)
	require.NoError(t, err)
	second, err := sim.Apply(set, sc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestApply_Grid checks, for every stress type and target, that stress
// never improves fragility, that more intensity never helps, and that a
// violation always comes with an affected assumption.
func TestApply_Grid(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	set := fixtureSet(t)

	targets := []string{TargetAll, "Not In This Deck"}
	for name := range set.Facts.Cards {
		targets = append(targets, name)
	}
	intensities := []float64{0.25, 0.5, 0.75, 1}

	for _, st := range StressTypes {
		for _, target := range targets {
			prev := -1.0
			for _, intensity := range intensities {
				result, err := sim.Apply(set, Scenario{StressType: st, Target: target, Intensity: intensity})
				require.NoError(t, err)

				assert.GreaterOrEqual(t, result.FragilityChange, 0.0, "%s/%s@%v", st, target, intensity)
				assert.GreaterOrEqual(t, result.StressedFragility, prev, "%s/%s@%v", st, target, intensity)
				assert.LessOrEqual(t, result.StressedFragility, 1.0)
				prev = result.StressedFragility

				if result.AssumptionViolated {
					assert.NotEmpty(t, result.AffectedAssumptions, "%s/%s@%v", st, target, intensity)
					assert.NotEqual(t, NoViolation, result.ViolatedBelief)
				} else {
					assert.Equal(t, NoViolation, result.ViolatedBelief)
				}
				for _, a := range result.AffectedAssumptions {
					assert.GreaterOrEqual(t, a.StressedHealth.Rank(), a.OriginalHealth.Rank())
					assert.NotEqual(t, assumptions.InstantSpeedInteraction, a.Kind)
					if a.BeliefViolated {
						assert.NotEmpty(t, a.ViolationReason)
					}
				}
			}
		}
	}
}

func TestApply_UnderperformAllDropsAnchors(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	result, err := sim.Apply(fixtureSet(t), Scenario{StressType: Underperform, Target: TargetAll, Intensity: 0.75})
	require.NoError(t, err)

	var mustDraw *StressedAssumption
	for i := range result.AffectedAssumptions {
		if result.AffectedAssumptions[i].Kind == assumptions.MustDrawCards {
			mustDraw = &result.AffectedAssumptions[i]
		}
	}
	require.NotNil(t, mustDraw)
	assert.Equal(t, []string{"Emberheart Challenger"}, mustDraw.StressedValue.Names())
	assert.Equal(t, assumptions.Critical, mustDraw.StressedHealth)
	assert.True(t, result.AssumptionViolated)
}

func TestApply_BelowThresholdDoesNotViolate(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	set := fixtureSet(t)
	for _, st := range StressTypes {
		result, err := sim.Apply(set, Scenario{StressType: st, Target: TargetAll, Intensity: 0.25})
		require.NoError(t, err)
		assert.False(t, result.AssumptionViolated, string(st))
	}
}

func TestScenario_Describe(t *testing.T) {
	assert.Equal(t, "copies of Kumano Faces Kakkazan missing at 50% intensity",
		Scenario{StressType: Missing, Target: "Kumano Faces Kakkazan", Intensity: 0.5}.Describe())
	assert.Equal(t, "mana development delayed at 100% intensity",
		Scenario{StressType: Delayed, Intensity: 1}.Describe())
}

func TestConsiderations_PerStressType(t *testing.T) {
	sim := NewSimulator(DefaultConfig())
	set := fixtureSet(t)
	for _, st := range StressTypes {
		result, err := sim.Apply(set, Scenario{StressType: st, Target: TargetAll, Intensity: 0.75})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Considerations, string(st))
	}
}
