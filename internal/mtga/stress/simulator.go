package stress

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
)

// Factors scale the value transforms of each stress type.
type Factors struct {
	DelayedManaValue     float64 `json:"delayed_mana_value" toml:"delayed_mana_value"`
	DelayedEarlyLoss     float64 `json:"delayed_early_loss" toml:"delayed_early_loss"`
	DelayedTopEndShift   float64 `json:"delayed_top_end_shift" toml:"delayed_top_end_shift"`
	DelayedLandLoss      float64 `json:"delayed_land_loss" toml:"delayed_land_loss"`
	HostileRemovalLoss   float64 `json:"hostile_removal_loss" toml:"hostile_removal_loss"`
	HostileInteractionMV float64 `json:"hostile_interaction_mv" toml:"hostile_interaction_mv"`
}

// DefaultFactors returns the default transform factors.
func DefaultFactors() Factors {
	return Factors{
		DelayedManaValue:     0.3,
		DelayedEarlyLoss:     0.5,
		DelayedTopEndShift:   0.5,
		DelayedLandLoss:      0.2,
		HostileRemovalLoss:   0.5,
		HostileInteractionMV: 1.0,
	}
}

// Config tunes the simulator.
type Config struct {
	// ViolationThreshold is the minimum intensity at which a tier
	// degradation counts as a violated belief.
	ViolationThreshold float64
	// BreakingPointIntensity is the intensity of the default catalog.
	BreakingPointIntensity float64
	// AnchorRemovalPenalty is added to stressed fragility, scaled by
	// intensity, when a missing scenario removes every copy of a
	// must-draw anchor.
	AnchorRemovalPenalty float64
	Factors              Factors
	// Parallelism bounds concurrent scenario evaluation. Zero means
	// GOMAXPROCS.
	Parallelism int
}

// DefaultConfig returns the default simulator configuration.
func DefaultConfig() Config {
	return Config{
		ViolationThreshold:     0.5,
		BreakingPointIntensity: 0.75,
		AnchorRemovalPenalty:   0.15,
		Factors:                DefaultFactors(),
	}
}

// Simulator applies stress scenarios. It holds no mutable state and is
// safe for concurrent use.
type Simulator struct {
	cfg Config
}

// NewSimulator creates a simulator. Zero-valued fields take defaults.
func NewSimulator(cfg Config) *Simulator {
	def := DefaultConfig()
	if cfg.ViolationThreshold <= 0 {
		cfg.ViolationThreshold = def.ViolationThreshold
	}
	if cfg.BreakingPointIntensity <= 0 {
		cfg.BreakingPointIntensity = def.BreakingPointIntensity
	}
	if cfg.AnchorRemovalPenalty <= 0 {
		cfg.AnchorRemovalPenalty = def.AnchorRemovalPenalty
	}
	if cfg.Factors == (Factors{}) {
		cfg.Factors = def.Factors
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.GOMAXPROCS(0)
	}
	return &Simulator{cfg: cfg}
}

// StressedAssumption is one assumption whose value moved under stress.
type StressedAssumption struct {
	Kind              assumptions.Kind     `json:"kind"`
	Name              string               `json:"name"`
	Category          assumptions.Category `json:"category"`
	OriginalValue     assumptions.Value    `json:"original_value"`
	StressedValue     assumptions.Value    `json:"stressed_value"`
	OriginalHealth    assumptions.Health   `json:"original_health"`
	StressedHealth    assumptions.Health   `json:"stressed_health"`
	ChangeExplanation string               `json:"change_explanation"`
	BeliefViolated    bool                 `json:"belief_violated"`
	ViolationReason   string               `json:"violation_reason,omitempty"`
}

// NoViolation is the violated_belief value when nothing was violated.
const NoViolation = "none"

// Result is the outcome of one scenario.
type Result struct {
	DeckName             string               `json:"deck_name"`
	Scenario             Scenario             `json:"scenario"`
	OriginalFragility    float64              `json:"original_fragility"`
	StressedFragility    float64              `json:"stressed_fragility"`
	FragilityChange      float64              `json:"fragility_change"`
	AffectedAssumptions  []StressedAssumption `json:"affected_assumptions"`
	AssumptionViolated   bool                 `json:"assumption_violated"`
	ViolatedBelief       string               `json:"violated_belief"`
	ViolationExplanation string               `json:"violation_explanation"`
	ExplorationSummary   string               `json:"exploration_summary"`
	Considerations       []string             `json:"considerations"`
}

// Apply runs sc against set. The set is not modified. An unknown card
// target is not an error: it affects nothing.
func (s *Simulator) Apply(set *assumptions.AssumptionSet, sc Scenario) (*Result, error) {
	if set == nil {
		return nil, errors.New("assumption set is required")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sc.StressType, _ = ParseStressType(string(sc.StressType))
	if sc.TargetsAll() {
		sc.Target = TargetAll
	}

	scoring := set.Scoring
	if scoring == (assumptions.Scoring{}) {
		scoring = assumptions.DefaultScoring()
	}
	moves := s.transform(set, sc)

	result := &Result{
		DeckName:          set.DeckName,
		Scenario:          sc,
		OriginalFragility: scoring.Fragility(set.Healths()),
		ViolatedBelief:    NoViolation,
	}

	anchorLost := false
	healths := make([]assumptions.Health, len(set.Assumptions))
	for i, a := range set.Assumptions {
		healths[i] = a.Health

		m, ok := moves[a.Kind]
		if !ok || !a.Adjustable || !actsOn(sc.StressType, a.Kind) {
			continue
		}
		if m.value.Equal(a.ObservedValue) && !m.anchorRemoved {
			continue
		}

		stressedHealth := a.Health
		if a.HasConvention {
			stressedHealth = assumptions.Worse(a.Health, scoring.Evaluate(m.value.Float(), a.TypicalRange))
		}

		sa := StressedAssumption{
			Kind:              a.Kind,
			Name:              a.Name,
			Category:          a.Category,
			OriginalValue:     a.ObservedValue,
			StressedValue:     m.value,
			OriginalHealth:    a.Health,
			StressedHealth:    stressedHealth,
			ChangeExplanation: m.explanation,
		}

		degraded := stressedHealth.Rank() > a.Health.Rank()
		switch {
		case m.anchorRemoved:
			anchorLost = true
			sa.BeliefViolated = true
			sa.ViolationReason = fmt.Sprintf("%s no longer has any copies in the deck, so it cannot be drawn at all. Losing an anchor adds %.2f to fragility at %.0f%% intensity.",
				m.removed, s.cfg.AnchorRemovalPenalty*sc.Intensity, sc.Intensity*100)
		case degraded && sc.Intensity >= s.cfg.ViolationThreshold:
			sa.BeliefViolated = true
			sa.ViolationReason = fmt.Sprintf("Health fell from %s to %s at %.0f%% intensity.", a.Health, stressedHealth, sc.Intensity*100)
		}

		if sa.BeliefViolated && !result.AssumptionViolated {
			result.AssumptionViolated = true
			result.ViolatedBelief = a.Name
			result.ViolationExplanation = fmt.Sprintf("Under %s, the belief behind %q can no longer be asserted. %s",
				sc.Describe(), a.Name, sa.ViolationReason)
		}

		healths[i] = stressedHealth
		result.AffectedAssumptions = append(result.AffectedAssumptions, sa)
	}

	if result.AffectedAssumptions == nil {
		result.AffectedAssumptions = []StressedAssumption{}
	}
	if !result.AssumptionViolated {
		result.ViolationExplanation = fmt.Sprintf("No belief was violated under %s.", sc.Describe())
	}

	result.StressedFragility = scoring.Fragility(healths)
	if anchorLost {
		result.StressedFragility = min(round4(result.StressedFragility+s.cfg.AnchorRemovalPenalty*sc.Intensity), 1)
	}
	result.FragilityChange = round4(result.StressedFragility - result.OriginalFragility)
	result.ExplorationSummary = summarize(sc, result)
	result.Considerations = considerations(set, sc, result)
	return result, nil
}

// actsOn reports whether stress type st may perturb kind k.
func actsOn(st StressType, k assumptions.Kind) bool {
	switch k {
	case assumptions.AverageManaValue:
		return st == Delayed
	case assumptions.EarlyGameDensity, assumptions.TopEndDensity, assumptions.LandCount:
		return st == Delayed || st == Missing
	case assumptions.CardSelectionDensity:
		return st == Underperform || st == Missing
	case assumptions.KeyCardDependency, assumptions.MustDrawCards:
		return st == Underperform || st == Missing
	case assumptions.RemovalDensity:
		return st == HostileMeta || st == Missing
	case assumptions.InteractionManaValue:
		return st == HostileMeta
	case assumptions.InstantSpeedInteraction:
		return false
	}
	return false
}
