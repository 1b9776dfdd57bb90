package stress

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
)

// NoneIdentified is the most_vulnerable_belief value when no scenario
// violated a belief.
const NoneIdentified = "None identified"

// BreakingPoint is the outcome of a breaking-point search.
type BreakingPoint struct {
	DeckName             string    `json:"deck_name"`
	MostVulnerableBelief string    `json:"most_vulnerable_belief"`
	FailingScenario      *Scenario `json:"failing_scenario"`
	ExplorationInsight   string    `json:"exploration_insight"`
	// StrongestScenario is the scenario with the largest fragility
	// change, reported even when nothing was violated.
	StrongestScenario  *Scenario `json:"strongest_scenario,omitempty"`
	MaxFragilityChange float64   `json:"max_fragility_change"`
	ScenariosTested    int       `json:"scenarios_tested"`
	// Result is the selected scenario's full result.
	Result *Result `json:"result,omitempty"`
}

// DefaultCatalog returns every stress type against all cards at
// intensity, followed by one missing scenario per Must-Draw anchor.
func DefaultCatalog(set *assumptions.AssumptionSet, intensity float64) []Scenario {
	catalog := make([]Scenario, 0, len(StressTypes)+5)
	for _, st := range StressTypes {
		catalog = append(catalog, Scenario{StressType: st, Target: TargetAll, Intensity: intensity})
	}
	if set == nil {
		return catalog
	}
	for _, anchor := range set.Anchors() {
		catalog = append(catalog, Scenario{StressType: Missing, Target: anchor, Intensity: intensity})
	}
	return catalog
}

// DefaultCatalog returns the default catalog at the configured intensity.
func (s *Simulator) DefaultCatalog(set *assumptions.AssumptionSet) []Scenario {
	return DefaultCatalog(set, s.cfg.BreakingPointIntensity)
}

// FindBreakingPoint applies every scenario of catalog to set and selects
// the violated result with the largest fragility change, first in
// catalog order on ties. When nothing is violated the belief is
// NoneIdentified and the largest change is reported as the strongest
// scenario. A nil catalog uses the default one.
func (s *Simulator) FindBreakingPoint(set *assumptions.AssumptionSet, catalog []Scenario) (*BreakingPoint, error) {
	if set == nil {
		return nil, fmt.Errorf("assumption set is required")
	}
	if catalog == nil {
		catalog = s.DefaultCatalog(set)
	}

	results := make([]*Result, len(catalog))
	var g errgroup.Group
	g.SetLimit(s.cfg.Parallelism)
	for i, sc := range catalog {
		g.Go(func() error {
			r, err := s.Apply(set, sc)
			if err != nil {
				return fmt.Errorf("scenario %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bp := &BreakingPoint{
		DeckName:             set.DeckName,
		MostVulnerableBelief: NoneIdentified,
		ScenariosTested:      len(results),
	}

	var violated, strongest *Result
	for _, r := range results {
		if strongest == nil || r.FragilityChange > strongest.FragilityChange {
			strongest = r
		}
		if r.AssumptionViolated && (violated == nil || r.FragilityChange > violated.FragilityChange) {
			violated = r
		}
	}

	if strongest == nil {
		bp.ExplorationInsight = "No scenarios were explored."
		return bp, nil
	}

	strongestScenario := strongest.Scenario
	bp.StrongestScenario = &strongestScenario
	bp.MaxFragilityChange = strongest.FragilityChange

	if violated != nil {
		failing := violated.Scenario
		bp.MostVulnerableBelief = violated.ViolatedBelief
		bp.FailingScenario = &failing
		bp.Result = violated
		bp.ExplorationInsight = fmt.Sprintf(
			"Across %d scenarios, the belief most exposed is %q: under %s fragility moves from %s to %s. %s",
			len(results), violated.ViolatedBelief, failing.Describe(),
			percent(violated.OriginalFragility), percent(violated.StressedFragility),
			violated.ViolationExplanation)
		return bp, nil
	}

	bp.Result = strongest
	if strongest.FragilityChange > 0 {
		bp.ExplorationInsight = fmt.Sprintf(
			"Across %d scenarios no belief clearly broke. The strongest pressure came from %s, moving fragility from %s to %s.",
			len(results), strongestScenario.Describe(),
			percent(strongest.OriginalFragility), percent(strongest.StressedFragility))
	} else {
		bp.ExplorationInsight = fmt.Sprintf(
			"Across %d scenarios no belief clearly broke and fragility did not move. The deck looks resilient to the explored stresses.",
			len(results))
	}
	return bp, nil
}
