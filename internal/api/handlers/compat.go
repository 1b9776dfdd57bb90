package handlers

import (
	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
)

// The REST API predates the current field names. Responses carry the
// current names and, alongside them, the names older clients read:
//
//	most_vulnerable_belief  weakest_assumption
//	failing_scenario        breaking_scenario
//	exploration_insight     explanation (breaking point)
//	assumption_violated     breaking_point
//	exploration_summary     explanation (stress result)
//	considerations          recommendations
//	fragility_explanation   explanation (assumption set)

// AssumptionSetResponse is an assumption set with legacy aliases.
type AssumptionSetResponse struct {
	*assumptions.AssumptionSet
	Explanation string `json:"explanation"`
}

// NewAssumptionSetResponse wraps set.
func NewAssumptionSetResponse(set *assumptions.AssumptionSet) *AssumptionSetResponse {
	return &AssumptionSetResponse{
		AssumptionSet: set,
		Explanation:   set.FragilityExplanation,
	}
}

// StressResultResponse is a stress result with legacy aliases.
type StressResultResponse struct {
	*stress.Result
	Explanation     string   `json:"explanation"`
	BreakingPoint   bool     `json:"breaking_point"`
	Recommendations []string `json:"recommendations"`
}

// NewStressResultResponse wraps r.
func NewStressResultResponse(r *stress.Result) *StressResultResponse {
	recs := r.Considerations
	if recs == nil {
		recs = []string{}
	}
	return &StressResultResponse{
		Result:          r,
		Explanation:     r.ExplorationSummary,
		BreakingPoint:   r.AssumptionViolated,
		Recommendations: recs,
	}
}

// BreakingPointResponse is a breaking-point result with legacy aliases.
type BreakingPointResponse struct {
	*stress.BreakingPoint
	WeakestAssumption string           `json:"weakest_assumption"`
	BreakingScenario  *stress.Scenario `json:"breaking_scenario"`
	Explanation       string           `json:"explanation"`
	// Result replaces the embedded field so the selected scenario's
	// result carries its aliases too.
	Result *StressResultResponse `json:"result,omitempty"`
}

// NewBreakingPointResponse wraps bp.
func NewBreakingPointResponse(bp *stress.BreakingPoint) *BreakingPointResponse {
	resp := &BreakingPointResponse{
		BreakingPoint:     bp,
		WeakestAssumption: bp.MostVulnerableBelief,
		BreakingScenario:  bp.FailingScenario,
		Explanation:       bp.ExplorationInsight,
	}
	if bp.Result != nil {
		resp.Result = NewStressResultResponse(bp.Result)
	}
	return resp
}
