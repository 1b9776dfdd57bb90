package handlers

import (
	"net/http"

	"github.com/ramonehamilton/forgebreaker/internal/api/response"
	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
)

// AnalysisHandler serves deck distance, recommendations, assumptions
// and stress exploration.
type AnalysisHandler struct {
	svc *forge.Service
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *forge.Service) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// ScenarioRequest is the body of a stress request. A missing target
// stresses all cards and a missing intensity uses the default.
type ScenarioRequest struct {
	StressType string   `json:"stress_type"`
	Target     string   `json:"target"`
	Intensity  *float64 `json:"intensity"`
}

// Scenario converts the request into a stress scenario.
func (req ScenarioRequest) Scenario() stress.Scenario {
	st, _ := stress.ParseStressType(req.StressType)
	sc := stress.Scenario{
		StressType: st,
		Target:     req.Target,
		Intensity:  stress.DefaultIntensity,
	}
	if sc.Target == "" {
		sc.Target = stress.TargetAll
	}
	if req.Intensity != nil {
		sc.Intensity = *req.Intensity
	}
	return sc
}

// GetDistance compares the user's collection with a stored deck.
func (h *AnalysisHandler) GetDistance(w http.ResponseWriter, r *http.Request) {
	dist, err := h.svc.Distance(r.Context(),
		pathParam(r, "userID"), pathParam(r, "format"), pathParam(r, "name"),
		queryBool(r, "include_sideboard"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, dist)
}

// GetMissingExport renders the cards the user still needs for a deck as
// import text.
func (h *AnalysisHandler) GetMissingExport(w http.ResponseWriter, r *http.Request) {
	export, err := h.svc.ExportMissing(r.Context(),
		pathParam(r, "userID"), pathParam(r, "format"), pathParam(r, "name"),
		r.URL.Query().Get("type"), queryBool(r, "include_sideboard"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, export)
}

// GetRecommendations ranks the format's stored decks for the user.
func (h *AnalysisHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Recommendations(r.Context(),
		pathParam(r, "userID"), pathParam(r, "format"),
		queryInt(r, "limit", forge.DefaultRecommendationLimit), queryFloat(r, "budget", 0))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, rec)
}

// GetAssumptions derives the assumptions of a stored deck.
func (h *AnalysisHandler) GetAssumptions(w http.ResponseWriter, r *http.Request) {
	set, err := h.svc.Assumptions(r.Context(), pathParam(r, "format"), pathParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, NewAssumptionSetResponse(set))
}

// ApplyStress applies one scenario to a stored deck.
func (h *AnalysisHandler) ApplyStress(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	result, err := h.svc.Stress(r.Context(), pathParam(r, "format"), pathParam(r, "name"), req.Scenario())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, NewStressResultResponse(result))
}

// GetBreakingPoint searches the default scenario catalog for the
// belief that breaks first.
func (h *AnalysisHandler) GetBreakingPoint(w http.ResponseWriter, r *http.Request) {
	bp, err := h.svc.BreakingPoint(r.Context(), pathParam(r, "format"), pathParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, NewBreakingPointResponse(bp))
}
