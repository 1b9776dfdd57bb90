package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/api/response"
	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/cards/fuzzy"
)

// CardHandler serves card database lookups.
type CardHandler struct {
	svc *forge.Service
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc *forge.Service) *CardHandler {
	return &CardHandler{svc: svc}
}

// CardNotFoundResponse is a 404 carrying names close to the one asked
// for.
type CardNotFoundResponse struct {
	response.ErrorResponse
	Suggestions []fuzzy.Match `json:"suggestions"`
}

// GetCard looks a card up by name.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	card, ok := h.svc.Cards().Lookup(name)
	if !ok {
		err := fmt.Errorf("card %q: %w", name, forge.ErrNotFound)
		response.JSON(w, http.StatusNotFound, CardNotFoundResponse{
			ErrorResponse: response.ErrorResponse{
				Error:   http.StatusText(http.StatusNotFound),
				Message: err.Error(),
				Code:    http.StatusNotFound,
			},
			Suggestions: h.svc.SuggestCards(name, forge.DefaultSuggestionLimit),
		})
		return
	}

	response.Success(w, card)
}

// SearchCards ranks card names by similarity to the q parameter.
func (h *CardHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		response.BadRequest(w, fmt.Errorf("query parameter q is required"))
		return
	}

	response.Success(w, h.svc.SuggestCards(q, queryInt(r, "limit", forge.DefaultSuggestionLimit)))
}
