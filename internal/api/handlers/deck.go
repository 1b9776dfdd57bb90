package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/api/response"
	"github.com/ramonehamilton/forgebreaker/internal/charts"
	"github.com/ramonehamilton/forgebreaker/internal/forge"
)

// DeckHandler handles meta deck API requests.
type DeckHandler struct {
	svc *forge.Service
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(svc *forge.Service) *DeckHandler {
	return &DeckHandler{svc: svc}
}

// SyncRequest is the body of a meta sync. Empty formats sync every
// supported format; a zero limit uses the configured default.
type SyncRequest struct {
	Formats []string `json:"formats"`
	Limit   int      `json:"limit"`
}

// SyncMeta scrapes and stores meta decks.
func (h *DeckHandler) SyncMeta(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	results, err := h.svc.SyncMeta(r.Context(), req.Formats, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}

	failed := make([]string, 0)
	for _, res := range results {
		if res.Error != "" {
			failed = append(failed, res.Format+": "+res.Error)
		}
	}
	if len(results) > 0 && len(failed) == len(results) {
		response.Error(w, http.StatusBadGateway, fmt.Errorf("meta sync failed: %s", strings.Join(failed, "; ")))
		return
	}

	response.Success(w, results)
}

// ListDecks returns the stored decks of a format.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.svc.ListMetaDecks(r.Context(), pathParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, decks)
}

// GetDeck returns a stored deck by format and name.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetMetaDeck(r.Context(), pathParam(r, "format"), pathParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, d)
}

// LoadSample stores the bundled sample deck.
func (h *DeckHandler) LoadSample(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.LoadSampleDeck(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, d)
}

// GetDeckCurve renders the deck's mana curve as an HTML chart.
func (h *DeckHandler) GetDeckCurve(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetMetaDeck(r.Context(), pathParam(r, "format"), pathParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderManaCurve(w, d, h.svc.Cards(), charts.DefaultChartConfig()); err != nil {
		response.InternalError(w, err)
	}
}

// ExportDeck renders a stored deck as import text. The type query
// parameter picks arena, plaintext, mtgo or mtggoldfish.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	export, err := h.svc.ExportDeck(r.Context(), pathParam(r, "format"), pathParam(r, "name"), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, export)
}
