package handlers

import (
	"errors"
	"net/http"

	"github.com/ramonehamilton/forgebreaker/internal/api/response"
	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// CollectionHandler handles collection-related API requests.
type CollectionHandler struct {
	svc *forge.Service
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(svc *forge.Service) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

// CollectionRequest is the body of a collection replace or create.
type CollectionRequest struct {
	Cards map[string]int `json:"cards"`
}

// ImportRequest is the body of a collection import.
type ImportRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
	Merge  bool   `json:"merge"`
}

// GetCollection returns the user's collection.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCollection(r.Context(), pathParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, c)
}

// PutCollection replaces the user's collection.
func (h *CollectionHandler) PutCollection(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	c, err := h.svc.SaveCollection(r.Context(), pathParam(r, "userID"), deck.Multiset(req.Cards))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, c)
}

// CreateCollection stores a collection under a new anonymous user id.
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	c, err := h.svc.CreateCollection(r.Context(), deck.Multiset(req.Cards))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, c)
}

// DeleteCollection removes the user's collection.
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCollection(r.Context(), pathParam(r, "userID")); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// ImportCollection parses exported collection text into the user's
// collection.
func (h *CollectionHandler) ImportCollection(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if req.Text == "" {
		response.BadRequest(w, errors.New("text is required"))
		return
	}

	result, err := h.svc.ImportCollection(r.Context(), pathParam(r, "userID"), req.Text, req.Format, req.Merge)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}

// GetCollectionStats returns card counts by rarity.
func (h *CollectionHandler) GetCollectionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.CollectionStats(r.Context(), pathParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, stats)
}
