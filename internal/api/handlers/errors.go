// Package handlers implements the REST endpoints over forge.Service.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/forgebreaker/internal/api/response"
	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deckexport"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deckimport"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
)

var errInvalidBody = errors.New("invalid request body")

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stress.ErrInvalidScenario),
		errors.Is(err, deckimport.ErrEmptyInput),
		errors.Is(err, deckimport.ErrUnknownFormat),
		errors.Is(err, deckexport.ErrUnsupportedFormat),
		errors.Is(err, meta.ErrUnsupportedFormat),
		errors.Is(err, forge.ErrInvalidCollection):
		response.BadRequest(w, err)
	case errors.Is(err, forge.ErrNotFound):
		response.NotFound(w, err)
	case errors.Is(err, forge.ErrSyncUnavailable):
		response.ServiceUnavailable(w, err)
	default:
		response.InternalError(w, err)
	}
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errInvalidBody
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return fallback
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64); err == nil {
		return v
	}
	return fallback
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return v
}

// pathParam returns the unescaped URL parameter key.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
