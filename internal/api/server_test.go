package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb/carddbtest"
	"github.com/ramonehamilton/forgebreaker/internal/storage"
)

const redAggroPath = "/standard/Fixture%20Red%20Aggro"

type stubSyncer struct {
	err string
}

func (s *stubSyncer) Sync(_ context.Context, formats []string, limit int) ([]meta.SyncResult, error) {
	out := make([]meta.SyncResult, len(formats))
	for i, f := range formats {
		out[i] = meta.SyncResult{Format: f, Decks: limit, Error: s.err}
	}
	return out, nil
}

func newTestServer(t *testing.T, syncer forge.MetaSyncer) *httptest.Server {
	t.Helper()

	db, err := storage.OpenMemory()
	require.NoError(t, err)
	store := storage.NewService(db)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.SaveMetaDeck(context.Background(), carddbtest.RedAggro()))

	cards := carddb.NewProvider("", nil)
	cards.Replace(carddbtest.Snapshot())

	svc := forge.NewService(forge.Services{Store: store, Cards: cards, Syncer: syncer})
	srv := httptest.NewServer(NewServer(DefaultConfig(), svc, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data
}

func TestNewServer_NilConfig(t *testing.T) {
	server := NewServer(nil, forge.NewService(forge.Services{}), nil)
	if server.Port() != 8080 {
		t.Errorf("Expected default port 8080, got %d", server.Port())
	}
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))

	resp = do(t, srv, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status forge.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Ready)
	assert.Equal(t, len(carddbtest.Cards()), status.CardCount)
	require.Len(t, status.MetaDecks, 1)
	assert.Equal(t, "standard", status.MetaDecks[0].Format)
}

func TestCollectionEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/api/v1/collection/alice", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/api/v1/collection/alice", `{"cards":{"Shock":0}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/api/v1/collection/alice", `{"cards":{"Monastery Swiftspear":4,"Mountain":20}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, float64(24), data["total_cards"])

	resp = do(t, srv, http.MethodPost, "/api/v1/collection/alice/import",
		`{"text":"4 Lightning Strike\n2 Monastery Swiftspear","format":"simple","merge":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	assert.Equal(t, true, data["merged"])
	assert.Equal(t, float64(28), data["total_cards"])

	resp = do(t, srv, http.MethodPost, "/api/v1/collection/alice/import", `{"text":"4 Shock","format":"xml"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/collection/alice/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	byRarity := data["by_rarity"].(map[string]interface{})
	assert.Equal(t, float64(4), byRarity["uncommon"])
	assert.Equal(t, float64(4), byRarity["common"])

	resp = do(t, srv, http.MethodDelete, "/api/v1/collection/alice", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodDelete, "/api/v1/collection/alice", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateCollection(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodPost, "/api/v1/collection", `{"cards":{"Shock":4}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := decodeData(t, resp)
	userID, _ := data["user_id"].(string)
	require.Len(t, userID, 36)

	resp = do(t, srv, http.MethodGet, "/api/v1/collection/"+userID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestContentTypeEnforced(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/collection/alice", bytes.NewBufferString(`{"cards":{"Shock":1}}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestDeckEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/api/v1/decks/standard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Fixture Red Aggro", list.Data[0]["name"])

	resp = do(t, srv, http.MethodGet, "/api/v1/decks/vintage", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/decks"+redAggroPath, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/decks/standard/Nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/v1/decks/sample", "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/decks"+redAggroPath+"/curve", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Mana curve")
}

func TestSyncEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := do(t, srv, http.MethodPost, "/api/v1/decks/sync", `{"formats":["standard"]}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	srv = newTestServer(t, &stubSyncer{})
	resp = do(t, srv, http.MethodPost, "/api/v1/decks/sync", `{"formats":["standard"],"limit":3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Data []meta.SyncResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 3, body.Data[0].Decks)

	srv = newTestServer(t, &stubSyncer{err: "unexpected status: 503"})
	resp = do(t, srv, http.MethodPost, "/api/v1/decks/sync", `{"formats":["standard"]}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestDistanceAndRecommendations(t *testing.T) {
	srv := newTestServer(t, nil)
	resp := do(t, srv, http.MethodPut, "/api/v1/collection/alice", `{"cards":{"Monastery Swiftspear":4,"Mountain":20}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/distance/alice"+redAggroPath, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, float64(60), data["total_cards"])
	assert.Equal(t, float64(24), data["owned_cards"])
	assert.Equal(t, float64(36), data["missing_cards"])
	assert.Equal(t, false, data["is_complete"])

	resp = do(t, srv, http.MethodGet, "/api/v1/distance/bob"+redAggroPath, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/recommendations/alice/standard?limit=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	assert.Equal(t, "standard", data["format"])
	assert.Equal(t, float64(1), data["total_decks"])
}

func TestAssumptionsAndStress(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/api/v1/assumptions"+redAggroPath, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, data["fragility_explanation"], data["explanation"])
	assert.NotEmpty(t, data["assumptions"])

	resp = do(t, srv, http.MethodPost, "/api/v1/stress"+redAggroPath, `{"stress_type":"delayed","intensity":0.9}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	assert.Equal(t, data["exploration_summary"], data["explanation"])
	assert.Equal(t, data["assumption_violated"], data["breaking_point"])
	assert.Equal(t, data["considerations"], data["recommendations"])

	resp = do(t, srv, http.MethodPost, "/api/v1/stress"+redAggroPath, `{"stress_type":"meteor","intensity":0.5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = do(t, srv, http.MethodPost, "/api/v1/stress"+redAggroPath, `{"stress_type":"missing","intensity":1.5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/stress"+redAggroPath+"/breaking-point", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	assert.Equal(t, data["most_vulnerable_belief"], data["weakest_assumption"])
	assert.Equal(t, data["exploration_insight"], data["explanation"])
	assert.Equal(t, data["failing_scenario"], data["breaking_scenario"])
	assert.Equal(t, "Fixture Red Aggro", data["deck_name"])
}

func TestCardAndSystemEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/api/v1/cards/Lightning%20Strike", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lightning Strike", decodeData(t, resp)["name"])

	resp = do(t, srv, http.MethodGet, "/api/v1/cards/Black%20Lotus", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/assumptions"+redAggroPath, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/system/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ops := decodeData(t, resp)["operations"].([]interface{})
	assert.NotEmpty(t, ops)

	resp = do(t, srv, http.MethodGet, "/api/v1/system/version", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "forgebreaker", decodeData(t, resp)["service"])

	resp = do(t, srv, http.MethodGet, "/api/v1/system/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decodeData(t, resp)
	assert.Equal(t, true, status["ready"])
	assert.Equal(t, []interface{}{"aggro", "combo", "control", "midrange"}, status["archetypes"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodGet, "/health", "")

	resp := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "forgebreaker_http_requests_total")
}

func TestWithMount(t *testing.T) {
	mounted := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	server := NewServer(nil, forge.NewService(forge.Services{}), nil, WithMount("/mcp", mounted))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestExportEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/api/v1/decks"+redAggroPath+"/export?type=mtgo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)
	assert.Equal(t, "mtgo", data["format"])
	assert.Contains(t, data["content"], "20 Mountain")

	resp = do(t, srv, http.MethodGet, "/api/v1/decks"+redAggroPath+"/export?type=xml", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPut, "/api/v1/collection/alice", `{"cards":{"Monastery Swiftspear":4,"Mountain":20}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/v1/distance/alice"+redAggroPath+"/missing", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeData(t, resp)
	assert.Equal(t, "arena", data["format"])
	assert.Contains(t, data["content"], "4 Heartfire Hero")
	assert.NotContains(t, data["content"], "Monastery Swiftspear")

	resp = do(t, srv, http.MethodGet, "/api/v1/distance/bob"+redAggroPath+"/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCardSuggestions(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := do(t, srv, http.MethodGet, "/api/v1/cards/Lightning%20Strik", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var notFound struct {
		Code        int `json:"code"`
		Suggestions []struct {
			Name string `json:"name"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&notFound))
	assert.Equal(t, http.StatusNotFound, notFound.Code)
	require.NotEmpty(t, notFound.Suggestions)
	assert.Equal(t, "Lightning Strike", notFound.Suggestions[0].Name)

	resp = do(t, srv, http.MethodGet, "/api/v1/cards/search?q=glorybringr&limit=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var search struct {
		Data []struct {
			Name  string `json:"name"`
			Score int    `json:"score"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&search))
	require.NotEmpty(t, search.Data)
	assert.LessOrEqual(t, len(search.Data), 2)
	assert.Equal(t, "Glorybringer", search.Data[0].Name)

	resp = do(t, srv, http.MethodGet, "/api/v1/cards/search", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
