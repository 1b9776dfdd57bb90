package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ramonehamilton/forgebreaker/internal/api/handlers"
	"github.com/ramonehamilton/forgebreaker/internal/api/response"
	"github.com/ramonehamilton/forgebreaker/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoints (no versioning)
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ready", s.readyCheck)
	s.router.Handle("/metrics", s.svc.Metrics().Handler())

	for pattern, h := range s.mounts {
		s.router.Mount(pattern, h)
	}

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		}

		// Collection routes
		collectionHandler := handlers.NewCollectionHandler(s.svc)
		r.Route("/collection", func(r chi.Router) {
			r.Post("/", collectionHandler.CreateCollection)
			r.Get("/{userID}", collectionHandler.GetCollection)
			r.Put("/{userID}", collectionHandler.PutCollection)
			r.Delete("/{userID}", collectionHandler.DeleteCollection)
			r.Post("/{userID}/import", collectionHandler.ImportCollection)
			r.Get("/{userID}/stats", collectionHandler.GetCollectionStats)
		})

		// Meta deck routes
		deckHandler := handlers.NewDeckHandler(s.svc)
		r.Route("/decks", func(r chi.Router) {
			r.Post("/sync", deckHandler.SyncMeta)
			r.Post("/sample", deckHandler.LoadSample)
			r.Get("/{format}", deckHandler.ListDecks)
			r.Get("/{format}/{name}", deckHandler.GetDeck)
			r.Get("/{format}/{name}/curve", deckHandler.GetDeckCurve)
			r.Get("/{format}/{name}/export", deckHandler.ExportDeck)
		})

		// Analysis routes
		analysisHandler := handlers.NewAnalysisHandler(s.svc)
		r.Get("/distance/{userID}/{format}/{name}", analysisHandler.GetDistance)
		r.Get("/distance/{userID}/{format}/{name}/missing", analysisHandler.GetMissingExport)
		r.Get("/recommendations/{userID}/{format}", analysisHandler.GetRecommendations)
		r.Get("/assumptions/{format}/{name}", analysisHandler.GetAssumptions)
		r.Route("/stress/{format}/{name}", func(r chi.Router) {
			r.Post("/", analysisHandler.ApplyStress)
			r.Get("/breaking-point", analysisHandler.GetBreakingPoint)
		})

		// Card routes
		cardHandler := handlers.NewCardHandler(s.svc)
		r.Get("/cards/search", cardHandler.SearchCards)
		r.Get("/cards/{name}", cardHandler.GetCard)

		// System routes
		systemHandler := handlers.NewSystemHandler(s.svc)
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/stats", systemHandler.GetStats)
			r.Get("/version", systemHandler.GetVersion)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": version.ServiceName,
	})
}

// readyCheck reports whether the database answers.
func (s *Server) readyCheck(w http.ResponseWriter, r *http.Request) {
	status := s.svc.Status(r.Context())
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, code, status)
}
