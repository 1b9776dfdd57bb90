package forge

import (
	"context"
	"time"

	"github.com/ramonehamilton/forgebreaker/internal/storage/models"
)

// Status reports readiness of the service's dependencies.
type Status struct {
	Ready         bool                 `json:"ready"`
	Database      string               `json:"database"`
	CardCount     int                  `json:"card_count"`
	CardSource    string               `json:"card_source"`
	CardsLoadedAt time.Time            `json:"cards_loaded_at"`
	MetaDecks     []models.FormatCount `json:"meta_decks"`
	Archetypes    []string             `json:"archetypes"`
}

// Status pings the database and describes the loaded card database.
// The service is ready when the database answers; an empty card
// database only degrades rarity and archetype detection.
func (s *Service) Status(ctx context.Context) *Status {
	snap := s.Cards()
	st := &Status{
		Ready:         true,
		Database:      "ok",
		CardCount:     snap.Len(),
		CardSource:    snap.Source(),
		CardsLoadedAt: snap.LoadedAt(),
		MetaDecks:     []models.FormatCount{},
		Archetypes:    s.engine.Archetypes(),
	}

	if err := s.store.Ping(ctx); err != nil {
		st.Ready = false
		st.Database = err.Error()
		return st
	}
	if counts, err := s.store.MetaDeckCounts(ctx); err == nil {
		st.MetaDecks = counts
	}
	return st
}
