package forge

import (
	"context"
	"fmt"
	"time"

	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/metrics"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// ListMetaDecks returns the stored decks of a supported format.
func (s *Service) ListMetaDecks(ctx context.Context, format string) ([]*deck.Deck, error) {
	f, err := meta.NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	decks, err := s.store.ListMetaDecks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list meta decks: %w", err)
	}
	return decks, nil
}

// GetMetaDeck returns a stored deck by format and name.
func (s *Service) GetMetaDeck(ctx context.Context, format, name string) (*deck.Deck, error) {
	f, err := meta.NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	d, err := s.store.GetMetaDeck(ctx, f, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta deck: %w", err)
	}
	if d == nil {
		return nil, fmt.Errorf("deck %q in %s: %w", name, f, ErrNotFound)
	}
	return d, nil
}

// LoadSampleDeck stores the bundled sample deck and returns it.
func (s *Service) LoadSampleDeck(ctx context.Context) (*deck.Deck, error) {
	d := deck.SampleDeck()
	if err := s.store.SaveMetaDeck(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SyncMeta scrapes and stores meta decks for formats. A limit of zero
// uses the configured default.
func (s *Service) SyncMeta(ctx context.Context, formats []string, limit int) ([]meta.SyncResult, error) {
	if s.syncer == nil {
		return nil, ErrSyncUnavailable
	}
	if limit <= 0 {
		limit = s.syncLimit
	}

	start := time.Now()
	results, err := s.syncer.Sync(ctx, formats, limit)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveOperation(metrics.OpSync, time.Since(start))
	return results, nil
}
