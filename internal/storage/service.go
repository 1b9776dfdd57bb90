package storage

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
	"github.com/ramonehamilton/forgebreaker/internal/storage/models"
)

// Service is the persistence API used by the rest of the application.
// Multi-statement writes run in a single transaction.
type Service struct {
	db    *DB
	repos Repos
}

// NewService creates a storage service backed by db.
func NewService(db *DB) *Service {
	return &Service{
		db:    db,
		repos: newRepos(db.Conn()),
	}
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Conn().PingContext(ctx)
}

// SaveCollection replaces the user's stored collection.
func (s *Service) SaveCollection(ctx context.Context, userID string, cards deck.Multiset) error {
	err := s.db.WithTransaction(ctx, func(r Repos) error {
		return r.Collections.Replace(ctx, userID, cards)
	})
	if err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

// GetCollection returns the user's collection, or nil when none is stored.
func (s *Service) GetCollection(ctx context.Context, userID string) (*models.Collection, error) {
	return s.repos.Collections.Get(ctx, userID)
}

// DeleteCollection removes the user's collection and reports whether one
// existed.
func (s *Service) DeleteCollection(ctx context.Context, userID string) (bool, error) {
	var deleted bool
	err := s.db.WithTransaction(ctx, func(r Repos) error {
		var err error
		deleted, err = r.Collections.Delete(ctx, userID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete collection: %w", err)
	}
	return deleted, nil
}

// CollectionExists reports whether the user has a stored collection.
func (s *Service) CollectionExists(ctx context.Context, userID string) (bool, error) {
	return s.repos.Collections.Exists(ctx, userID)
}

// SaveMetaDeck stores a single meta deck.
func (s *Service) SaveMetaDeck(ctx context.Context, d *deck.Deck) error {
	err := s.db.WithTransaction(ctx, func(r Repos) error {
		_, err := r.MetaDecks.Upsert(ctx, d)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save meta deck: %w", err)
	}
	return nil
}

// GetMetaDeck returns the named deck in format, or nil.
func (s *Service) GetMetaDeck(ctx context.Context, format, name string) (*deck.Deck, error) {
	return s.repos.MetaDecks.Get(ctx, format, name)
}

// ListMetaDecks returns the stored decks of format, most played first.
func (s *Service) ListMetaDecks(ctx context.Context, format string) ([]*deck.Deck, error) {
	return s.repos.MetaDecks.ListByFormat(ctx, format)
}

// ReplaceFormat swaps the stored decks of format for decks atomically.
func (s *Service) ReplaceFormat(ctx context.Context, format string, decks []*deck.Deck) error {
	err := s.db.WithTransaction(ctx, func(r Repos) error {
		return r.MetaDecks.ReplaceFormat(ctx, format, decks)
	})
	if err != nil {
		return fmt.Errorf("failed to replace %s decks: %w", format, err)
	}
	return nil
}

// MetaDeckCounts returns the stored deck count per format.
func (s *Service) MetaDeckCounts(ctx context.Context) ([]models.FormatCount, error) {
	return s.repos.MetaDecks.CountByFormat(ctx)
}
