package forge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/metrics"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deckimport"
	"github.com/ramonehamilton/forgebreaker/internal/storage/models"
)

// Collection is a stored collection as returned to clients.
type Collection struct {
	UserID     string        `json:"user_id"`
	Cards      deck.Multiset `json:"cards"`
	TotalCards int           `json:"total_cards"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func newCollection(c *models.Collection) *Collection {
	return &Collection{
		UserID:     c.UserID,
		Cards:      c.Cards,
		TotalCards: c.Cards.Total(),
		UpdatedAt:  c.UpdatedAt,
	}
}

// CollectionStats summarises a collection.
type CollectionStats struct {
	UserID      string         `json:"user_id"`
	UniqueCards int            `json:"unique_cards"`
	TotalCards  int            `json:"total_cards"`
	ByRarity    map[string]int `json:"by_rarity"`
}

// ImportResult reports a collection import.
type ImportResult struct {
	UserID        string            `json:"user_id"`
	Format        deckimport.Format `json:"format"`
	CardsImported int               `json:"cards_imported"`
	TotalCards    int               `json:"total_cards"`
	Merged        bool              `json:"merged"`
}

// rarityUnknown counts cards the card database cannot place.
const rarityUnknown = "unknown"

// ValidateCollection checks that cards is non-empty with positive
// quantities.
func ValidateCollection(cards deck.Multiset) error {
	if len(cards) == 0 {
		return fmt.Errorf("%w: no cards", ErrInvalidCollection)
	}
	for name, qty := range cards {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty card name", ErrInvalidCollection)
		}
		if qty <= 0 {
			return fmt.Errorf("%w: %q has quantity %d", ErrInvalidCollection, name, qty)
		}
	}
	return nil
}

// GetCollection returns the user's collection.
func (s *Service) GetCollection(ctx context.Context, userID string) (*Collection, error) {
	c, err := s.owned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newCollection(c), nil
}

func (s *Service) owned(ctx context.Context, userID string) (*models.Collection, error) {
	c, err := s.store.GetCollection(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("collection %q: %w", userID, ErrNotFound)
	}
	return c, nil
}

// SaveCollection replaces the user's collection.
func (s *Service) SaveCollection(ctx context.Context, userID string, cards deck.Multiset) (*Collection, error) {
	if err := ValidateCollection(cards); err != nil {
		return nil, err
	}
	if err := s.store.SaveCollection(ctx, userID, cards); err != nil {
		return nil, err
	}
	return s.GetCollection(ctx, userID)
}

// CreateCollection stores cards under a fresh anonymous user id.
func (s *Service) CreateCollection(ctx context.Context, cards deck.Multiset) (*Collection, error) {
	return s.SaveCollection(ctx, uuid.NewString(), cards)
}

// DeleteCollection removes the user's collection.
func (s *Service) DeleteCollection(ctx context.Context, userID string) error {
	deleted, err := s.store.DeleteCollection(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("collection %q: %w", userID, ErrNotFound)
	}
	return nil
}

// ImportCollection parses text and stores the result as the user's
// collection. With merge set, each card keeps the higher of its stored
// and imported quantity.
func (s *Service) ImportCollection(ctx context.Context, userID, text, format string, merge bool) (*ImportResult, error) {
	defer s.metrics.Time(metrics.OpImport)()

	f, err := deckimport.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	cards, detected, err := s.Parser().ParseCollection(text, f)
	if err != nil {
		return nil, err
	}
	imported := len(cards)

	merged := false
	if merge {
		existing, err := s.store.GetCollection(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load collection: %w", err)
		}
		if existing != nil {
			cards = deckimport.MergeCollections(existing.Cards, cards)
			merged = true
		}
	}

	if err := s.store.SaveCollection(ctx, userID, cards); err != nil {
		return nil, err
	}
	s.metrics.RecordImport(string(detected))
	s.logger.Info("collection imported",
		zap.String("user_id", userID),
		zap.String("format", string(detected)),
		zap.Int("cards", imported),
		zap.Bool("merged", merged),
	)

	return &ImportResult{
		UserID:        userID,
		Format:        detected,
		CardsImported: imported,
		TotalCards:    cards.Total(),
		Merged:        merged,
	}, nil
}

// CollectionStats counts the user's cards by rarity.
func (s *Service) CollectionStats(ctx context.Context, userID string) (*CollectionStats, error) {
	c, err := s.owned(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := s.Cards()
	stats := &CollectionStats{
		UserID:      userID,
		UniqueCards: len(c.Cards),
		TotalCards:  c.Cards.Total(),
		ByRarity:    make(map[string]int),
	}
	for name, qty := range c.Cards {
		key := rarityUnknown
		if r, ok := snap.Rarity(name); ok {
			key = string(r)
		}
		stats.ByRarity[key] += qty
	}
	return stats, nil
}
