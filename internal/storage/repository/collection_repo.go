package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
	"github.com/ramonehamilton/forgebreaker/internal/storage/models"
)

// CollectionRepository handles database operations for user collections.
type CollectionRepository interface {
	// Replace stores cards as the user's whole collection, dropping
	// anything previously stored. Non-positive quantities are skipped.
	Replace(ctx context.Context, userID string, cards deck.Multiset) error

	// Get returns the user's collection, or nil when none is stored.
	Get(ctx context.Context, userID string) (*models.Collection, error)

	// Delete removes the user's collection and reports whether one existed.
	Delete(ctx context.Context, userID string) (bool, error)

	// Exists reports whether the user has a stored collection.
	Exists(ctx context.Context, userID string) (bool, error)
}

type collectionRepository struct {
	db Querier
}

// NewCollectionRepository creates a new collection repository.
func NewCollectionRepository(db Querier) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Replace(ctx context.Context, userID string, cards deck.Multiset) error {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collections (user_id, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET updated_at = excluded.updated_at
	`, userID, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert collection: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM collection_cards WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear collection cards: %w", err)
	}

	for _, name := range cards.Names() {
		qty := cards[name]
		if qty <= 0 {
			continue
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO collection_cards (user_id, card_name, quantity) VALUES (?, ?, ?)`,
			userID, name, qty)
		if err != nil {
			return fmt.Errorf("failed to insert card %q: %w", name, err)
		}
	}
	return nil
}

func (r *collectionRepository) Get(ctx context.Context, userID string) (*models.Collection, error) {
	c := &models.Collection{UserID: userID, Cards: deck.Multiset{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM collections WHERE user_id = ?`, userID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT card_name, quantity FROM collection_cards WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			name string
			qty  int
		)
		if err := rows.Scan(&name, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan collection card: %w", err)
		}
		c.Cards[name] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection cards: %w", err)
	}
	return c, nil
}

func (r *collectionRepository) Delete(ctx context.Context, userID string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM collection_cards WHERE user_id = ?`, userID); err != nil {
		return false, fmt.Errorf("failed to delete collection cards: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *collectionRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM collections WHERE user_id = ?)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check collection: %w", err)
	}
	return exists, nil
}
