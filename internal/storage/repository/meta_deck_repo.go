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

const (
	boardMain      = "main"
	boardSideboard = "sideboard"
)

// MetaDeckRepository handles database operations for scraped meta decks.
// Decks are unique by (name, format).
type MetaDeckRepository interface {
	// Upsert stores d, replacing the cards of any deck with the same name
	// and format. It returns the deck's row id.
	Upsert(ctx context.Context, d *deck.Deck) (int64, error)

	// Get returns the named deck in format, or nil when none is stored.
	Get(ctx context.Context, format, name string) (*deck.Deck, error)

	// ListByFormat returns a format's decks ordered by meta share, highest
	// first, then by name. Decks without a share come last.
	ListByFormat(ctx context.Context, format string) ([]*deck.Deck, error)

	// ReplaceFormat drops every stored deck of format and stores decks.
	ReplaceFormat(ctx context.Context, format string, decks []*deck.Deck) error

	// CountByFormat returns the stored deck count per format.
	CountByFormat(ctx context.Context) ([]models.FormatCount, error)
}

type metaDeckRepository struct {
	db Querier
}

// NewMetaDeckRepository creates a new meta deck repository.
func NewMetaDeckRepository(db Querier) MetaDeckRepository {
	return &metaDeckRepository{db: db}
}

func (r *metaDeckRepository) Upsert(ctx context.Context, d *deck.Deck) (int64, error) {
	if d == nil || d.Name == "" || d.Format == "" {
		return 0, fmt.Errorf("deck name and format are required")
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO meta_decks (name, format, archetype, win_rate, meta_share, source_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, format) DO UPDATE SET
			archetype = excluded.archetype,
			win_rate = excluded.win_rate,
			meta_share = excluded.meta_share,
			source_url = excluded.source_url,
			updated_at = excluded.updated_at
		RETURNING id
	`, d.Name, d.Format, d.Archetype, nullFloat(d.WinRate), nullFloat(d.MetaShare), d.SourceURL, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert meta deck %q: %w", d.Name, err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM meta_deck_cards WHERE deck_id = ?`, id); err != nil {
		return 0, fmt.Errorf("failed to clear meta deck cards: %w", err)
	}
	if err := r.insertCards(ctx, id, boardMain, d.Cards); err != nil {
		return 0, err
	}
	if err := r.insertCards(ctx, id, boardSideboard, d.Sideboard); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *metaDeckRepository) insertCards(ctx context.Context, id int64, board string, cards deck.Multiset) error {
	for _, name := range cards.Names() {
		qty := cards[name]
		if qty <= 0 {
			continue
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO meta_deck_cards (deck_id, board, card_name, quantity) VALUES (?, ?, ?, ?)`,
			id, board, name, qty)
		if err != nil {
			return fmt.Errorf("failed to insert %s card %q: %w", board, name, err)
		}
	}
	return nil
}

func (r *metaDeckRepository) Get(ctx context.Context, format, name string) (*deck.Deck, error) {
	var (
		id        int64
		d         = &deck.Deck{Cards: deck.Multiset{}, Sideboard: deck.Multiset{}}
		winRate   sql.NullFloat64
		metaShare sql.NullFloat64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, format, archetype, win_rate, meta_share, source_url
		FROM meta_decks WHERE format = ? AND name = ?
	`, format, name).Scan(&id, &d.Name, &d.Format, &d.Archetype, &winRate, &metaShare, &d.SourceURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meta deck: %w", err)
	}
	d.WinRate = floatPtr(winRate)
	d.MetaShare = floatPtr(metaShare)

	rows, err := r.db.QueryContext(ctx,
		`SELECT deck_id, board, card_name, quantity FROM meta_deck_cards WHERE deck_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query meta deck cards: %w", err)
	}
	if err := scanCards(rows, map[int64]*deck.Deck{id: d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *metaDeckRepository) ListByFormat(ctx context.Context, format string) ([]*deck.Deck, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, format, archetype, win_rate, meta_share, source_url
		FROM meta_decks
		WHERE format = ?
		ORDER BY meta_share DESC, name ASC
	`, format)
	if err != nil {
		return nil, fmt.Errorf("failed to query meta decks: %w", err)
	}

	decks := make([]*deck.Deck, 0)
	byID := make(map[int64]*deck.Deck)
	for rows.Next() {
		var (
			id        int64
			d         = &deck.Deck{Cards: deck.Multiset{}, Sideboard: deck.Multiset{}}
			winRate   sql.NullFloat64
			metaShare sql.NullFloat64
		)
		if err := rows.Scan(&id, &d.Name, &d.Format, &d.Archetype, &winRate, &metaShare, &d.SourceURL); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan meta deck: %w", err)
		}
		d.WinRate = floatPtr(winRate)
		d.MetaShare = floatPtr(metaShare)
		decks = append(decks, d)
		byID[id] = d
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating meta decks: %w", err)
	}
	_ = rows.Close()

	if len(decks) == 0 {
		return decks, nil
	}

	cardRows, err := r.db.QueryContext(ctx, `
		SELECT c.deck_id, c.board, c.card_name, c.quantity
		FROM meta_deck_cards c
		JOIN meta_decks d ON d.id = c.deck_id
		WHERE d.format = ?
	`, format)
	if err != nil {
		return nil, fmt.Errorf("failed to query meta deck cards: %w", err)
	}
	if err := scanCards(cardRows, byID); err != nil {
		return nil, err
	}
	return decks, nil
}

func (r *metaDeckRepository) ReplaceFormat(ctx context.Context, format string, decks []*deck.Deck) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM meta_deck_cards WHERE deck_id IN (SELECT id FROM meta_decks WHERE format = ?)`, format); err != nil {
		return fmt.Errorf("failed to clear meta deck cards: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM meta_decks WHERE format = ?`, format); err != nil {
		return fmt.Errorf("failed to clear meta decks: %w", err)
	}

	for _, d := range decks {
		if d == nil {
			continue
		}
		stored := *d
		stored.Format = format
		if _, err := r.Upsert(ctx, &stored); err != nil {
			return err
		}
	}
	return nil
}

func (r *metaDeckRepository) CountByFormat(ctx context.Context) ([]models.FormatCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT format, COUNT(*), MAX(updated_at)
		FROM meta_decks
		GROUP BY format
		ORDER BY format
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count meta decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]models.FormatCount, 0)
	for rows.Next() {
		var (
			fc      models.FormatCount
			updated sql.NullString
		)
		if err := rows.Scan(&fc.Format, &fc.Decks, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan format count: %w", err)
		}
		fc.UpdatedAt = parseTime(updated.String)
		counts = append(counts, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating format counts: %w", err)
	}
	return counts, nil
}

func scanCards(rows *sql.Rows, byID map[int64]*deck.Deck) error {
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			id    int64
			board string
			name  string
			qty   int
		)
		if err := rows.Scan(&id, &board, &name, &qty); err != nil {
			return fmt.Errorf("failed to scan meta deck card: %w", err)
		}
		d, ok := byID[id]
		if !ok {
			continue
		}
		if board == boardSideboard {
			d.Sideboard[name] = qty
		} else {
			d.Cards[name] = qty
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating meta deck cards: %w", err)
	}
	return nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

// MAX() over a DATETIME column loses the column type, so the driver hands
// back the stored text.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
