package meta

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// DefaultDecksPerFormat is the sync limit when none is given.
const DefaultDecksPerFormat = 15

// DeckFetcher fetches the top decks of a format. *GoldfishClient
// implements it.
type DeckFetcher interface {
	FetchMetaDecks(ctx context.Context, format string, limit int) ([]*deck.Deck, error)
}

// DeckStore replaces the stored decks of a format.
type DeckStore interface {
	ReplaceFormat(ctx context.Context, format string, decks []*deck.Deck) error
}

// SyncResult reports the outcome for one format.
type SyncResult struct {
	Format   string        `json:"format"`
	Decks    int           `json:"decks"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Syncer refreshes stored meta decks from a fetcher.
type Syncer struct {
	fetcher  DeckFetcher
	store    DeckStore
	logger   *zap.Logger
	observer func(format string, decks int)
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithSyncObserver registers fn to be called after each successful
// format sync.
func WithSyncObserver(fn func(format string, decks int)) SyncerOption {
	return func(s *Syncer) {
		s.observer = fn
	}
}

// NewSyncer creates a syncer. A nil logger discards output.
func NewSyncer(fetcher DeckFetcher, store DeckStore, logger *zap.Logger, opts ...SyncerOption) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Syncer{
		fetcher: fetcher,
		store:   store,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync refreshes every format concurrently. An empty formats list syncs
// all supported formats. A format that fails to fetch or store is
// reported in its result and leaves its stored decks untouched; only an
// unsupported format name fails the whole call.
func (s *Syncer) Sync(ctx context.Context, formats []string, limit int) ([]SyncResult, error) {
	if len(formats) == 0 {
		formats = SupportedFormats
	}
	if limit <= 0 {
		limit = DefaultDecksPerFormat
	}

	normalized := make([]string, len(formats))
	for i, f := range formats {
		n, err := NormalizeFormat(f)
		if err != nil {
			return nil, err
		}
		normalized[i] = n
	}

	results := make([]SyncResult, len(normalized))
	var g errgroup.Group
	for i, format := range normalized {
		g.Go(func() error {
			results[i] = s.syncFormat(ctx, format, limit)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, r := range results {
		total += r.Decks
	}
	s.logger.Info("meta sync complete", zap.Int("formats", len(results)), zap.Int("decks", total))
	return results, nil
}

func (s *Syncer) syncFormat(ctx context.Context, format string, limit int) SyncResult {
	start := time.Now()
	result := SyncResult{Format: format}
	log := s.logger.With(zap.String("format", format))

	log.Info("fetching meta decks", zap.Int("limit", limit))
	decks, err := s.fetcher.FetchMetaDecks(ctx, format, limit)
	if err != nil {
		log.Error("failed to fetch meta decks", zap.Error(err))
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	if err := s.store.ReplaceFormat(ctx, format, decks); err != nil {
		log.Error("failed to store meta decks", zap.Error(err))
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	result.Decks = len(decks)
	result.Duration = time.Since(start)
	log.Info("synced meta decks", zap.Int("decks", result.Decks), zap.Duration("duration", result.Duration))
	if s.observer != nil {
		s.observer(format, result.Decks)
	}
	return result
}
