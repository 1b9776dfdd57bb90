// Package forge is the application layer: it composes the pure deck
// engine with persistence, the card database and meta deck sync.
package forge

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/meta"
	"github.com/ramonehamilton/forgebreaker/internal/metrics"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deckimport"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
	"github.com/ramonehamilton/forgebreaker/internal/storage/models"
)

var (
	// ErrNotFound is returned when a collection or deck does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCollection is returned for an empty collection or a
	// non-positive quantity.
	ErrInvalidCollection = errors.New("invalid collection")

	// ErrSyncUnavailable is returned when no meta syncer is configured.
	ErrSyncUnavailable = errors.New("meta sync is not configured")
)

// Store is the persistence the service needs. *storage.Service
// implements it.
type Store interface {
	SaveCollection(ctx context.Context, userID string, cards deck.Multiset) error
	GetCollection(ctx context.Context, userID string) (*models.Collection, error)
	DeleteCollection(ctx context.Context, userID string) (bool, error)
	SaveMetaDeck(ctx context.Context, d *deck.Deck) error
	GetMetaDeck(ctx context.Context, format, name string) (*deck.Deck, error)
	ListMetaDecks(ctx context.Context, format string) ([]*deck.Deck, error)
	MetaDeckCounts(ctx context.Context) ([]models.FormatCount, error)
	Ping(ctx context.Context) error
}

// CardSource hands out the current card database. *carddb.Provider
// implements it.
type CardSource interface {
	Snapshot() *carddb.Snapshot
}

// MetaSyncer refreshes stored meta decks. *meta.Syncer implements it.
type MetaSyncer interface {
	Sync(ctx context.Context, formats []string, limit int) ([]meta.SyncResult, error)
}

// Services holds the dependencies of a Service. Store is required;
// the rest fall back to defaults when nil.
type Services struct {
	Store     Store
	Cards     CardSource
	Engine    *assumptions.Engine
	Simulator *stress.Simulator
	Syncer    MetaSyncer
	Metrics   *metrics.EngineMetrics
	Logger    *zap.Logger

	// SyncLimit is the default number of decks per format to sync.
	SyncLimit int
}

// Service exposes every application operation to the REST API, the MCP
// tools and the CLI.
type Service struct {
	store     Store
	cards     CardSource
	engine    *assumptions.Engine
	simulator *stress.Simulator
	syncer    MetaSyncer
	metrics   *metrics.EngineMetrics
	logger    *zap.Logger
	syncLimit int
}

// NewService creates a Service from its dependencies.
func NewService(s Services) *Service {
	svc := &Service{
		store:     s.Store,
		cards:     s.Cards,
		engine:    s.Engine,
		simulator: s.Simulator,
		syncer:    s.Syncer,
		metrics:   s.Metrics,
		logger:    s.Logger,
		syncLimit: s.SyncLimit,
	}
	if svc.engine == nil {
		svc.engine = assumptions.NewEngine(assumptions.DefaultConfig())
	}
	if svc.simulator == nil {
		svc.simulator = stress.NewSimulator(stress.DefaultConfig())
	}
	if svc.metrics == nil {
		svc.metrics = metrics.New()
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.syncLimit <= 0 {
		svc.syncLimit = meta.DefaultDecksPerFormat
	}
	return svc
}

// Cards returns the current card database snapshot. It never returns
// nil.
func (s *Service) Cards() *carddb.Snapshot {
	if s.cards == nil {
		return carddb.NewSnapshot(nil, "empty")
	}
	if snap := s.cards.Snapshot(); snap != nil {
		return snap
	}
	return carddb.NewSnapshot(nil, "empty")
}

// Metrics returns the metrics the service records into.
func (s *Service) Metrics() *metrics.EngineMetrics {
	return s.metrics
}

// Parser returns a deck and collection parser bound to the current
// card database.
func (s *Service) Parser() *deckimport.Parser {
	return deckimport.NewParser(s.Cards())
}
