package meta

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

type fakeFetcher struct {
	fail map[string]error
}

func (f *fakeFetcher) FetchMetaDecks(_ context.Context, format string, limit int) ([]*deck.Deck, error) {
	if err := f.fail[format]; err != nil {
		return nil, err
	}
	decks := make([]*deck.Deck, limit)
	for i := range decks {
		decks[i] = &deck.Deck{Name: format + " deck", Format: format, Cards: deck.Multiset{"Shock": 4}}
	}
	return decks, nil
}

type fakeStore struct {
	mu      sync.Mutex
	formats map[string][]*deck.Deck
}

func (s *fakeStore) ReplaceFormat(_ context.Context, format string, decks []*deck.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.formats == nil {
		s.formats = make(map[string][]*deck.Deck)
	}
	s.formats[format] = decks
	return nil
}

func TestSyncer_Sync(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{fail: map[string]error{"explorer": errors.New("boom")}}

	var mu sync.Mutex
	observed := map[string]int{}
	syncer := NewSyncer(fetcher, store, nil, WithSyncObserver(func(format string, decks int) {
		mu.Lock()
		defer mu.Unlock()
		observed[format] = decks
	}))

	results, err := syncer.Sync(context.Background(), []string{"Standard", "explorer"}, 3)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Format != "standard" || results[0].Decks != 3 || results[0].Error != "" {
		t.Errorf("unexpected standard result %+v", results[0])
	}
	if results[1].Format != "explorer" || results[1].Decks != 0 || results[1].Error != "boom" {
		t.Errorf("unexpected explorer result %+v", results[1])
	}

	if len(store.formats["standard"]) != 3 {
		t.Errorf("expected 3 stored standard decks, got %d", len(store.formats["standard"]))
	}
	if _, ok := store.formats["explorer"]; ok {
		t.Error("failed format should not be stored")
	}
	if observed["standard"] != 3 || len(observed) != 1 {
		t.Errorf("unexpected observations %v", observed)
	}
}

func TestSyncer_Defaults(t *testing.T) {
	store := &fakeStore{}
	syncer := NewSyncer(&fakeFetcher{}, store, nil)

	results, err := syncer.Sync(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(results) != len(SupportedFormats) {
		t.Fatalf("expected %d results, got %d", len(SupportedFormats), len(results))
	}
	for i, r := range results {
		if r.Format != SupportedFormats[i] {
			t.Errorf("result %d format = %q, want %q", i, r.Format, SupportedFormats[i])
		}
		if r.Decks != DefaultDecksPerFormat {
			t.Errorf("%s decks = %d, want %d", r.Format, r.Decks, DefaultDecksPerFormat)
		}
	}
}

func TestSyncer_UnsupportedFormat(t *testing.T) {
	store := &fakeStore{}
	syncer := NewSyncer(&fakeFetcher{}, store, nil)

	_, err := syncer.Sync(context.Background(), []string{"standard", "modern"}, 1)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if len(store.formats) != 0 {
		t.Error("nothing should be synced when a format is unsupported")
	}
}
