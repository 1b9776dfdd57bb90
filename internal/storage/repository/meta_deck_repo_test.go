package repository

import (
	"context"
	"testing"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

func float(f float64) *float64 { return &f }

func testDeck(name, format string, share *float64) *deck.Deck {
	return &deck.Deck{
		Name:      name,
		Format:    format,
		Archetype: "aggro",
		Cards:     deck.Multiset{"Shock": 4, "Mountain": 20},
		Sideboard: deck.Multiset{"Duress": 2},
		MetaShare: share,
		SourceURL: "https://example.test/" + name,
	}
}

func TestMetaDeckRepository_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetaDeckRepository(db)
	ctx := context.Background()

	d := testDeck("Mono-Red Aggro", "standard", float(0.12))
	d.WinRate = float(0.55)
	id, err := repo.Upsert(ctx, d)
	if err != nil {
		t.Fatalf("failed to upsert deck: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}

	got, err := repo.Get(ctx, "standard", "Mono-Red Aggro")
	if err != nil {
		t.Fatalf("failed to get deck: %v", err)
	}
	if got == nil {
		t.Fatal("expected deck, got nil")
	}
	if got.Archetype != "aggro" || got.SourceURL != d.SourceURL {
		t.Errorf("unexpected deck header: %+v", got)
	}
	if got.MetaShare == nil || *got.MetaShare != 0.12 {
		t.Errorf("expected meta share 0.12, got %v", got.MetaShare)
	}
	if got.WinRate == nil || *got.WinRate != 0.55 {
		t.Errorf("expected win rate 0.55, got %v", got.WinRate)
	}
	if got.MainCount() != 24 {
		t.Errorf("expected 24 main deck cards, got %d", got.MainCount())
	}
	if got.Sideboard.Count("Duress") != 2 {
		t.Errorf("expected 2 Duress in sideboard, got %v", got.Sideboard)
	}

	// Upserting the same name and format keeps the id and replaces cards.
	d.Cards = deck.Multiset{"Lightning Strike": 4}
	d.WinRate = nil
	id2, err := repo.Upsert(ctx, d)
	if err != nil {
		t.Fatalf("failed to upsert deck: %v", err)
	}
	if id2 != id {
		t.Errorf("expected id %d on update, got %d", id, id2)
	}
	got, err = repo.Get(ctx, "standard", "Mono-Red Aggro")
	if err != nil {
		t.Fatalf("failed to get deck: %v", err)
	}
	if got.Cards.Count("Shock") != 0 || got.Cards.Count("Lightning Strike") != 4 {
		t.Errorf("expected replaced cards, got %v", got.Cards)
	}
	if got.WinRate != nil {
		t.Errorf("expected nil win rate, got %v", *got.WinRate)
	}
}

func TestMetaDeckRepository_UpsertRequiresNameAndFormat(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetaDeckRepository(db)

	if _, err := repo.Upsert(context.Background(), &deck.Deck{Name: "No Format"}); err == nil {
		t.Error("expected error for deck without format")
	}
	if _, err := repo.Upsert(context.Background(), nil); err == nil {
		t.Error("expected error for nil deck")
	}
}

func TestMetaDeckRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetaDeckRepository(db)

	got, err := repo.Get(context.Background(), "standard", "Nope")
	if err != nil {
		t.Fatalf("failed to get deck: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil deck, got %+v", got)
	}
}

func TestMetaDeckRepository_ListByFormat(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetaDeckRepository(db)
	ctx := context.Background()

	for _, d := range []*deck.Deck{
		testDeck("Zombies", "standard", nil),
		testDeck("Azorius Control", "standard", float(0.08)),
		testDeck("Mono-Red Aggro", "standard", float(0.12)),
		testDeck("Boros Energy", "historic", float(0.20)),
	} {
		if _, err := repo.Upsert(ctx, d); err != nil {
			t.Fatalf("failed to upsert %s: %v", d.Name, err)
		}
	}

	decks, err := repo.ListByFormat(ctx, "standard")
	if err != nil {
		t.Fatalf("failed to list decks: %v", err)
	}

	want := []string{"Mono-Red Aggro", "Azorius Control", "Zombies"}
	if len(decks) != len(want) {
		t.Fatalf("expected %d decks, got %d", len(want), len(decks))
	}
	for i, name := range want {
		if decks[i].Name != name {
			t.Errorf("deck %d: expected %q, got %q", i, name, decks[i].Name)
		}
		if decks[i].MainCount() != 24 {
			t.Errorf("deck %q: expected 24 cards, got %d", decks[i].Name, decks[i].MainCount())
		}
	}

	empty, err := repo.ListByFormat(ctx, "explorer")
	if err != nil {
		t.Fatalf("failed to list decks: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", empty)
	}
}

func TestMetaDeckRepository_ReplaceFormat(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetaDeckRepository(db)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, testDeck("Old Deck", "standard", nil)); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, testDeck("Other Format", "historic", nil)); err != nil {
		t.Fatalf("failed to upsert: %v", err)
	}

	// The format argument wins over whatever the decks carry.
	err := repo.ReplaceFormat(ctx, "standard", []*deck.Deck{
		testDeck("New Deck", "", float(0.1)),
		nil,
	})
	if err != nil {
		t.Fatalf("failed to replace format: %v", err)
	}

	decks, err := repo.ListByFormat(ctx, "standard")
	if err != nil {
		t.Fatalf("failed to list decks: %v", err)
	}
	if len(decks) != 1 || decks[0].Name != "New Deck" {
		t.Errorf("expected only New Deck, got %v", decks)
	}

	historic, err := repo.ListByFormat(ctx, "historic")
	if err != nil {
		t.Fatalf("failed to list decks: %v", err)
	}
	if len(historic) != 1 {
		t.Errorf("expected historic decks untouched, got %d", len(historic))
	}
}

func TestMetaDeckRepository_CountByFormat(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMetaDeckRepository(db)
	ctx := context.Background()

	for _, d := range []*deck.Deck{
		testDeck("A", "standard", nil),
		testDeck("B", "standard", nil),
		testDeck("C", "historic", nil),
	} {
		if _, err := repo.Upsert(ctx, d); err != nil {
			t.Fatalf("failed to upsert: %v", err)
		}
	}

	counts, err := repo.CountByFormat(ctx)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 formats, got %v", counts)
	}
	if counts[0].Format != "historic" || counts[0].Decks != 1 {
		t.Errorf("unexpected historic count: %+v", counts[0])
	}
	if counts[1].Format != "standard" || counts[1].Decks != 2 {
		t.Errorf("unexpected standard count: %+v", counts[1])
	}
}
