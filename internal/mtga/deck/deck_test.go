package deck

import (
	"math"
	"testing"
)

func TestParseRarity(t *testing.T) {
	tests := []struct {
		input  string
		want   Rarity
		wantOK bool
	}{
		{"common", RarityCommon, true},
		{"Uncommon", RarityUncommon, true},
		{" rare ", RarityRare, true},
		{"MYTHIC", RarityMythic, true},
		{"special", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRarity(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseRarity(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveRarity_DefaultsToRare(t *testing.T) {
	lookup := RarityMap{"Lightning Bolt": RarityCommon}

	if got := ResolveRarity(lookup, "Lightning Bolt"); got != RarityCommon {
		t.Errorf("known card rarity = %q, want common", got)
	}
	if got := ResolveRarity(lookup, "Sheoldred, the Apocalypse"); got != RarityRare {
		t.Errorf("unknown card rarity = %q, want rare", got)
	}
	if got := ResolveRarity(nil, "Anything"); got != RarityRare {
		t.Errorf("nil lookup rarity = %q, want rare", got)
	}
}

// rawLookup answers with whatever rarity string it holds.
type rawLookup map[string]Rarity

func (l rawLookup) Rarity(name string) (Rarity, bool) {
	r, ok := l[name]
	return r, ok
}

func TestResolveRarity_Normalizes(t *testing.T) {
	tests := []struct {
		name   string
		lookup RarityLookup
		want   Rarity
	}{
		{"map special", RarityMap{"Promo": "special"}, RarityRare},
		{"map mixed case", RarityMap{"Promo": " Mythic "}, RarityMythic},
		{"raw bonus", rawLookup{"Promo": "bonus"}, RarityRare},
		{"raw empty", rawLookup{"Promo": ""}, RarityRare},
		{"raw uppercase", rawLookup{"Promo": "UNCOMMON"}, RarityUncommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveRarity(tt.lookup, "Promo"); got != tt.want {
				t.Errorf("ResolveRarity() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRarityChain(t *testing.T) {
	chain := RarityChain{
		RarityMap{"Shock": RarityMythic, "Promo": "special"},
		nil,
		RarityMap{"Shock": RarityCommon, "Promo": RarityUncommon, "Duress": RarityCommon},
	}

	tests := []struct {
		card   string
		want   Rarity
		wantOK bool
	}{
		{"Shock", RarityMythic, true},
		{"Promo", RarityUncommon, true},
		{"Duress", RarityCommon, true},
		{"Negate", "", false},
	}
	for _, tt := range tests {
		got, ok := chain.Rarity(tt.card)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Rarity(%q) = %q, %v; want %q, %v", tt.card, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewMultiset_DropsNonPositive(t *testing.T) {
	m := NewMultiset(map[string]int{"A": 2, "B": 0, "C": -1, "": 3})

	if len(m) != 1 || m.Count("A") != 2 {
		t.Errorf("NewMultiset() = %v, want only A:2", m)
	}
	if m.Count("missing") != 0 {
		t.Error("absent name should count as zero")
	}
}

func TestMultiset_NamesSorted(t *testing.T) {
	m := Multiset{"Shock": 1, "Duress": 2, "Negate": 3}
	names := m.Names()
	want := []string{"Duress", "Negate", "Shock"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestDeck_Required(t *testing.T) {
	d := &Deck{
		Cards:     Multiset{"Shock": 4, "Mountain": 20},
		Sideboard: Multiset{"Shock": 1, "Duress": 2},
	}

	main := d.Required(false)
	if main.Total() != 24 {
		t.Errorf("main total = %d, want 24", main.Total())
	}

	all := d.Required(true)
	if all.Count("Shock") != 5 || all.Count("Duress") != 2 {
		t.Errorf("with sideboard = %v", all)
	}
	if d.Cards.Count("Shock") != 4 {
		t.Error("Required must not modify the deck")
	}
}

func TestNewWildcardCost(t *testing.T) {
	wc := NewWildcardCost(map[Rarity]int{
		RarityCommon:   10,
		RarityUncommon: 4,
		RarityRare:     3,
		RarityMythic:   1,
	})

	if wc.Total != 18 {
		t.Errorf("Total = %d, want 18", wc.Total)
	}
	want := 10*0.1 + 4*0.25 + 3*1.0 + 1*4.0
	if math.Abs(wc.WeightedCost-want) > 1e-9 {
		t.Errorf("WeightedCost = %v, want %v", wc.WeightedCost, want)
	}
}

func TestSampleDeck(t *testing.T) {
	d := SampleDeck()
	if d.MainCount() != 60 {
		t.Errorf("sample main deck has %d cards, want 60", d.MainCount())
	}
	if d.Sideboard.Total() != 15 {
		t.Errorf("sample sideboard has %d cards, want 15", d.Sideboard.Total())
	}
}
