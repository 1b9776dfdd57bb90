package archetype

import (
	"testing"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		want   Archetype
		wantOK bool
	}{
		{"aggro", Aggro, true},
		{"  Control ", Control, true},
		{"COMBO", Combo, true},
		{"midrange", Midrange, true},
		{"tempo", "tempo", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Parse(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		name   string
		want   Archetype
		wantOK bool
	}{
		{"Mono-Red Aggro", Aggro, true},
		{"Boros Burn", Aggro, true},
		{"Esper Midrange", Control, true}, // keyword order: control words win
		{"Azorius Control", Control, true},
		{"Izzet Storm", Combo, true},
		{"Golgari Midrange", Midrange, true},
		{"Domain Ramp", Combo, true},
		{"Rakdos Sacrifice", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromName(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FromName(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func fixtureSnapshot() *carddb.Snapshot {
	return carddb.NewSnapshot([]*carddb.Card{
		{Name: "Monastery Swiftspear", ManaValue: 1, TypeLine: "Creature — Human Monk", Colors: []string{"R"}},
		{Name: "Kumano Faces Kakkazan", ManaValue: 1, TypeLine: "Enchantment — Saga", Colors: []string{"R"}},
		{Name: "Play with Fire", ManaValue: 1, TypeLine: "Instant", Colors: []string{"R"}},
		{Name: "Bloodthirsty Adversary", ManaValue: 2, TypeLine: "Creature — Vampire", Colors: []string{"R"}},
		{Name: "Sunfall", ManaValue: 5, TypeLine: "Sorcery", Colors: []string{"W"}},
		{Name: "Depopulate", ManaValue: 4, TypeLine: "Sorcery", Colors: []string{"W"}},
		{Name: "Memory Deluge", ManaValue: 4, TypeLine: "Instant", Colors: []string{"U"}},
		{Name: "Ertai Resurrected", ManaValue: 4, TypeLine: "Legendary Creature — Phyrexian Human", Colors: []string{"W", "U"}},
		{Name: "Sheoldred, the Apocalypse", ManaValue: 4, TypeLine: "Legendary Creature — Phyrexian Praetor", Colors: []string{"B"}},
		{Name: "Rockface Village", TypeLine: "Land"},
	}, "fixture")
}

func TestAnalyze(t *testing.T) {
	cards := deck.Multiset{
		"Monastery Swiftspear":   4,
		"Play with Fire":         4,
		"Sunfall":                2,
		"Rockface Village":       4,
		"Mountain":               16,
		"Unknown Card From Void": 2,
	}

	a := Analyze(cards, fixtureSnapshot())

	if a.LandCount != 20 {
		t.Errorf("LandCount = %d, want 20", a.LandCount)
	}
	if a.NonlandCount != 10 {
		t.Errorf("NonlandCount = %d, want 10", a.NonlandCount)
	}
	if a.UnknownCount != 2 {
		t.Errorf("UnknownCount = %d, want 2", a.UnknownCount)
	}
	if a.CreatureCount != 4 || a.InstantCount != 4 || a.SorceryCount != 2 {
		t.Errorf("type counts = %d/%d/%d, want 4/4/2", a.CreatureCount, a.InstantCount, a.SorceryCount)
	}
	// (4*1 + 4*1 + 2*5) / 10
	if a.AvgManaValue != 1.8 {
		t.Errorf("AvgManaValue = %v, want 1.8", a.AvgManaValue)
	}
	if a.ManaCurve[1] != 8 || a.ManaCurve[5] != 2 {
		t.Errorf("ManaCurve = %v", a.ManaCurve)
	}
	if got := a.ColorIdentity(); got != "WR" {
		t.Errorf("ColorIdentity() = %q, want WR", got)
	}
	if got := a.DominantColors(); len(got) != 2 || got[0] != "R" {
		t.Errorf("DominantColors() = %v, want [R W]", got)
	}
}

func TestAnalyze_NilLookup(t *testing.T) {
	a := Analyze(deck.Multiset{"Mountain": 20, "Lightning Strike": 4}, nil)
	if a.LandCount != 20 || a.UnknownCount != 4 || a.NonlandCount != 0 {
		t.Errorf("got lands=%d unknown=%d nonland=%d", a.LandCount, a.UnknownCount, a.NonlandCount)
	}
	if a.ColorIdentity() != "C" {
		t.Errorf("ColorIdentity() = %q, want C", a.ColorIdentity())
	}
	if _, ok := DetectStyle(a); ok {
		t.Error("no nonland cards should not classify")
	}
}

func TestDetectStyle(t *testing.T) {
	tests := []struct {
		name     string
		analysis *DeckAnalysis
		want     Archetype
		wantOK   bool
	}{
		{
			name: "aggro",
			analysis: &DeckAnalysis{
				CreatureCount: 26, InstantCount: 8, NonlandCount: 38,
				ManaCurve:    map[int]int{1: 16, 2: 12, 3: 10},
				AvgManaValue: 1.9,
			},
			want: Aggro, wantOK: true,
		},
		{
			name: "control",
			analysis: &DeckAnalysis{
				CreatureCount: 4, InstantCount: 14, SorceryCount: 8, NonlandCount: 34,
				ManaCurve:    map[int]int{2: 6, 3: 6, 4: 10, 5: 8, 6: 4},
				AvgManaValue: 3.9,
			},
			want: Control, wantOK: true,
		},
		{
			name: "midrange",
			analysis: &DeckAnalysis{
				CreatureCount: 20, InstantCount: 8, SorceryCount: 4, NonlandCount: 36,
				ManaCurve:    map[int]int{2: 10, 3: 12, 4: 10, 5: 4},
				AvgManaValue: 3.1,
			},
			want: Midrange, wantOK: true,
		},
		{
			name: "combo",
			analysis: &DeckAnalysis{
				CreatureCount: 4, InstantCount: 20, SorceryCount: 12, NonlandCount: 40,
				ManaCurve:    map[int]int{1: 14, 2: 16, 3: 10},
				AvgManaValue: 2.0,
			},
			want: Combo, wantOK: true,
		},
		{
			name: "unclassified",
			analysis: &DeckAnalysis{
				CreatureCount: 12, InstantCount: 10, SorceryCount: 6, NonlandCount: 36,
				ManaCurve:    map[int]int{1: 6, 2: 10, 3: 12, 4: 8},
				AvgManaValue: 2.4,
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectStyle(tt.analysis)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DetectStyle() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	aggroComp := &DeckAnalysis{
		CreatureCount: 26, NonlandCount: 36,
		ManaCurve:    map[int]int{1: 16, 2: 12, 3: 8},
		AvgManaValue: 1.9,
	}

	tests := []struct {
		name      string
		declared  string
		deckName  string
		analysis  *DeckAnalysis
		want      Archetype
		wantKnown bool
		source    Source
	}{
		{"declared wins", "Control", "Mono-Red Aggro", aggroComp, Control, true, SourceDeclared},
		{"declared unknown", "tempo", "Mono-Red Aggro", aggroComp, "tempo", false, SourceDeclared},
		{"deck name", "", "Azorius Control", aggroComp, Control, true, SourceName},
		{"composition", "", "Gruul Stompy", aggroComp, Aggro, true, SourceComposition},
		{"default", "", "Gruul Stompy", nil, Midrange, true, SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.declared, tt.deckName, tt.analysis)
			if got.Archetype != tt.want || got.Known != tt.wantKnown || got.Source != tt.source {
				t.Errorf("Resolve() = %+v; want %q known=%v source=%q", got, tt.want, tt.wantKnown, tt.source)
			}
		})
	}
}
