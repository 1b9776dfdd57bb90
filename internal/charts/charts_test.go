package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb/carddbtest"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

func TestManaCurve(t *testing.T) {
	series, unknown := ManaCurve(carddbtest.RedAggro(), carddbtest.Snapshot())

	if unknown != 2 {
		t.Errorf("unknown = %d, want 2 (Mysterious Card)", unknown)
	}
	if len(series) != 2 {
		t.Fatalf("series = %d, want 2", len(series))
	}

	creatures, spells := series[0].Points, series[1].Points
	// One-drops: Swiftspear, Heartfire Hero, Hired Claw.
	if creatures[1].Value != 12 {
		t.Errorf("1-drop creatures = %v, want 12", creatures[1].Value)
	}
	// Kumano and Play with Fire.
	if spells[1].Value != 8 {
		t.Errorf("1-mana spells = %v, want 8", spells[1].Value)
	}
	if creatures[5].Value != 2 {
		t.Errorf("5-drop creatures = %v, want 2", creatures[5].Value)
	}

	total := 0.0
	for i := range creatures {
		total += creatures[i].Value + spells[i].Value
	}
	// 60 cards minus 24 lands minus 2 unknown.
	if total != 34 {
		t.Errorf("charted cards = %v, want 34", total)
	}
}

func TestManaCurve_TopBucket(t *testing.T) {
	d := &deck.Deck{Name: "Big", Cards: deck.Multiset{"Emrakul": 1}}
	lookup := carddbtest.Snapshot()
	series, unknown := ManaCurve(d, lookup)
	if unknown != 1 {
		t.Errorf("unknown = %d, want 1", unknown)
	}
	if got := series[0].Points[len(curveBuckets)-1].Label; got != "7+" {
		t.Errorf("last label = %q", got)
	}

	series, unknown = ManaCurve(nil, nil)
	if unknown != 0 || len(series[0].Points) != len(curveBuckets) {
		t.Errorf("nil deck curve = %v, %d", series, unknown)
	}
}

func TestRenderManaCurve(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderManaCurve(&buf, carddbtest.RedAggro(), carddbtest.Snapshot(), DefaultChartConfig()); err != nil {
		t.Fatalf("RenderManaCurve() error = %v", err)
	}

	html := buf.String()
	for _, want := range []string{"<html", "Fixture Red Aggro", "Creatures", "2 cards not in the card database"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered chart missing %q", want)
		}
	}
}

func TestRenderStackedBarChart_NoSeries(t *testing.T) {
	if err := RenderStackedBarChart(&bytes.Buffer{}, nil, DefaultChartConfig()); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestRenderManaCurveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.html")
	if err := RenderManaCurveFile(path, carddbtest.RedAggro(), carddbtest.Snapshot(), DefaultChartConfig()); err != nil {
		t.Fatalf("RenderManaCurveFile() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("chart file not written: %v", err)
	}
}
