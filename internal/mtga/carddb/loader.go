package carddb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// scryfallCard is the subset of a Scryfall bulk-data card object we keep.
type scryfallCard struct {
	Name       string   `json:"name"`
	Layout     string   `json:"layout"`
	ManaCost   string   `json:"mana_cost"`
	CMC        float64  `json:"cmc"`
	TypeLine   string   `json:"type_line"`
	OracleText string   `json:"oracle_text"`
	Colors     []string `json:"colors"`
	Keywords   []string `json:"keywords"`
	Rarity     string   `json:"rarity"`
	ArenaID    int      `json:"arena_id"`
	Set        string   `json:"set"`
	CardFaces  []struct {
		Name       string   `json:"name"`
		ManaCost   string   `json:"mana_cost"`
		TypeLine   string   `json:"type_line"`
		OracleText string   `json:"oracle_text"`
		Colors     []string `json:"colors"`
	} `json:"card_faces"`
}

var skippedLayouts = map[string]bool{
	"token":              true,
	"double_faced_token": true,
	"art_series":         true,
	"emblem":             true,
}

func (sc *scryfallCard) toCard() *Card {
	c := &Card{
		Name:       sc.Name,
		ManaCost:   sc.ManaCost,
		ManaValue:  sc.CMC,
		TypeLine:   sc.TypeLine,
		OracleText: sc.OracleText,
		Colors:     sc.Colors,
		Keywords:   sc.Keywords,
		ArenaID:    sc.ArenaID,
		SetCode:    strings.ToUpper(sc.Set),
	}
	if r, ok := deck.ParseRarity(sc.Rarity); ok {
		c.Rarity = r
	}

	if len(sc.CardFaces) > 0 {
		texts := make([]string, 0, len(sc.CardFaces))
		for _, face := range sc.CardFaces {
			if face.OracleText != "" {
				texts = append(texts, face.OracleText)
			}
		}
		if c.OracleText == "" {
			c.OracleText = strings.Join(texts, "\n")
		}
		if c.ManaCost == "" {
			c.ManaCost = sc.CardFaces[0].ManaCost
		}
		if len(c.Colors) == 0 {
			c.Colors = sc.CardFaces[0].Colors
		}
		if c.TypeLine == "" {
			c.TypeLine = sc.CardFaces[0].TypeLine
		}
	}
	return c
}

// Load decodes a Scryfall bulk-data JSON array from r. The array is
// streamed, so the ~100MB default_cards file is never held as raw bytes.
func Load(r io.Reader, source string) (*Snapshot, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read card data: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("card data must be a JSON array, got %v", tok)
	}

	cards := make([]*Card, 0, 1024)
	for dec.More() {
		var sc scryfallCard
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("failed to decode card %d: %w", len(cards)+1, err)
		}
		if sc.Name == "" || skippedLayouts[sc.Layout] {
			continue
		}
		cards = append(cards, sc.toCard())
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read end of card data: %w", err)
	}

	return NewSnapshot(cards, source), nil
}

// LoadFile loads a snapshot from a Scryfall bulk-data file.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card data: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f, path)
}
