package deckimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// Format names a collection text format.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatArena  Format = "arena"
	FormatSimple Format = "simple"
	FormatCSV    Format = "csv"
)

// ParseFormat validates a format name. Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatArena, FormatSimple, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

var arenaDetectRegex = regexp.MustCompile(`^\d+\s+.+\s+\([A-Za-z0-9]+\)\s+\S+$`)

// DetectFormat guesses the format of collection text. A comma-separated
// header line means CSV, a set code in parentheses within the first ten
// lines means Arena, and anything else is treated as simple.
func DetectFormat(text string) Format {
	text = strings.TrimSpace(text)
	if text == "" {
		return FormatSimple
	}

	lines := strings.Split(text, "\n")
	first := strings.ToLower(strings.TrimSpace(lines[0]))
	if strings.Contains(first, ",") {
		for _, h := range []string{"card name", "name", "quantity", "count"} {
			if strings.Contains(first, h) {
				return FormatCSV
			}
		}
	}

	for _, line := range lines[:min(len(lines), 10)] {
		if arenaDetectRegex.MatchString(strings.TrimSpace(line)) {
			return FormatArena
		}
	}
	return FormatSimple
}

// ParseCollection parses collection text in the given format, detecting
// it first for FormatAuto.
func (p *Parser) ParseCollection(text string, format Format) (deck.Multiset, Format, error) {
	if strings.TrimSpace(text) == "" {
		return nil, format, ErrEmptyInput
	}
	if format == "" || format == FormatAuto {
		format = DetectFormat(text)
	}

	var (
		cards deck.Multiset
		err   error
	)
	switch format {
	case FormatArena:
		cards = ParseArenaCollection(text)
	case FormatSimple:
		cards = ParseSimple(text)
	case FormatCSV:
		cards, err = ParseCSV(text)
	default:
		return nil, format, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, format, err
	}
	if len(cards) == 0 {
		return nil, format, fmt.Errorf("%w: no cards found in %s text", ErrEmptyInput, format)
	}
	return cards, format, nil
}

// ParseArenaCollection parses Arena export text into a collection.
// Section headers are skipped and a name listed under several sets keeps
// its highest quantity.
func ParseArenaCollection(text string) deck.Multiset {
	cards := deck.Multiset{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := sectionHeaders[strings.ToLower(line)]; ok {
			continue
		}
		card, ok := parseArenaLine(line)
		if !ok {
			continue
		}
		if card.Quantity > cards[card.Name] {
			cards[card.Name] = card.Quantity
		}
	}
	return cards
}

// ParseSimple parses "4 Name" or "4x Name" lines, summing duplicates.
func ParseSimple(text string) deck.Multiset {
	cards := deck.Multiset{}
	for _, line := range strings.Split(text, "\n") {
		m := simpleRegex.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		cards.Add(strings.TrimSpace(m[2]), qty)
	}
	return cards
}

// ParseCSV parses a CSV export with a header row. The name column is one
// of "card name", "name" or "card"; the quantity column one of
// "quantity", "count" or "qty". Missing or malformed quantities count as
// one copy.
func ParseCSV(text string) (deck.Multiset, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimSpace(text)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	nameCol, qtyCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "card name", "name", "card":
			if nameCol < 0 {
				nameCol = i
			}
		case "quantity", "count", "qty":
			if qtyCol < 0 {
				qtyCol = i
			}
		}
	}

	cards := deck.Multiset{}
	if nameCol < 0 {
		return cards, nil
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		qty := 1
		if qtyCol >= 0 && qtyCol < len(row) {
			if n, err := strconv.Atoi(strings.TrimSpace(row[qtyCol])); err == nil {
				qty = n
			}
		}
		cards.Add(name, qty)
	}
	return cards, nil
}

// MergeCollections returns a new collection holding the highest quantity
// of every card in base and next.
func MergeCollections(base, next deck.Multiset) deck.Multiset {
	out := base.Clone()
	for name, qty := range next {
		if qty > out[name] {
			out[name] = qty
		}
	}
	return out
}
