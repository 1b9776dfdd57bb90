package deckimport

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

var (
	// ErrEmptyInput is returned when the import text holds no cards.
	ErrEmptyInput = errors.New("empty import")

	// ErrUnknownFormat is returned for an unrecognised format name.
	ErrUnknownFormat = errors.New("unknown import format")
)

// Board names the section a parsed card belongs to.
type Board string

const (
	BoardMain      Board = "main"
	BoardSideboard Board = "sideboard"
)

// ParsedCard represents a single card line in an import.
type ParsedCard struct {
	Quantity        int
	Name            string
	SetCode         string // Optional, from lines like "4 Lightning Strike (DMU) 137"
	CollectorNumber string
	Board           Board
}

// ParsedDeck represents a deck parsed from Arena export text.
type ParsedDeck struct {
	Mainboard []*ParsedCard
	Sideboard []*ParsedCard
	Warnings  []string
}

// Deck converts the parsed lines to a deck. Repeated names are summed.
func (p *ParsedDeck) Deck(name, format, archetype string) *deck.Deck {
	d := &deck.Deck{
		Name:      name,
		Format:    format,
		Archetype: archetype,
		Cards:     deck.Multiset{},
		Sideboard: deck.Multiset{},
	}
	for _, c := range p.Mainboard {
		d.Cards.Add(c.Name, c.Quantity)
	}
	for _, c := range p.Sideboard {
		d.Sideboard.Add(c.Name, c.Quantity)
	}
	return d
}

// CardLookup resolves card names. *carddb.Snapshot implements it.
type CardLookup interface {
	Lookup(name string) (*carddb.Card, bool)
}

// Parser handles deck and collection import parsing.
type Parser struct {
	cards CardLookup
}

// NewParser creates a parser. When cards is non-nil, names it does not
// know are reported as warnings.
func NewParser(cards CardLookup) *Parser {
	return &Parser{
		cards: cards,
	}
}

var (
	// "4 Lightning Strike (DMU) 137" or "4 Fire // Ice (MH2) 290a"
	arenaFullRegex = regexp.MustCompile(`^(\d+)\s+(.+?)\s+\(([A-Za-z0-9]+)\)\s+(\S+)$`)
	// "4 Lightning Strike"
	arenaSimpleRegex = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	// "4 Lightning Strike", "4x Lightning Strike" or "4X Lightning Strike"
	simpleRegex = regexp.MustCompile(`(?i)^(\d+)x?\s+(.+)$`)
)

// Section headers in Arena exports.
var sectionHeaders = map[string]Board{
	"deck":      BoardMain,
	"commander": BoardMain,
	"companion": BoardSideboard,
	"sideboard": BoardSideboard,
}

// ParseDeck parses MTGA Arena deck export format.
// Format example:
//
//	Deck
//	4 Lightning Strike (DMU) 137
//	20 Mountain (FDN) 279
//
//	Sideboard
//	2 Duress (M21) 95
//
// Without a Sideboard header, the first empty line after main deck
// cards separates mainboard from sideboard.
func (p *Parser) ParseDeck(input string) (*ParsedDeck, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	result := &ParsedDeck{
		Mainboard: make([]*ParsedCard, 0),
		Sideboard: make([]*ParsedCard, 0),
		Warnings:  make([]string, 0),
	}

	board := BoardMain
	sawHeader := false
	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)

		if b, ok := sectionHeaders[strings.ToLower(line)]; ok {
			board = b
			sawHeader = true
			continue
		}

		// Empty line switches to sideboard
		if line == "" {
			if !sawHeader && board == BoardMain && len(result.Mainboard) > 0 {
				board = BoardSideboard
			}
			continue
		}

		card, ok := parseArenaLine(line)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Line %d: Could not parse '%s'", i+1, line))
			continue
		}
		card.Board = board

		if board == BoardMain {
			result.Mainboard = append(result.Mainboard, card)
		} else {
			result.Sideboard = append(result.Sideboard, card)
		}
		result.Warnings = append(result.Warnings, p.checkCard(card.Name)...)
	}

	if len(result.Mainboard) == 0 && len(result.Sideboard) == 0 {
		return nil, fmt.Errorf("%w: no cards found in import", ErrEmptyInput)
	}
	return result, nil
}

func parseArenaLine(line string) (*ParsedCard, bool) {
	if m := arenaFullRegex.FindStringSubmatch(line); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty <= 0 {
			return nil, false
		}
		return &ParsedCard{
			Quantity:        qty,
			Name:            strings.TrimSpace(m[2]),
			SetCode:         strings.ToUpper(m[3]),
			CollectorNumber: m[4],
		}, true
	}
	if m := arenaSimpleRegex.FindStringSubmatch(line); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err != nil || qty <= 0 {
			return nil, false
		}
		return &ParsedCard{Quantity: qty, Name: strings.TrimSpace(m[2])}, true
	}
	return nil, false
}

// checkCard returns a warning when the card database does not know name.
func (p *Parser) checkCard(name string) []string {
	if p.cards == nil || carddb.IsBasicLandName(name) {
		return nil
	}
	if _, ok := p.cards.Lookup(name); ok {
		return nil
	}
	return []string{fmt.Sprintf("Card '%s' not found in database", name)}
}
