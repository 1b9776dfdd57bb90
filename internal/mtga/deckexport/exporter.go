// Package deckexport renders decks and missing-card lists as text other
// clients import.
package deckexport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportFormat represents the format to export the deck in.
type ExportFormat string

const (
	FormatArena       ExportFormat = "arena"       // MTGA Arena format
	FormatPlainText   ExportFormat = "plaintext"   // Simple text list (4x Card Name)
	FormatMTGO        ExportFormat = "mtgo"        // MTGO format
	FormatMTGGoldfish ExportFormat = "mtggoldfish" // MTGGoldfish format
)

// ParseFormat validates a format name. Empty means arena.
func ParseFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatArena, nil
	case FormatArena, FormatPlainText, FormatMTGO, FormatMTGGoldfish:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ExportOptions controls deck export behavior.
type ExportOptions struct {
	Format         ExportFormat
	IncludeHeaders bool // Include section headers (Deck, Sideboard, etc.)
}

// DeckExport represents an exported deck.
type DeckExport struct {
	Content  string       `json:"content"`
	Format   ExportFormat `json:"format"`
	Filename string       `json:"filename"` // Suggested filename for download
}

// Export renders d in the requested format. Cards are listed by name
// within each board. A nil options exports Arena text with headers.
func Export(d *deck.Deck, options *ExportOptions) (*DeckExport, error) {
	if d == nil {
		return nil, fmt.Errorf("deck is nil")
	}
	if options == nil {
		options = &ExportOptions{Format: FormatArena, IncludeHeaders: true}
	}

	var content, filename string
	switch options.Format {
	case FormatArena, "":
		content = exportArena(d, options)
		filename = sanitizeFilename(d.Name) + ".txt"
	case FormatPlainText:
		content = exportPlainText(d, options)
		filename = sanitizeFilename(d.Name) + ".txt"
	case FormatMTGO:
		content = exportMTGO(d)
		filename = sanitizeFilename(d.Name) + ".dek"
	case FormatMTGGoldfish:
		content = exportMTGGoldfish(d)
		filename = sanitizeFilename(d.Name) + ".txt"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, options.Format)
	}

	format := options.Format
	if format == "" {
		format = FormatArena
	}
	return &DeckExport{Content: content, Format: format, Filename: filename}, nil
}

// ExportMissing renders the missing cards of dist as a main-deck-only
// list, ready to paste into a crafting or trading tool.
func ExportMissing(dist *deck.DeckDistance, options *ExportOptions) (*DeckExport, error) {
	if dist == nil {
		return nil, fmt.Errorf("deck distance is nil")
	}

	missing := &deck.Deck{
		Name:   dist.DeckName + " (missing)",
		Format: dist.Format,
		Cards:  deck.Multiset{},
	}
	for _, mc := range dist.MissingCardList {
		missing.Cards.Add(mc.Name, mc.Quantity)
	}
	return Export(missing, options)
}

// exportArena exports deck in MTGA Arena format.
// Format: "4 Lightning Strike"
func exportArena(d *deck.Deck, options *ExportOptions) string {
	var sb strings.Builder

	if options.IncludeHeaders {
		sb.WriteString("Deck\n")
	}
	writeBoard(&sb, d.Cards, "%d %s\n")

	if len(d.Sideboard) > 0 {
		sb.WriteString("\n")
		if options.IncludeHeaders {
			sb.WriteString("Sideboard\n")
		}
		writeBoard(&sb, d.Sideboard, "%d %s\n")
	}

	return sb.String()
}

// exportPlainText exports deck in simple plain text format.
// Format: "4x Card Name"
func exportPlainText(d *deck.Deck, options *ExportOptions) string {
	var sb strings.Builder

	// Deck name as comment
	if options.IncludeHeaders {
		fmt.Fprintf(&sb, "// %s\n", d.Name)
		if d.Format != "" {
			fmt.Fprintf(&sb, "// Format: %s\n", d.Format)
		}
		sb.WriteString("\nMainboard:\n")
	}
	writeBoard(&sb, d.Cards, "%dx %s\n")

	if len(d.Sideboard) > 0 {
		sb.WriteString("\n")
		if options.IncludeHeaders {
			sb.WriteString("Sideboard:\n")
		}
		writeBoard(&sb, d.Sideboard, "%dx %s\n")
	}

	return sb.String()
}

// exportMTGO exports deck in MTGO format. Sideboard lines carry an
// "SB:" prefix.
func exportMTGO(d *deck.Deck) string {
	var sb strings.Builder
	writeBoard(&sb, d.Cards, "%d %s\n")
	if len(d.Sideboard) > 0 {
		sb.WriteString("\n")
		writeBoard(&sb, d.Sideboard, "SB: %d %s\n")
	}
	return sb.String()
}

// exportMTGGoldfish exports deck in MTGGoldfish format.
func exportMTGGoldfish(d *deck.Deck) string {
	var sb strings.Builder
	writeBoard(&sb, d.Cards, "%d %s\n")
	if len(d.Sideboard) > 0 {
		sb.WriteString("\nSideboard\n")
		writeBoard(&sb, d.Sideboard, "%d %s\n")
	}
	return sb.String()
}

func writeBoard(sb *strings.Builder, cards deck.Multiset, line string) {
	for _, name := range cards.Names() {
		if qty := cards[name]; qty > 0 {
			fmt.Fprintf(sb, line, qty, name)
		}
	}
}

// sanitizeFilename removes invalid characters from filename.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "deck"
	}
	return result
}
