package meta

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/archetype"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// DeckSummary is one archetype entry of a metagame page.
type DeckSummary struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// MetaShare is a fraction in [0, 1].
	MetaShare float64 `json:"meta_share"`
	Format    string  `json:"format"`
}

var (
	// <a href="/archetype/mono-red-aggro#paper">Mono Red Aggro</a> ... 12.5%
	summaryPattern = regexp.MustCompile(`(?s)href="(/archetype/[^"#]+)[^"]*"[^>]*>\s*([^<]+?)\s*</a>.*?(\d+\.?\d*)%`)

	// <td class="deck-col-qty">4</td> ... <a data-card-id="123">Card Name</a>
	cardPattern = regexp.MustCompile(`(?s)deck-col-qty">\s*(\d+)\s*</td>\s*.*?data-card-id="[^"]*"[^>]*>\s*([^<]+?)\s*</a>`)
)

// ParseMetagamePage parses deck summaries from a metagame page. Relative
// archetype links are resolved against baseURL.
func ParseMetagamePage(page, format, baseURL string) []*DeckSummary {
	summaries := make([]*DeckSummary, 0)
	seen := make(map[string]bool)

	for _, m := range summaryPattern.FindAllStringSubmatch(page, -1) {
		name := html.UnescapeString(strings.TrimSpace(m[2]))
		if name == "" || seen[name] {
			continue
		}
		share, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		seen[name] = true
		summaries = append(summaries, &DeckSummary{
			Name:      name,
			URL:       baseURL + m[1],
			MetaShare: share / 100,
			Format:    format,
		})
	}
	return summaries
}

// ParseDeckPage parses the full list from a deck page. Cards after the
// first "Sideboard" marker go to the sideboard. The archetype is
// inferred from the deck name and left empty when no keyword matches.
func ParseDeckPage(page string, summary *DeckSummary) *deck.Deck {
	main, side := page, ""
	if i := strings.Index(page, "Sideboard"); i >= 0 {
		main, side = page[:i], page[i:]
	}

	share := summary.MetaShare
	d := &deck.Deck{
		Name:      summary.Name,
		Format:    summary.Format,
		Cards:     parseCards(main),
		Sideboard: parseCards(side),
		MetaShare: &share,
		SourceURL: summary.URL,
	}
	if a, ok := archetype.FromName(summary.Name); ok {
		d.Archetype = string(a)
	}
	return d
}

func parseCards(section string) deck.Multiset {
	cards := deck.Multiset{}
	for _, m := range cardPattern.FindAllStringSubmatch(section, -1) {
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		cards.Add(html.UnescapeString(strings.TrimSpace(m[2])), qty)
	}
	return cards
}
