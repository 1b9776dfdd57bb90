package carddb

import (
	"sort"
	"strings"
	"time"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/cards/fuzzy"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// Snapshot is an immutable, fully loaded card database keyed by name.
// It is safe for concurrent use. A nil *Snapshot behaves as empty.
type Snapshot struct {
	cards    map[string]*Card
	names    []string // sorted index keys
	loadedAt time.Time
	source   string
}

// NewSnapshot indexes cards by name. When a name appears more than once
// the later entry wins, so bulk files ordered oldest-first resolve to
// the most recent printing. Double-faced cards are also indexed by
// their front-face name.
func NewSnapshot(cards []*Card, source string) *Snapshot {
	s := &Snapshot{
		cards:    make(map[string]*Card, len(cards)),
		loadedAt: time.Now(),
		source:   source,
	}
	for _, c := range cards {
		if c == nil || c.Name == "" {
			continue
		}
		s.cards[c.Name] = c
		if front, _, ok := strings.Cut(c.Name, " // "); ok {
			s.cards[front] = c
		}
	}
	s.names = make([]string, 0, len(s.cards))
	for name := range s.cards {
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

// Lookup returns the card with the given name.
func (s *Snapshot) Lookup(name string) (*Card, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.cards[name]
	return c, ok
}

// Rarity implements deck.RarityLookup. Cards printed only at special
// rarities report false and fall back to the default rarity.
func (s *Snapshot) Rarity(name string) (deck.Rarity, bool) {
	c, ok := s.Lookup(name)
	if !ok {
		return "", false
	}
	return deck.ParseRarity(string(c.Rarity))
}

// Len returns the number of indexed names.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cards)
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

// Source describes where the snapshot was loaded from.
func (s *Snapshot) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// Suggest returns up to limit indexed names that resemble name, best
// first.
func (s *Snapshot) Suggest(name string, limit int) []fuzzy.Match {
	if s == nil || strings.TrimSpace(name) == "" {
		return nil
	}
	opts := fuzzy.DefaultSearchOptions()
	if limit > 0 {
		opts.MaxResults = limit
	}
	return fuzzy.Search(strings.TrimSpace(name), s.names, opts)
}
