// Package assumptions derives the heuristic assumptions a decklist relies
// on and scores how far each sits from archetype convention.
package assumptions

import (
	"sort"

	"github.com/ramonehamilton/forgebreaker/internal/archetype"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

var (
	drawKeywords    = []string{"draw a card", "draw two", "draw three", "scry", "look at the top", "surveil"}
	removalKeywords = []string{"destroy target", "exile target", "damage to any", "damage to target", "deals damage", "-x/-x"}
	counterKeywords = []string{"counter target", "counter that"}
)

const (
	// DefaultMustDrawLimit caps the Must-Draw anchor list.
	DefaultMustDrawLimit = 5

	anchorMinCopies = 3
	playsetCopies   = 4
	earlyMaxMV      = 2
	topEndMinMV     = 5
	referenceSize   = 60
)

// CardDatabase resolves card facts by name. *carddb.Snapshot implements it.
type CardDatabase interface {
	Lookup(name string) (*carddb.Card, bool)
}

// Assumption is one heuristic claim about what the deck needs.
type Assumption struct {
	Kind          Kind     `json:"kind"`
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Description   string   `json:"description"`
	ObservedValue Value    `json:"observed_value"`
	TypicalRange  Range    `json:"typical_range"`
	Health        Health   `json:"health"`
	Explanation   string   `json:"explanation"`
	Adjustable    bool     `json:"adjustable"`
	// HasConvention is false when no typical range applied and the
	// assumption was reported healthy by default.
	HasConvention bool `json:"has_convention"`
}

// CardFact is what stress transforms need to know about one card.
type CardFact struct {
	Quantity  int     `json:"quantity"`
	ManaValue float64 `json:"mana_value"`
	// Resolved is false when the card database did not know the card.
	Resolved     bool `json:"resolved"`
	Land         bool `json:"land"`
	Early        bool `json:"early"`
	TopEnd       bool `json:"top_end"`
	Selection    bool `json:"selection"`
	Interaction  bool `json:"interaction"`
	InstantSpeed bool `json:"instant_speed"`
}

// Playset reports whether the card counts toward Key Card Dependency.
func (f CardFact) Playset() bool {
	return !f.Land && f.Quantity >= playsetCopies
}

// DeckFacts records the per-card facts an AssumptionSet was derived from.
type DeckFacts struct {
	MainCount int `json:"main_count"`
	// NonlandCount counts resolved non-land copies, the denominator of
	// Average Mana Value.
	NonlandCount int                 `json:"nonland_count"`
	Cards        map[string]CardFact `json:"cards"`
	Unresolved   []string            `json:"unresolved,omitempty"`
}

// Card returns the facts for name.
func (f DeckFacts) Card(name string) (CardFact, bool) {
	c, ok := f.Cards[name]
	return c, ok
}

// AssumptionSet is the full derivation for one deck.
type AssumptionSet struct {
	DeckName             string           `json:"deck_name"`
	Archetype            string           `json:"archetype"`
	ArchetypeSource      archetype.Source `json:"archetype_source"`
	ColorIdentity        string           `json:"color_identity"`
	Assumptions          []Assumption     `json:"assumptions"`
	OverallFragility     float64          `json:"overall_fragility"`
	FragilityExplanation string           `json:"fragility_explanation"`
	Scoring              Scoring          `json:"scoring"`
	Facts                DeckFacts        `json:"facts"`
}

// Find returns the assumption of kind k.
func (s *AssumptionSet) Find(k Kind) (*Assumption, bool) {
	for i := range s.Assumptions {
		if s.Assumptions[i].Kind == k {
			return &s.Assumptions[i], true
		}
	}
	return nil, false
}

// Anchors returns the Must-Draw card names.
func (s *AssumptionSet) Anchors() []string {
	a, ok := s.Find(MustDrawCards)
	if !ok {
		return nil
	}
	return a.ObservedValue.Names()
}

// Healths returns the tier of every assumption in catalog order.
func (s *AssumptionSet) Healths() []Health {
	out := make([]Health, len(s.Assumptions))
	for i, a := range s.Assumptions {
		out[i] = a.Health
	}
	return out
}

// Config tunes the engine.
type Config struct {
	Scoring       Scoring
	MustDrawLimit int
	Profiles      Profiles
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Scoring:       DefaultScoring(),
		MustDrawLimit: DefaultMustDrawLimit,
		Profiles:      DefaultProfiles(),
	}
}

// Engine derives AssumptionSets. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine. Zero-valued fields take their defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Scoring == (Scoring{}) {
		cfg.Scoring = DefaultScoring()
	}
	if cfg.MustDrawLimit <= 0 {
		cfg.MustDrawLimit = DefaultMustDrawLimit
	}
	if cfg.Profiles == nil {
		cfg.Profiles = DefaultProfiles()
	}
	return &Engine{cfg: cfg}
}

// Scoring returns the scoring constants the engine derives with.
func (e *Engine) Scoring() Scoring {
	return e.cfg.Scoring
}

// Archetypes returns the archetypes the engine has convention profiles for.
func (e *Engine) Archetypes() []string {
	return e.cfg.Profiles.Archetypes()
}

// observations are the raw measurements behind the catalog.
type observations struct {
	totalMV         float64
	nonland         int
	early           int
	topEnd          int
	lands           int
	selection       int
	playsets        int
	interaction     int
	interactionMV   float64
	instantInteract int
	anchors         []string
}

// Derive evaluates the fixed catalog against the deck's main cards.
// It never fails: unknown archetypes, empty decks and unresolved cards
// fall back to documented defaults.
func (e *Engine) Derive(d *deck.Deck, cards CardDatabase) *AssumptionSet {
	main := deck.Multiset{}
	name, declared := "", ""
	if d != nil {
		main = d.Cards
		name, declared = d.Name, d.Archetype
	}

	facts, obs := e.observe(main, cards)

	var lookup archetype.CardLookup
	if cards != nil {
		lookup = cards
	}
	analysis := archetype.Analyze(main, lookup)
	resolution := archetype.Resolve(declared, name, analysis)
	profile, hasProfile := e.cfg.Profiles[string(resolution.Archetype)]

	scale := 1.0
	if facts.MainCount > 0 && facts.MainCount != referenceSize {
		scale = float64(facts.MainCount) / referenceSize
	}

	set := &AssumptionSet{
		DeckName:        name,
		Archetype:       string(resolution.Archetype),
		ArchetypeSource: resolution.Source,
		ColorIdentity:   analysis.ColorIdentity(),
		Scoring:         e.cfg.Scoring,
		Facts:           facts,
	}

	for _, kind := range Catalog {
		value := obs.value(kind)
		a := Assumption{
			Kind:          kind,
			Name:          kind.String(),
			Category:      kind.Category(),
			Description:   kind.Describe(value),
			ObservedValue: value,
			Adjustable:    kind.Adjustable(),
			Health:        Healthy,
		}

		var (
			r     Range
			found bool
		)
		if kind.ArchetypeDependent() {
			if hasProfile {
				r, found = profile[kind]
			}
		} else {
			r, found = kind.fixedRange()
		}
		if found && kind.Scaled() {
			r = r.Scale(scale)
		}
		a.TypicalRange = r

		switch {
		case !found:
			a.Explanation = noConventionNote(kind, set.Archetype)
		case facts.MainCount == 0:
			a.Explanation = "The deck has no main-deck cards, so there is nothing to compare against convention."
		case obs.nonland == 0 && needsNonland(kind):
			a.Explanation = "The deck has no non-land cards the card database recognizes, so this measure has no basis."
		case obs.interaction == 0 && needsInteraction(kind):
			a.Explanation = "The deck has no recognized removal or interaction, so this measure has no basis."
		default:
			a.HasConvention = true
			a.Health = e.cfg.Scoring.Evaluate(value.Float(), r)
			a.Explanation = explain(kind, value, r, a.Health, set.Archetype)
		}

		set.Assumptions = append(set.Assumptions, a)
	}

	healths := set.Healths()
	set.OverallFragility = e.cfg.Scoring.Fragility(healths)
	set.FragilityExplanation = e.cfg.Scoring.Explain(healths, set.Archetype, set.OverallFragility)
	return set
}

func (e *Engine) observe(main deck.Multiset, cards CardDatabase) (DeckFacts, observations) {
	facts := DeckFacts{
		MainCount: main.Total(),
		Cards:     make(map[string]CardFact, len(main)),
	}
	var obs observations

	type candidate struct {
		name string
		qty  int
	}
	var anchors []candidate

	for _, name := range main.Names() {
		qty := main[name]
		fact := CardFact{Quantity: qty}

		var card *carddb.Card
		if cards != nil {
			card, _ = cards.Lookup(name)
		}

		basic := carddb.IsBasicLandName(name)
		switch {
		case card != nil:
			fact.Resolved = true
			fact.Land = card.IsLand()
			basic = basic || card.IsBasicLand()
		case basic:
			fact.Land = true
		default:
			facts.Unresolved = append(facts.Unresolved, name)
		}

		if fact.Land {
			obs.lands += qty
		}

		// Key-card measures need only copy counts, so unresolved
		// non-basic names still take part.
		if fact.Playset() {
			obs.playsets++
		}
		if !fact.Land && !basic && qty >= anchorMinCopies {
			anchors = append(anchors, candidate{name, qty})
		}

		if card != nil {
			fact.ManaValue = card.ManaValue
			fact.Selection = card.HasAnyText(drawKeywords...)
			fact.Interaction = card.HasAnyText(removalKeywords...) || card.HasAnyText(counterKeywords...)
			fact.InstantSpeed = card.IsInstantSpeed()

			if fact.Selection {
				obs.selection += qty
			}
			if !fact.Land {
				fact.Early = card.ManaValue <= earlyMaxMV
				fact.TopEnd = card.ManaValue >= topEndMinMV
				obs.nonland += qty
				obs.totalMV += card.ManaValue * float64(qty)
				if fact.Early {
					obs.early += qty
				}
				if fact.TopEnd {
					obs.topEnd += qty
				}
			}
			if fact.Interaction {
				obs.interaction += qty
				obs.interactionMV += card.ManaValue * float64(qty)
				if fact.InstantSpeed {
					obs.instantInteract += qty
				}
			}
		}

		facts.Cards[name] = fact
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		if anchors[i].qty != anchors[j].qty {
			return anchors[i].qty > anchors[j].qty
		}
		return anchors[i].name < anchors[j].name
	})
	limit := e.cfg.MustDrawLimit
	for i := 0; i < len(anchors) && i < limit; i++ {
		obs.anchors = append(obs.anchors, anchors[i].name)
	}

	facts.NonlandCount = obs.nonland
	return facts, obs
}

func (o observations) value(k Kind) Value {
	switch k {
	case AverageManaValue:
		if o.nonland == 0 {
			return Number(0)
		}
		return Number(o.totalMV / float64(o.nonland))
	case EarlyGameDensity:
		return Number(float64(o.early))
	case TopEndDensity:
		return Number(float64(o.topEnd))
	case LandCount:
		return Number(float64(o.lands))
	case CardSelectionDensity:
		return Number(float64(o.selection))
	case KeyCardDependency:
		return Number(float64(o.playsets))
	case MustDrawCards:
		if o.anchors == nil {
			return Cards([]string{})
		}
		return Cards(o.anchors)
	case RemovalDensity:
		return Number(float64(o.interaction))
	case InteractionManaValue:
		if o.interaction == 0 {
			return Number(0)
		}
		return Number(o.interactionMV / float64(o.interaction))
	case InstantSpeedInteraction:
		if o.interaction == 0 {
			return Number(0)
		}
		return Number(float64(o.instantInteract) / float64(o.interaction))
	}
	return Number(0)
}

func needsNonland(k Kind) bool {
	switch k {
	case AverageManaValue, EarlyGameDensity, TopEndDensity, CardSelectionDensity, RemovalDensity:
		return true
	}
	return false
}

func needsInteraction(k Kind) bool {
	switch k {
	case InteractionManaValue, InstantSpeedInteraction:
		return true
	}
	return false
}
