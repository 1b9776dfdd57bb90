package assumptions

import (
	"fmt"
	"strings"
)

// Category groups assumption kinds.
type Category string

const (
	CategoryManaCurve         Category = "mana_curve"
	CategoryDrawConsistency   Category = "draw_consistency"
	CategoryKeyCards          Category = "key_cards"
	CategoryInteractionTiming Category = "interaction_timing"
)

// Kind identifies one entry of the fixed assumption catalog. The
// declaration order is the catalog order and breaks ties everywhere.
type Kind int

const (
	AverageManaValue Kind = iota
	EarlyGameDensity
	TopEndDensity
	LandCount
	CardSelectionDensity
	KeyCardDependency
	MustDrawCards
	RemovalDensity
	InteractionManaValue
	InstantSpeedInteraction
)

// Catalog lists every kind in catalog order.
var Catalog = []Kind{
	AverageManaValue,
	EarlyGameDensity,
	TopEndDensity,
	LandCount,
	CardSelectionDensity,
	KeyCardDependency,
	MustDrawCards,
	RemovalDensity,
	InteractionManaValue,
	InstantSpeedInteraction,
}

// String returns the display name.
func (k Kind) String() string {
	switch k {
	case AverageManaValue:
		return "Average Mana Value"
	case EarlyGameDensity:
		return "Early Game Density"
	case TopEndDensity:
		return "Top-End Density"
	case LandCount:
		return "Land Count"
	case CardSelectionDensity:
		return "Card Selection Density"
	case KeyCardDependency:
		return "Key Card Dependency"
	case MustDrawCards:
		return "Must-Draw Cards"
	case RemovalDensity:
		return "Removal Density"
	case InteractionManaValue:
		return "Interaction Mana Value"
	case InstantSpeedInteraction:
		return "Instant-Speed Interaction"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Key returns the snake_case identifier used in JSON and profile files.
func (k Kind) Key() string {
	switch k {
	case AverageManaValue:
		return "average_mana_value"
	case EarlyGameDensity:
		return "early_game_density"
	case TopEndDensity:
		return "top_end_density"
	case LandCount:
		return "land_count"
	case CardSelectionDensity:
		return "card_selection_density"
	case KeyCardDependency:
		return "key_card_dependency"
	case MustDrawCards:
		return "must_draw_cards"
	case RemovalDensity:
		return "removal_density"
	case InteractionManaValue:
		return "interaction_mana_value"
	case InstantSpeedInteraction:
		return "instant_speed_interaction"
	}
	return ""
}

// ParseKind accepts either the key or the display name.
func ParseKind(s string) (Kind, bool) {
	s = strings.TrimSpace(s)
	for _, k := range Catalog {
		if s == k.Key() || strings.EqualFold(s, k.String()) {
			return k, true
		}
	}
	return 0, false
}

// Category returns the group the kind belongs to.
func (k Kind) Category() Category {
	switch k {
	case AverageManaValue, EarlyGameDensity, TopEndDensity:
		return CategoryManaCurve
	case LandCount, CardSelectionDensity:
		return CategoryDrawConsistency
	case KeyCardDependency, MustDrawCards:
		return CategoryKeyCards
	case RemovalDensity, InteractionManaValue, InstantSpeedInteraction:
		return CategoryInteractionTiming
	}
	return ""
}

// Adjustable reports whether stress scenarios may perturb the kind.
func (k Kind) Adjustable() bool {
	switch k {
	case InstantSpeedInteraction:
		return false
	case AverageManaValue, EarlyGameDensity, TopEndDensity, LandCount,
		CardSelectionDensity, KeyCardDependency, MustDrawCards,
		RemovalDensity, InteractionManaValue:
		return true
	}
	return false
}

// ArchetypeDependent reports whether the typical range comes from an
// archetype profile rather than a fixed convention.
func (k Kind) ArchetypeDependent() bool {
	switch k {
	case KeyCardDependency, MustDrawCards:
		return false
	case AverageManaValue, EarlyGameDensity, TopEndDensity, LandCount,
		CardSelectionDensity, RemovalDensity, InteractionManaValue,
		InstantSpeedInteraction:
		return true
	}
	return false
}

// Scaled reports whether the kind counts copies, so its range scales
// with deck size.
func (k Kind) Scaled() bool {
	switch k {
	case EarlyGameDensity, TopEndDensity, LandCount, CardSelectionDensity, RemovalDensity:
		return true
	case AverageManaValue, KeyCardDependency, MustDrawCards,
		InteractionManaValue, InstantSpeedInteraction:
		return false
	}
	return false
}

// fixedRange returns the convention for kinds that do not depend on
// the archetype.
func (k Kind) fixedRange() (Range, bool) {
	switch k {
	case KeyCardDependency:
		return Range{4, 10}, true
	case MustDrawCards:
		return Range{2, 5}, true
	}
	return Range{}, false
}

// Describe states the observed value in a sentence.
func (k Kind) Describe(v Value) string {
	n := formatNumber(v.Float())
	switch k {
	case AverageManaValue:
		return fmt.Sprintf("This deck's average mana value is %s", n)
	case EarlyGameDensity:
		return fmt.Sprintf("This deck has %s non-land cards at 2 mana or less", n)
	case TopEndDensity:
		return fmt.Sprintf("This deck has %s non-land cards at 5 mana or more", n)
	case LandCount:
		return fmt.Sprintf("This deck runs %s lands", n)
	case CardSelectionDensity:
		return fmt.Sprintf("This deck has %s cards with draw or selection effects", n)
	case KeyCardDependency:
		return fmt.Sprintf("This deck has %s non-land cards run as 4 copies", n)
	case MustDrawCards:
		if len(v.Names()) == 0 {
			return "This deck has no card it runs in multiples that stands out as an anchor"
		}
		return fmt.Sprintf("The cards this deck most needs to draw: %s", strings.Join(v.Names(), ", "))
	case RemovalDensity:
		return fmt.Sprintf("This deck has %s removal or interaction spells", n)
	case InteractionManaValue:
		return fmt.Sprintf("This deck's interaction costs %s mana on average", n)
	case InstantSpeedInteraction:
		return fmt.Sprintf("%s%% of this deck's interaction is instant speed", formatNumber(v.Float()*100))
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	key := k.Key()
	if key == "" {
		return nil, fmt.Errorf("unknown assumption kind %d", int(k))
	}
	return []byte(key), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown assumption kind %q", string(text))
	}
	*k = parsed
	return nil
}
