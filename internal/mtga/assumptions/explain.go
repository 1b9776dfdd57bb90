package assumptions

import "fmt"

func explain(k Kind, v Value, r Range, h Health, archetypeName string) string {
	observed := formatNumber(v.Float())
	if k == InstantSpeedInteraction {
		observed = formatNumber(v.Float()*100) + "%"
	}

	typical := fmt.Sprintf("Typical %s builds land in %s; this deck has %s.", archetypeName, r, observed)
	if k == KeyCardDependency || k == MustDrawCards {
		typical = fmt.Sprintf("Lists commonly carry %s; this deck has %s.", r, observed)
	}

	if h == Healthy {
		return typical + " " + withinNote(k)
	}

	note := aboveNote(k)
	if v.Float() < r.Lo() {
		note = belowNote(k)
	}
	return typical + " " + note
}

func withinNote(k Kind) string {
	switch k {
	case MustDrawCards:
		return "If any of these underperform or are missing, the deck's plan may suffer noticeably."
	case KeyCardDependency:
		return "Cards run as 4 copies are usually the ones the strategy is built around."
	default:
		return "This is within the usual range."
	}
}

func belowNote(k Kind) string {
	switch k {
	case AverageManaValue:
		return "The deck may run out of gas quickly without card advantage."
	case EarlyGameDensity:
		return "Fewer cheap plays than usual suggests a slower start."
	case TopEndDensity:
		return "The deck has fewer late-game threats than usual."
	case LandCount:
		return "The deck assumes it will function on fewer lands, which raises the risk of mana screw."
	case CardSelectionDensity:
		return "The deck assumes its opening hand and topdecks will be enough."
	case KeyCardDependency:
		return "Few playsets suggests a flexible list that leans on no single card."
	case MustDrawCards:
		return "Few cards are run in multiples, so the deck has little redundancy around its anchors."
	case RemovalDensity:
		return "Fewer answers than usual means relying on racing opponents."
	case InteractionManaValue:
		return "The interaction is cheaper than usual."
	case InstantSpeedInteraction:
		return "Most interaction is sorcery speed, so answers wait for the deck's own turn."
	}
	return ""
}

func aboveNote(k Kind) string {
	switch k {
	case AverageManaValue:
		return "The deck may struggle against early pressure."
	case EarlyGameDensity:
		return "A very low curve may run out of resources in longer games."
	case TopEndDensity:
		return "A heavy top end assumes games last long enough to cast it."
	case LandCount:
		return "This reduces mana screw but may lead to flooding in longer games."
	case CardSelectionDensity:
		return "Strong card selection, possibly at the cost of early tempo."
	case KeyCardDependency:
		return "Many playsets means the deck depends on drawing specific cards."
	case MustDrawCards:
		return "Many anchors means several cards each carry part of the plan."
	case RemovalDensity:
		return "Heavy interaction assumes opponents present enough targets."
	case InteractionManaValue:
		return "Expensive interaction may come online too late against fast starts."
	case InstantSpeedInteraction:
		return "The interaction is almost entirely instant speed."
	}
	return ""
}

func noConventionNote(k Kind, archetypeName string) string {
	return fmt.Sprintf("No typical %s convention exists for %q decks, so this is reported healthy without comparison.",
		k, archetypeName)
}
