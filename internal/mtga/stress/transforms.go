package stress

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
)

// move is the stressed value a transform proposes for one assumption.
type move struct {
	value         assumptions.Value
	explanation   string
	anchorRemoved bool
	removed       string
}

type moves map[assumptions.Kind]move

// number records a numeric move, clamped at zero.
func (m moves) number(k assumptions.Kind, before, after float64, format string, args ...any) {
	if after < 0 {
		after = 0
	}
	v := assumptions.Number(after)
	m[k] = move{
		value:       v,
		explanation: fmt.Sprintf(format, args...) + fmt.Sprintf(" (%s to %s)", assumptions.Number(before), v),
	}
}

func (s *Simulator) transform(set *assumptions.AssumptionSet, sc Scenario) moves {
	out := moves{}
	value := func(k assumptions.Kind) (float64, bool) {
		a, ok := set.Find(k)
		if !ok {
			return 0, false
		}
		return a.ObservedValue.Float(), true
	}

	if sc.TargetsAll() {
		switch sc.StressType {
		case Underperform:
			s.underperformAll(set, sc, out, value)
		case Missing:
			s.missing(set, sc, s.missingTargets(set), out, value)
		case Delayed:
			s.delayedAll(sc, out, value)
		case HostileMeta:
			s.hostileAll(sc, out, value)
		}
		return out
	}

	fact, ok := set.Facts.Card(sc.Target)
	if !ok || fact.Quantity <= 0 {
		return out
	}

	i := sc.Intensity
	q := float64(fact.Quantity)
	switch sc.StressType {
	case Underperform:
		if v, ok := value(assumptions.KeyCardDependency); ok && fact.Playset() {
			out.number(assumptions.KeyCardDependency, v, v-i,
				"%s counts for less as a playset when it underperforms", sc.Target)
		}
		if anchors := set.Anchors(); slices.Contains(anchors, sc.Target) && q*(1-i) < 2 {
			kept := slices.DeleteFunc(slices.Clone(anchors), func(n string) bool { return n == sc.Target })
			out[assumptions.MustDrawCards] = move{
				value:       assumptions.Cards(kept),
				explanation: fmt.Sprintf("%s drops out of the must-draw set: fewer than 2 effective copies remain", sc.Target),
			}
		}
		if v, ok := value(assumptions.CardSelectionDensity); ok && fact.Selection {
			out.number(assumptions.CardSelectionDensity, v, v-q*i,
				"%s finds fewer cards than expected", sc.Target)
		}
	case Missing:
		s.missing(set, sc, []string{sc.Target}, out, value)
	case Delayed:
		if v, ok := value(assumptions.LandCount); ok && fact.Land {
			out.number(assumptions.LandCount, v, v-q*i,
				"Copies of %s arrive late, leaving fewer effective lands", sc.Target)
		}
		if fact.Early {
			if v, ok := value(assumptions.EarlyGameDensity); ok {
				out.number(assumptions.EarlyGameDensity, v, v-q*i,
					"%s is cast later than its mana value suggests", sc.Target)
			}
			if v, ok := value(assumptions.AverageManaValue); ok && set.Facts.NonlandCount > 0 {
				out.number(assumptions.AverageManaValue, v, v+q*i/float64(set.Facts.NonlandCount),
					"Casting %s late raises the effective curve", sc.Target)
			}
		}
	case HostileMeta:
		if v, ok := value(assumptions.RemovalDensity); ok && fact.Interaction {
			out.number(assumptions.RemovalDensity, v, v-q*i,
				"Opponents answer or blank %s more often", sc.Target)
		}
	}
	return out
}

func (s *Simulator) underperformAll(set *assumptions.AssumptionSet, sc Scenario, out moves, value func(assumptions.Kind) (float64, bool)) {
	i := sc.Intensity
	if v, ok := value(assumptions.KeyCardDependency); ok {
		out.number(assumptions.KeyCardDependency, v, v*(1-i),
			"With key cards underperforming, the effective number of playsets drops")
	}
	if v, ok := value(assumptions.CardSelectionDensity); ok {
		out.number(assumptions.CardSelectionDensity, v, v*(1-i),
			"Selection effects find less than expected")
	}
	anchors := set.Anchors()
	if drop := int(math.Round(float64(len(anchors)) * i)); drop > 0 {
		kept := anchors[:len(anchors)-drop]
		out[assumptions.MustDrawCards] = move{
			value:       assumptions.Cards(kept),
			explanation: fmt.Sprintf("The %d lowest-priority anchors stop pulling their weight: %s", drop, strings.Join(anchors[len(anchors)-drop:], ", ")),
		}
	}
}

// missingTargets returns every anchor and playset, anchors first.
func (s *Simulator) missingTargets(set *assumptions.AssumptionSet) []string {
	targets := set.Anchors()
	for _, name := range sortedFactNames(set) {
		fact := set.Facts.Cards[name]
		if fact.Playset() && !slices.Contains(targets, name) {
			targets = append(targets, name)
		}
	}
	return targets
}

func (s *Simulator) missing(set *assumptions.AssumptionSet, sc Scenario, targets []string, out moves, value func(assumptions.Kind) (float64, bool)) {
	perCard := int(math.Ceil(4*sc.Intensity - 1e-9))

	kept := set.Anchors()
	var brokenPlaysets, gone []string
	missingCopies := 0
	// Missing copies also leave every copy count they fed.
	lost := map[assumptions.Kind]int{}

	for _, name := range targets {
		fact, ok := set.Facts.Card(name)
		if !ok || fact.Quantity <= 0 {
			continue
		}
		missing := min(fact.Quantity, perCard)
		missingCopies += missing
		if fact.Playset() {
			brokenPlaysets = append(brokenPlaysets, name)
		}
		if missing == fact.Quantity && slices.Contains(kept, name) {
			kept = slices.DeleteFunc(kept, func(n string) bool { return n == name })
			gone = append(gone, name)
		}

		if fact.Land {
			lost[assumptions.LandCount] += missing
		}
		if fact.Early {
			lost[assumptions.EarlyGameDensity] += missing
		}
		if fact.TopEnd {
			lost[assumptions.TopEndDensity] += missing
		}
		if fact.Selection {
			lost[assumptions.CardSelectionDensity] += missing
		}
		if fact.Interaction {
			lost[assumptions.RemovalDensity] += missing
		}
	}

	if v, ok := value(assumptions.KeyCardDependency); ok && len(brokenPlaysets) > 0 {
		out.number(assumptions.KeyCardDependency, v, v-float64(len(brokenPlaysets)),
			"Missing copies break %d playset(s): %s", len(brokenPlaysets), strings.Join(brokenPlaysets, ", "))
	}
	if len(gone) > 0 {
		out[assumptions.MustDrawCards] = move{
			value:         assumptions.Cards(kept),
			explanation:   fmt.Sprintf("Removing %d copies eliminates %s from the must-draw set", missingCopies, strings.Join(gone, ", ")),
			anchorRemoved: true,
			removed:       strings.Join(gone, ", "),
		}
	}
	for _, k := range assumptions.Catalog {
		n := lost[k]
		if n == 0 {
			continue
		}
		if v, ok := value(k); ok {
			out.number(k, v, v-float64(n), "%d missing copies no longer count toward %s", n, k)
		}
	}
}

func (s *Simulator) delayedAll(sc Scenario, out moves, value func(assumptions.Kind) (float64, bool)) {
	i := sc.Intensity
	f := s.cfg.Factors
	if v, ok := value(assumptions.AverageManaValue); ok {
		out.number(assumptions.AverageManaValue, v, v*(1+f.DelayedManaValue*i),
			"Delayed development raises the effective mana value")
	}
	early, hasEarly := value(assumptions.EarlyGameDensity)
	if hasEarly {
		out.number(assumptions.EarlyGameDensity, early, early*(1-f.DelayedEarlyLoss*i),
			"Cheap plays arrive a turn late")
	}
	if v, ok := value(assumptions.TopEndDensity); ok && hasEarly {
		out.number(assumptions.TopEndDensity, v, v+early*f.DelayedTopEndShift*i,
			"Delayed early plays crowd the late game")
	}
	if v, ok := value(assumptions.LandCount); ok {
		out.number(assumptions.LandCount, v, v-v*f.DelayedLandLoss*i,
			"Mana problems reduce the effective land count")
	}
}

func (s *Simulator) hostileAll(sc Scenario, out moves, value func(assumptions.Kind) (float64, bool)) {
	i := sc.Intensity
	f := s.cfg.Factors
	removal, hasRemoval := value(assumptions.RemovalDensity)
	if hasRemoval {
		out.number(assumptions.RemovalDensity, removal, removal*(1-f.HostileRemovalLoss*i),
			"Opponents with more answers blunt the deck's own interaction")
	}
	if v, ok := value(assumptions.InteractionManaValue); ok && removal > 0 {
		out.number(assumptions.InteractionManaValue, v, v+f.HostileInteractionMV*i,
			"Answering a faster, more interactive field effectively costs more")
	}
}

func sortedFactNames(set *assumptions.AssumptionSet) []string {
	names := make([]string, 0, len(set.Facts.Cards))
	for name := range set.Facts.Cards {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
