package stress

import (
	"fmt"
	"math"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
)

func summarize(sc Scenario, r *Result) string {
	from := percent(r.OriginalFragility)
	to := percent(r.StressedFragility)

	switch {
	case len(r.AffectedAssumptions) == 0:
		if !sc.TargetsAll() {
			return fmt.Sprintf("Exploring %s changed nothing: the deck does not lean on %s in any measured way.",
				sc.Describe(), sc.Target)
		}
		return fmt.Sprintf("Exploring %s changed nothing the engine measures.", sc.Describe())
	case r.AssumptionViolated:
		return fmt.Sprintf("Exploring %s moved fragility from %s to %s and broke the belief behind %q. "+
			"This is a heuristic exploration of what the deck takes for granted, not a forecast.",
			sc.Describe(), from, to, r.ViolatedBelief)
	case math.Abs(r.FragilityChange) < 0.05:
		return fmt.Sprintf("Exploring %s had minimal impact: fragility stayed near %s.", sc.Describe(), from)
	default:
		return fmt.Sprintf("Exploring %s moved fragility from %s to %s. "+
			"The deck shows some sensitivity to this scenario.", sc.Describe(), from, to)
	}
}

func considerations(set *assumptions.AssumptionSet, sc Scenario, r *Result) []string {
	var out []string
	switch sc.StressType {
	case Underperform:
		if sc.Intensity > 0.5 {
			out = append(out, "Consider redundancy: backup cards that fill similar roles.")
		}
		if a, ok := set.Find(assumptions.CardSelectionDensity); ok && a.Health != assumptions.Healthy {
			out = append(out, "More card draw or selection helps find key pieces more consistently.")
		}
		out = append(out, "Explore which key cards the deck can function without, and which it cannot.")
	case Missing:
		switch {
		case r.AssumptionViolated && !sc.TargetsAll():
			out = append(out,
				fmt.Sprintf("%s looks central to the plan. Consider backup options or ways to protect it.", sc.Target),
				"Check whether the format offers functional replacements.")
		case r.AssumptionViolated:
			out = append(out, "Several anchors carry the plan at once. Consider which of them have functional replacements.")
		case !sc.TargetsAll():
			out = append(out, fmt.Sprintf("Losing %s has limited measured impact; the slot may be flexible.", sc.Target))
		default:
			out = append(out, "Missing copies have limited measured impact on this list.")
		}
	case Delayed:
		if a, ok := set.Find(assumptions.LandCount); ok && a.HasConvention && a.ObservedValue.Float() < a.TypicalRange.Lo() {
			out = append(out, "Consider more lands to reduce how often the deck stumbles on mana.")
		}
		out = append(out,
			"Look at the mana curve: can the average mana value come down?",
			"Consider mulliganing land-light hands more aggressively.")
	case HostileMeta:
		if a, ok := set.Find(assumptions.RemovalDensity); ok && a.ObservedValue.Float() < 6 {
			out = append(out, "Consider more interaction in the main deck or sideboard.")
		}
		out = append(out,
			"Consider threats with built-in protection such as hexproof or ward.",
			"A faster game plan can get under interaction-heavy decks.")
	}
	return out
}

func percent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}
