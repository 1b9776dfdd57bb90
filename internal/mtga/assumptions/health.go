package assumptions

import (
	"fmt"
	"math"
	"strings"
)

// Health is the qualitative tier of an assumption.
type Health string

const (
	Healthy  Health = "healthy"
	Warning  Health = "warning"
	Critical Health = "critical"
)

// Rank orders tiers from healthy (0) to critical (2).
func (h Health) Rank() int {
	switch h {
	case Warning:
		return 1
	case Critical:
		return 2
	default:
		return 0
	}
}

// Worse returns the less healthy of a and b.
func Worse(a, b Health) Health {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Range is a typical [lo, hi] range, inclusive.
type Range [2]float64

// Lo returns the lower bound.
func (r Range) Lo() float64 { return r[0] }

// Hi returns the upper bound.
func (r Range) Hi() float64 { return r[1] }

// Contains reports whether v lies in the range.
func (r Range) Contains(v float64) bool {
	return v >= r[0]-epsilon && v <= r[1]+epsilon
}

// Scale multiplies both bounds by f.
func (r Range) Scale(f float64) Range {
	return Range{round2(r[0] * f), round2(r[1] * f)}
}

func (r Range) String() string {
	return formatNumber(r[0]) + "-" + formatNumber(r[1])
}

const epsilon = 1e-9

// Scoring holds the constants of the health rule and the fragility
// aggregate. It travels with every AssumptionSet so stress results are
// computed with the same rule the set was derived with.
type Scoring struct {
	// Tolerance is the relative deviation beyond the nearer bound that
	// still counts as a warning.
	Tolerance      float64 `json:"tolerance_band"`
	WarningWeight  float64 `json:"warning_weight"`
	CriticalWeight float64 `json:"critical_weight"`
}

// DefaultScoring returns the default health and fragility constants.
func DefaultScoring() Scoring {
	return Scoring{
		Tolerance:      0.20,
		WarningWeight:  0.5,
		CriticalWeight: 1.0,
	}
}

// Validate checks the constants keep fragility monotone.
func (s Scoring) Validate() error {
	if s.Tolerance < 0 {
		return fmt.Errorf("tolerance band must be non-negative, got %v", s.Tolerance)
	}
	if s.WarningWeight < 0 {
		return fmt.Errorf("warning weight must be non-negative, got %v", s.WarningWeight)
	}
	if s.CriticalWeight <= s.WarningWeight {
		return fmt.Errorf("critical weight (%v) must exceed warning weight (%v)", s.CriticalWeight, s.WarningWeight)
	}
	return nil
}

// Evaluate applies the three-way health rule: inside the range is
// healthy, a relative deviation beyond the nearer bound of at most
// Tolerance is a warning, anything further is critical. A value above
// a zero upper bound is always critical.
func (s Scoring) Evaluate(v float64, r Range) Health {
	if r.Contains(v) {
		return Healthy
	}

	var deviation float64
	if v < r.Lo() {
		if r.Lo() > 0 {
			deviation = (r.Lo() - v) / r.Lo()
		} else {
			deviation = r.Lo() - v
		}
	} else {
		if r.Hi() <= 0 {
			return Critical
		}
		deviation = (v - r.Hi()) / r.Hi()
	}

	if deviation <= s.Tolerance+epsilon {
		return Warning
	}
	return Critical
}

// Fragility aggregates tiers into [0, 1].
func (s Scoring) Fragility(healths []Health) float64 {
	if len(healths) == 0 {
		return 0
	}
	warnings, criticals := countTiers(healths)
	f := (float64(warnings)*s.WarningWeight + float64(criticals)*s.CriticalWeight) / float64(len(healths))
	return clamp01(round4(f))
}

// Explain states the fragility, the weights that produced it and a
// reading of the result.
func (s Scoring) Explain(healths []Health, archetypeName string, fragility float64) string {
	if len(healths) == 0 {
		return "No assumptions were analyzed."
	}
	warnings, criticals := countTiers(healths)

	subject := "This deck"
	if archetypeName != "" {
		subject = fmt.Sprintf("This %s deck", archetypeName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fragility %s = (%d warning(s) x %s + %d critical(s) x %s) / %d assumptions. ",
		formatNumber(fragility), warnings, formatNumber(s.WarningWeight),
		criticals, formatNumber(s.CriticalWeight), len(healths))

	switch {
	case fragility < 0.2:
		fmt.Fprintf(&b, "%s sits close to typical builds on most measures.", subject)
	case fragility < 0.5:
		fmt.Fprintf(&b, "%s has some measures outside typical ranges.", subject)
	default:
		fmt.Fprintf(&b, "%s deviates from typical builds on many measures; stress testing shows which ones matter.", subject)
	}
	b.WriteString(" These are heuristic comparisons against convention, not predictions of results.")
	return b.String()
}

func countTiers(healths []Health) (warnings, criticals int) {
	for _, h := range healths {
		switch h {
		case Warning:
			warnings++
		case Critical:
			criticals++
		}
	}
	return warnings, criticals
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
