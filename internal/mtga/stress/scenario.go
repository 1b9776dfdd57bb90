// Package stress perturbs derived deck assumptions under hypothetical
// scenarios and searches for the assumption that breaks first.
package stress

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidScenario is returned for an unknown stress type or an
// intensity outside (0, 1].
var ErrInvalidScenario = errors.New("invalid stress scenario")

// StressType names a kind of hypothetical stress.
type StressType string

const (
	Underperform StressType = "underperform"
	Missing      StressType = "missing"
	Delayed      StressType = "delayed"
	HostileMeta  StressType = "hostile_meta"
)

// StressTypes lists every stress type in catalog order.
var StressTypes = []StressType{Underperform, Missing, Delayed, HostileMeta}

// ParseStressType normalizes s and reports whether it is known.
func ParseStressType(s string) (StressType, bool) {
	st := StressType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range StressTypes {
		if st == known {
			return st, true
		}
	}
	return st, false
}

const (
	// TargetAll targets every card the stress type can act on.
	TargetAll = "all"

	// DefaultIntensity applies when a transport omits the intensity.
	DefaultIntensity = 0.5
)

// Scenario is one hypothetical stress.
type Scenario struct {
	StressType StressType `json:"stress_type"`
	Target     string     `json:"target"`
	Intensity  float64    `json:"intensity"`
}

// Validate reports ErrInvalidScenario for an unknown type or an
// intensity outside (0, 1]. It never clamps.
func (s Scenario) Validate() error {
	if _, ok := ParseStressType(string(s.StressType)); !ok {
		return fmt.Errorf("%w: unknown stress type %q", ErrInvalidScenario, s.StressType)
	}
	if !(s.Intensity > 0 && s.Intensity <= 1) {
		return fmt.Errorf("%w: intensity %v outside (0, 1]", ErrInvalidScenario, s.Intensity)
	}
	return nil
}

// TargetsAll reports whether the scenario targets every card.
func (s Scenario) TargetsAll() bool {
	return s.Target == "" || strings.EqualFold(s.Target, TargetAll)
}

// Describe returns a short human description.
func (s Scenario) Describe() string {
	pct := fmt.Sprintf("%.0f%%", s.Intensity*100)
	if s.TargetsAll() {
		switch s.StressType {
		case Underperform:
			return fmt.Sprintf("key cards underperforming at %s intensity", pct)
		case Missing:
			return fmt.Sprintf("copies of key cards missing at %s intensity", pct)
		case Delayed:
			return fmt.Sprintf("mana development delayed at %s intensity", pct)
		case HostileMeta:
			return fmt.Sprintf("a field heavy with answers at %s intensity", pct)
		}
	}
	switch s.StressType {
	case Underperform:
		return fmt.Sprintf("%s underperforming at %s intensity", s.Target, pct)
	case Missing:
		return fmt.Sprintf("copies of %s missing at %s intensity", s.Target, pct)
	case Delayed:
		return fmt.Sprintf("%s arriving late at %s intensity", s.Target, pct)
	case HostileMeta:
		return fmt.Sprintf("%s facing answers at %s intensity", s.Target, pct)
	}
	return string(s.StressType)
}
