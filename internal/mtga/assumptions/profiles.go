package assumptions

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var defaultProfilesYAML []byte

// Profile maps archetype-dependent kinds to their typical range.
type Profile map[Kind]Range

// Profiles maps lowercase archetype names to profiles.
type Profiles map[string]Profile

// Clone returns a deep copy.
func (p Profiles) Clone() Profiles {
	out := make(Profiles, len(p))
	for name, profile := range p {
		cp := make(Profile, len(profile))
		for k, r := range profile {
			cp[k] = r
		}
		out[name] = cp
	}
	return out
}

// Archetypes returns the profile names in sorted order.
func (p Profiles) Archetypes() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a copy of p with every range in override applied on top.
func (p Profiles) Merge(override Profiles) Profiles {
	out := p.Clone()
	for name, profile := range override {
		if out[name] == nil {
			out[name] = make(Profile, len(profile))
		}
		for k, r := range profile {
			out[name][k] = r
		}
	}
	return out
}

var loadDefaultProfiles = sync.OnceValues(func() (Profiles, error) {
	return ParseProfiles(defaultProfilesYAML)
})

// DefaultProfiles returns the built-in archetype profiles.
func DefaultProfiles() Profiles {
	p, err := loadDefaultProfiles()
	if err != nil {
		panic(fmt.Sprintf("assumptions: built-in profiles are invalid: %v", err))
	}
	return p.Clone()
}

// ParseProfiles decodes a YAML document of the form
//
//	aggro:
//	  average_mana_value: [1.5, 2.3]
//
// Archetype names are lowercased. Only archetype-dependent kinds may
// appear; a profile may omit kinds, which then have no convention.
func ParseProfiles(data []byte) (Profiles, error) {
	var raw map[string]map[string][]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse archetype profiles: %w", err)
	}

	profiles := make(Profiles, len(raw))
	for name, entries := range raw {
		archetypeName := strings.ToLower(strings.TrimSpace(name))
		if archetypeName == "" {
			return nil, fmt.Errorf("archetype profile with empty name")
		}

		profile := make(Profile, len(entries))
		for key, bounds := range entries {
			kind, ok := ParseKind(key)
			if !ok {
				return nil, fmt.Errorf("profile %s: unknown assumption %q", archetypeName, key)
			}
			if !kind.ArchetypeDependent() {
				return nil, fmt.Errorf("profile %s: %s has a fixed range", archetypeName, key)
			}
			if len(bounds) != 2 {
				return nil, fmt.Errorf("profile %s: %s needs [lo, hi], got %v", archetypeName, key, bounds)
			}
			if bounds[0] < 0 || bounds[0] > bounds[1] {
				return nil, fmt.Errorf("profile %s: %s has invalid range %v", archetypeName, key, bounds)
			}
			profile[kind] = Range{bounds[0], bounds[1]}
		}
		profiles[archetypeName] = profile
	}
	return profiles, nil
}

// LoadProfilesFile reads profiles from path and merges them over the
// built-in ones.
func LoadProfilesFile(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archetype profiles: %w", err)
	}
	override, err := ParseProfiles(data)
	if err != nil {
		return nil, err
	}
	return DefaultProfiles().Merge(override), nil
}
