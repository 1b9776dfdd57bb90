package assumptions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoring_Evaluate(t *testing.T) {
	s := DefaultScoring()

	tests := []struct {
		name  string
		value float64
		r     Range
		want  Health
	}{
		{"inside", 22, Range{20, 23}, Healthy},
		{"on lower bound", 20, Range{20, 23}, Healthy},
		{"on upper bound", 23, Range{20, 23}, Healthy},
		{"slightly below", 17, Range{20, 23}, Warning},       // 15%
		{"tolerance edge below", 16, Range{20, 23}, Warning}, // exactly 20%
		{"far below", 15, Range{20, 23}, Critical},           // 25%
		{"slightly above", 24, Range{20, 23}, Warning},
		{"far above", 30, Range{18, 24}, Critical}, // 25%
		{"above zero ceiling", 1, Range{0, 0}, Critical},
		{"zero floor", 0, Range{0, 4}, Healthy},
		{"below with anchors proxy", 1, Range{2, 5}, Critical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Evaluate(tt.value, tt.r))
		})
	}
}

func TestScoring_FragilityIsMonotone(t *testing.T) {
	s := DefaultScoring()

	base := []Health{Healthy, Healthy, Healthy, Healthy}
	oneWarning := []Health{Warning, Healthy, Healthy, Healthy}
	oneCritical := []Health{Critical, Healthy, Healthy, Healthy}
	allCritical := []Health{Critical, Critical, Critical, Critical}

	assert.Zero(t, s.Fragility(base))
	assert.Less(t, s.Fragility(base), s.Fragility(oneWarning))
	assert.Less(t, s.Fragility(oneWarning), s.Fragility(oneCritical))
	assert.Equal(t, 1.0, s.Fragility(allCritical))
	assert.Zero(t, s.Fragility(nil))

	heavy := Scoring{Tolerance: 0.2, WarningWeight: 2, CriticalWeight: 3}
	assert.Equal(t, 1.0, heavy.Fragility(allCritical), "clamped to 1")
}

func TestScoring_Validate(t *testing.T) {
	assert.NoError(t, DefaultScoring().Validate())
	assert.Error(t, Scoring{Tolerance: 0.2, WarningWeight: 1, CriticalWeight: 0.5}.Validate())
	assert.Error(t, Scoring{Tolerance: -1, WarningWeight: 0.5, CriticalWeight: 1}.Validate())
}

func TestWorse(t *testing.T) {
	assert.Equal(t, Warning, Worse(Healthy, Warning))
	assert.Equal(t, Critical, Worse(Critical, Warning))
	assert.Equal(t, Healthy, Worse(Healthy, Healthy))
}

func TestValue_JSON(t *testing.T) {
	a := Assumption{
		Kind:          MustDrawCards,
		ObservedValue: Cards([]string{"Sheoldred, the Apocalypse"}),
		TypicalRange:  Range{2, 5},
	}
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"must_draw_cards"`)
	assert.Contains(t, string(data), `"observed_value":["Sheoldred, the Apocalypse"]`)
	assert.Contains(t, string(data), `"typical_range":[2,5]`)

	var decoded Assumption
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MustDrawCards, decoded.Kind)
	assert.True(t, decoded.ObservedValue.Equal(a.ObservedValue))

	var n Value
	require.NoError(t, json.Unmarshal([]byte("2.456"), &n))
	assert.False(t, n.IsList())
	assert.Equal(t, 2.46, n.Float())

	empty, err := json.Marshal(Cards(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("land_count")
	assert.True(t, ok)
	assert.Equal(t, LandCount, k)

	k, ok = ParseKind("must-draw cards")
	assert.True(t, ok)
	assert.Equal(t, MustDrawCards, k)

	_, ok = ParseKind("mana_screw")
	assert.False(t, ok)

	for _, kind := range Catalog {
		assert.NotEmpty(t, kind.Category(), kind.String())
		assert.NotEmpty(t, kind.Key(), kind.String())
	}
}

func TestDefaultProfiles(t *testing.T) {
	profiles := DefaultProfiles()
	assert.Equal(t, []string{"aggro", "combo", "control", "midrange"}, profiles.Archetypes())

	for _, name := range profiles.Archetypes() {
		for _, kind := range Catalog {
			_, ok := profiles[name][kind]
			assert.Equal(t, kind.ArchetypeDependent(), ok, "%s/%s", name, kind)
		}
	}

	assert.Equal(t, Range{25, 28}, profiles["control"][LandCount])
	assert.Equal(t, Range{6, 12}, profiles["control"][RemovalDensity])

	// Callers get their own copy.
	profiles["aggro"][LandCount] = Range{0, 0}
	assert.Equal(t, Range{20, 23}, DefaultProfiles()["aggro"][LandCount])
}

func TestParseProfiles_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown kind": "aggro:\n  mana_screw: [1, 2]\n",
		"fixed kind":   "aggro:\n  key_card_dependency: [1, 2]\n",
		"bad length":   "aggro:\n  land_count: [20]\n",
		"inverted":     "aggro:\n  land_count: [23, 20]\n",
		"not yaml map": "- aggro\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfiles([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfilesFile_Merges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	doc := "Aggro:\n  land_count: [18, 21]\ntempo:\n  average_mana_value: [1.8, 2.6]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	profiles, err := LoadProfilesFile(path)
	require.NoError(t, err)

	assert.Equal(t, Range{18, 21}, profiles["aggro"][LandCount])
	assert.Equal(t, Range{1.5, 2.3}, profiles["aggro"][AverageManaValue])
	assert.Equal(t, Range{1.8, 2.6}, profiles["tempo"][AverageManaValue])

	_, err = LoadProfilesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
