package assumptions

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
)

// Value is an observed or stressed assumption value: either a number or
// a list of card names. Numbers are kept rounded to two decimals.
type Value struct {
	number float64
	names  []string
	list   bool
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{number: round2(f)}
}

// Cards returns a list value. The slice is copied.
func Cards(names []string) Value {
	return Value{names: slices.Clone(names), list: true}
}

// IsList reports whether v holds card names.
func (v Value) IsList() bool {
	return v.list
}

// Float returns the number, or the length of a list. Lists are compared
// against their typical range by count.
func (v Value) Float() float64 {
	if v.list {
		return float64(len(v.names))
	}
	return v.number
}

// Names returns a copy of the card names of a list value.
func (v Value) Names() []string {
	return slices.Clone(v.names)
}

// Contains reports whether a list value holds name.
func (v Value) Contains(name string) bool {
	return slices.Contains(v.names, name)
}

// Equal reports whether two values are the same.
func (v Value) Equal(o Value) bool {
	if v.list != o.list {
		return false
	}
	if v.list {
		return slices.Equal(v.names, o.names)
	}
	return v.number == o.number
}

func (v Value) String() string {
	if v.list {
		b, _ := json.Marshal(v.names)
		return string(b)
	}
	return formatNumber(v.number)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.list {
		if v.names == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.names)
	}
	return json.Marshal(v.number)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return err
		}
		*v = Cards(names)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Number(f)
	return nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(round2(f), 'f', -1, 64)
}
