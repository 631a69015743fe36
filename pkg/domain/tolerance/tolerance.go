// Package tolerance models acceptance bands applied to measured quantities and the
// named profiles that bundle them.
package tolerance

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the shape of an acceptance band.
type Kind string

const (
	KindPercent  Kind = "percent"
	KindAbsolute Kind = "absolute"
)

var (
	// ErrUnknownKind indicates a tolerance type other than percent or absolute.
	ErrUnknownKind = errors.New("unknown tolerance type")

	// ErrInvalidValue indicates a negative, NaN or infinite band.
	ErrInvalidValue = errors.New("invalid tolerance value")

	// ErrEmptyProfileName indicates a profile without a name.
	ErrEmptyProfileName = errors.New("profile name is required")
)

// Tolerance is a single acceptance band. Unit is only meaningful for absolute bands.
type Tolerance struct {
	Type  Kind    `json:"type" yaml:"type"`
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Percent builds a percent band.
func Percent(value float64) Tolerance {
	return Tolerance{Type: KindPercent, Value: value}
}

// Absolute builds an absolute band in unit.
func Absolute(value float64, unit string) Tolerance {
	return Tolerance{Type: KindAbsolute, Value: value, Unit: unit}
}

// Validate checks the band. A unit on a percent band is tolerated and ignored.
func (t Tolerance) Validate() error {
	switch t.Type {
	case KindPercent, KindAbsolute:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, t.Type)
	}
	if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) || t.Value < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidValue, t.Value)
	}
	return nil
}

// Label renders the band as shown on a card: "±10%" or "±2 F".
func (t Tolerance) Label() string {
	v := strconv.FormatFloat(t.Value, 'f', -1, 64)
	if t.Type == KindPercent {
		return "±" + v + "%"
	}
	return strings.TrimRight("±"+v+" "+t.Unit, " ")
}

// Profile is a named bundle of tolerances keyed by measured quantity.
type Profile struct {
	Name       string               `json:"name" yaml:"name"`
	Tolerances map[string]Tolerance `json:"tolerances" yaml:"tolerances"`
}

// Validate checks the profile name and every band.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProfileName
	}
	for _, key := range p.Keys() {
		if err := p.Tolerances[key].Validate(); err != nil {
			return fmt.Errorf("tolerance %q: %w", key, err)
		}
	}
	return nil
}

// Keys returns the tolerance names sorted for stable display.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p.Tolerances))
	for k := range p.Tolerances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := Profile{Name: p.Name, Tolerances: make(map[string]Tolerance, len(p.Tolerances))}
	for k, v := range p.Tolerances {
		out.Tolerances[k] = v
	}
	return out
}

// Default returns the built-in "Manager Default" profile.
func Default() Profile {
	return Profile{
		Name: "Manager Default",
		Tolerances: map[string]Tolerance{
			"Supply":  Percent(10),
			"Return":  Percent(10),
			"Exhaust": Percent(15),
			"OA":      Percent(5),
			"Coil_dT": Absolute(2, "F"),
		},
	}
}
