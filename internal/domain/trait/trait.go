// Package trait models the five OCEAN dimensions and their raw/normalized scores.
package trait

import (
	"fmt"
	"math"
	"strings"
)

// Raw score bounds and the midpoint used for normalization.
const (
	MinRaw = 0.0
	MaxRaw = 120.0
	MidRaw = 60.0
)

// Trait identifies one Big Five dimension.
type Trait int

// Canonical order. Ranking ties and display follow it.
const (
	Openness Trait = iota
	Conscientiousness
	Extraversion
	Agreeableness
	Neuroticism
)

// All lists the traits in canonical order.
var All = [...]Trait{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

var meta = [...]struct {
	code, name, description string
}{
	Openness:          {"O", "Openness", "curious and imaginative"},
	Conscientiousness: {"C", "Conscientiousness", "organized and goal-driven"},
	Extraversion:      {"E", "Extraversion", "outgoing and energetic"},
	Agreeableness:     {"A", "Agreeableness", "cooperative and kind"},
	Neuroticism:       {"N", "Neuroticism", "emotionally intense"},
}

func (t Trait) valid() bool { return t >= Openness && t <= Neuroticism }

// Code returns the single-letter code, e.g. "O".
func (t Trait) Code() string {
	if !t.valid() {
		return "?"
	}
	return meta[t].code
}

// Name returns the full trait name, e.g. "Openness".
func (t Trait) Name() string {
	if !t.valid() {
		return "Unknown"
	}
	return meta[t].name
}

// Slug returns the lower-case name used in machine-readable labels.
func (t Trait) Slug() string { return strings.ToLower(t.Name()) }

// Description returns a short phrase describing a group high in this trait.
func (t Trait) Description() string {
	if !t.valid() {
		return ""
	}
	return meta[t].description
}

func (t Trait) String() string { return t.Code() }

// ParseCode resolves a single-letter trait code (case-insensitive).
func ParseCode(code string) (Trait, error) {
	for _, t := range All {
		if strings.EqualFold(strings.TrimSpace(code), t.Code()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrait, code)
}

// Normalize maps a raw 0..120 score onto -1..+1. It does not validate range.
func Normalize(raw float64) float64 {
	return (raw - MidRaw) / MidRaw
}

// Vector holds one value per trait. Depending on context the values are raw
// scores (0..120), normalized scores (-1..+1) or pattern weights.
type Vector struct {
	O float64 `json:"o"`
	C float64 `json:"c"`
	E float64 `json:"e"`
	A float64 `json:"a"`
	N float64 `json:"n"`
}

// Get returns the component for t.
func (v Vector) Get(t Trait) float64 {
	switch t {
	case Openness:
		return v.O
	case Conscientiousness:
		return v.C
	case Extraversion:
		return v.E
	case Agreeableness:
		return v.A
	case Neuroticism:
		return v.N
	}
	return 0
}

// With returns a copy of v with component t set to x.
func (v Vector) With(t Trait, x float64) Vector {
	switch t {
	case Openness:
		v.O = x
	case Conscientiousness:
		v.C = x
	case Extraversion:
		v.E = x
	case Agreeableness:
		v.A = x
	case Neuroticism:
		v.N = x
	}
	return v
}

// Normalized applies Normalize to every component independently.
func (v Vector) Normalized() Vector {
	var out Vector
	for _, t := range All {
		out = out.With(t, Normalize(v.Get(t)))
	}
	return out
}

// Dot returns the sum over traits of v[t]*w[t].
func (v Vector) Dot(w Vector) float64 {
	var sum float64
	for _, t := range All {
		sum += v.Get(t) * w.Get(t)
	}
	return sum
}

// IsZero reports whether every component is exactly zero.
func (v Vector) IsZero() bool {
	for _, t := range All {
		if v.Get(t) != 0 {
			return false
		}
	}
	return true
}

// Validate checks that v holds raw scores within [MinRaw, MaxRaw]. NaN is
// out of range. Values are never clamped.
func (v Vector) Validate() error {
	var bad []Trait
	for _, t := range All {
		x := v.Get(t)
		if math.IsNaN(x) || x < MinRaw || x > MaxRaw {
			bad = append(bad, t)
		}
	}
	if len(bad) > 0 {
		return &OutOfRangeError{Traits: bad}
	}
	return nil
}

// Mean returns the per-component arithmetic mean. It returns the zero
// Vector for an empty slice.
func Mean(vs []Vector) Vector {
	if len(vs) == 0 {
		return Vector{}
	}
	var sum Vector
	for _, v := range vs {
		for _, t := range All {
			sum = sum.With(t, sum.Get(t)+v.Get(t))
		}
	}
	n := float64(len(vs))
	var out Vector
	for _, t := range All {
		out = out.With(t, sum.Get(t)/n)
	}
	return out
}

// MarshalText encodes a trait as its code.
func (t Trait) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrait, int(t))
	}
	return []byte(t.Code()), nil
}

// UnmarshalText decodes a trait code.
func (t *Trait) UnmarshalText(b []byte) error {
	parsed, err := ParseCode(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
