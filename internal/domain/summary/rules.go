package summary

import (
	"math"

	"github.com/okian/persona/internal/domain/trait"
)

// VibeKind names the overall flavour of a group's average profile.
type VibeKind string

// Vibe kinds, in rule priority order.
const (
	VibeBalanced       VibeKind = "balanced"
	VibeBoldInnovators VibeKind = "bold_innovators"
	VibeLeans          VibeKind = "leans"
	VibeGroundedSteady VibeKind = "grounded_steady"
	VibeWellRounded    VibeKind = "well_rounded"
)

// Vibe is the classified group flavour. Label is the machine-readable form,
// e.g. "leans_openness" for VibeLeans.
type Vibe struct {
	Kind     VibeKind    `json:"kind"`
	Label    string      `json:"label"`
	Dominant trait.Trait `json:"dominant"`
	Weakest  trait.Trait `json:"weakest"`
}

type vibeRule struct {
	kind    VibeKind
	applies func(dominant, weakest TraitScore, spread float64) bool
}

// vibeRules are evaluated in order; the first that applies wins.
var vibeRules = [...]vibeRule{
	{VibeBalanced, func(_, _ TraitScore, spread float64) bool { return spread < 0.3 }},
	{VibeBoldInnovators, func(d, w TraitScore, _ float64) bool { return d.Value > 0.6 && w.Value < -0.4 }},
	{VibeLeans, func(d, _ TraitScore, _ float64) bool { return d.Value > 0.5 }},
	{VibeGroundedSteady, func(_, w TraitScore, _ float64) bool { return w.Value < -0.5 }},
}

// ClassifyVibe applies the vibe rules to the dominant and weakest normalized
// averages. It falls back to VibeWellRounded.
func ClassifyVibe(dominant, weakest TraitScore) Vibe {
	spread := dominant.Value - weakest.Value
	v := Vibe{Kind: VibeWellRounded, Dominant: dominant.Trait, Weakest: weakest.Trait}
	for _, r := range vibeRules {
		if r.applies(dominant, weakest, spread) {
			v.Kind = r.kind
			break
		}
	}
	v.Label = string(v.Kind)
	if v.Kind == VibeLeans {
		v.Label += "_" + dominant.Trait.Slug()
	}
	return v
}

// TeamworkLabel interprets a teamwork index.
type TeamworkLabel string

// Teamwork labels from best to worst.
const (
	HighlySynergistic      TeamworkLabel = "highly_synergistic"
	CollaborativePotential TeamworkLabel = "collaborative_potential"
	Imbalanced             TeamworkLabel = "imbalanced"
	TeamDisruptor          TeamworkLabel = "team_disruptor"
)

// teamworkBands are inclusive lower bounds checked from the top down.
var teamworkBands = [...]struct {
	min   float64
	label TeamworkLabel
}{
	{0.80, HighlySynergistic},
	{0.60, CollaborativePotential},
	{0.40, Imbalanced},
}

// Teamwork is the [0,1] compatibility heuristic and its label.
type Teamwork struct {
	Index float64       `json:"index"`
	Label TeamworkLabel `json:"label"`
}

// Teamwork index weights.
const (
	stabilityBonus = 0.1
	opennessBonus  = 0.05
)

// ClassifyTeamwork maps an index onto its label.
func ClassifyTeamwork(index float64) TeamworkLabel {
	for _, b := range teamworkBands {
		if index >= b.min {
			return b.label
		}
	}
	return TeamDisruptor
}

// invertedU peaks at 1.0 for x=0.5 and reaches 0 at x=0 and x=1.
func invertedU(x float64) float64 {
	return 1 - 4*(x-0.5)*(x-0.5)
}

// TeamworkIndex scores a group from its raw trait averages. Moderate
// extraversion, agreeableness and conscientiousness score best; low average
// neuroticism and mid-range openness add small bonuses. The result is
// clamped to [0,1].
func TeamworkIndex(avg trait.Vector) float64 {
	idx := (invertedU(avg.E/trait.MaxRaw) +
		invertedU(avg.A/trait.MaxRaw) +
		invertedU(avg.C/trait.MaxRaw)) / 3
	idx += stabilityBonus * (trait.MaxRaw - avg.N) / trait.MaxRaw
	idx += opennessBonus * (1 - 2*math.Abs(avg.O/trait.MaxRaw-0.5))
	return math.Max(0, math.Min(1, idx))
}
