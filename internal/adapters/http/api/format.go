package api

import (
	"fmt"
	"strings"

	"github.com/okian/persona/internal/domain/summary"
	"github.com/okian/persona/internal/domain/trait"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const barWidth = 5

// summaryResponse is the rendered group summary. The detailed mode adds the
// profile bars, the balance line and the teamwork fit.
type summaryResponse struct {
	GroupID     string          `json:"group_id"`
	Mode        string          `json:"mode"`
	MemberCount int             `json:"member_count"`
	Departments []summary.Count `json:"departments"`
	TopRoles    []string        `json:"top_roles"`
	Vibe        summary.Vibe    `json:"vibe"`
	VibeLine    string          `json:"vibe_line"`

	Profile      []traitBar        `json:"profile,omitempty"`
	Average      *trait.Vector     `json:"average_traits,omitempty"`
	Balance      string            `json:"balance,omitempty"`
	Teamwork     *summary.Teamwork `json:"teamwork,omitempty"`
	TeamworkLine string            `json:"teamwork_line,omitempty"`
}

type traitBar struct {
	Trait trait.Trait `json:"trait"`
	Value float64     `json:"value"`
	Bar   string      `json:"bar"`
	Line  string      `json:"line"`
}

func renderSummary(group, mode string, s summary.Summary) summaryResponse {
	resp := summaryResponse{
		GroupID:     group,
		Mode:        mode,
		MemberCount: s.MemberCount,
		Departments: s.Departments,
		TopRoles:    s.TopRoles,
		Vibe:        s.Vibe,
		VibeLine:    vibeLine(s.Vibe),
	}
	if mode != ModeDetailed {
		return resp
	}

	resp.Profile = make([]traitBar, 0, len(trait.All))
	for _, t := range trait.All {
		v := s.NormalizedAverage.Get(t)
		b := bar(v)
		resp.Profile = append(resp.Profile, traitBar{
			Trait: t,
			Value: v,
			Bar:   b,
			Line:  fmt.Sprintf("%s: %s (%+.2f)", t.Code(), b, v),
		})
	}
	avg := s.AverageTraits
	tw := s.Teamwork
	resp.Average = &avg
	resp.Teamwork = &tw
	resp.Balance = fmt.Sprintf("%s dominant, %s low.", s.Dominant.Trait.Name(), s.Weakest.Trait.Name())
	resp.TeamworkLine = fmt.Sprintf("%.2f (%s)", tw.Index, humanize(string(tw.Label)))
	return resp
}

// bar maps -1..+1 onto 0..barWidth filled blocks.
func bar(v float64) string {
	filled := int((v + 1) * barWidth / 2)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func vibeLine(v summary.Vibe) string {
	switch v.Kind {
	case summary.VibeBalanced:
		return "A harmonious blend, balanced across personalities."
	case summary.VibeBoldInnovators:
		return fmt.Sprintf("Bold innovators: strongly %s and low in %s.", v.Dominant.Description(), v.Weakest.Code())
	case summary.VibeLeans:
		return fmt.Sprintf("This group leans %s.", v.Dominant.Description())
	case summary.VibeGroundedSteady:
		return fmt.Sprintf("Grounded and steady: low in %s.", v.Weakest.Code())
	default:
		return "A well-rounded team with complementary strengths."
	}
}

// humanize turns a label such as "highly_synergistic" into "Highly Synergistic".
func humanize(label string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(label, "_", " "))
}
