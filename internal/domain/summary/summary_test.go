package summary_test

import (
	"errors"
	"testing"

	"github.com/okian/persona/internal/domain/model"
	"github.com/okian/persona/internal/domain/summary"
	"github.com/okian/persona/internal/domain/trait"
	. "github.com/smartystreets/goconvey/convey"
)

func member(id, role, dept string, v trait.Vector) model.MemberRecord {
	return model.MemberRecord{MemberID: id, Traits: v, Role: role, Department: dept}
}

func TestSummarize(t *testing.T) {
	Convey("Given no records", t, func() {
		_, err := summary.Summarize(nil)

		Convey("Then summarizing fails with ErrEmptyGroup", func() {
			So(errors.Is(err, summary.ErrEmptyGroup), ShouldBeTrue)
		})
	})

	Convey("Given three perfectly average members", t, func() {
		mid := trait.Vector{O: 60, C: 60, E: 60, A: 60, N: 60}
		s, err := summary.Summarize([]model.MemberRecord{
			member("a", "Diplomat", "People", mid),
			member("b", "Diplomat", "People", mid),
			member("c", "Anchor", "Operations", mid),
		})
		So(err, ShouldBeNil)

		Convey("Then the teamwork index is clamped to 1 and highly synergistic", func() {
			So(s.Teamwork.Index, ShouldEqual, 1.0)
			So(s.Teamwork.Label, ShouldEqual, summary.HighlySynergistic)
		})

		Convey("Then the vibe is balanced with zero spread", func() {
			So(s.Spread, ShouldEqual, 0.0)
			So(s.Vibe.Kind, ShouldEqual, summary.VibeBalanced)
			So(s.Vibe.Label, ShouldEqual, "balanced")
		})

		Convey("Then equal averages rank in canonical trait order", func() {
			So(s.Dominant.Trait, ShouldEqual, trait.Openness)
			So(s.Weakest.Trait, ShouldEqual, trait.Neuroticism)
			So(s.NormalizedAverage, ShouldResemble, trait.Vector{})
		})

		Convey("Then counts follow first occurrence", func() {
			So(s.MemberCount, ShouldEqual, 3)
			So(s.Departments, ShouldResemble, []summary.Count{{Name: "People", Count: 2}, {Name: "Operations", Count: 1}})
			So(s.TopRoles, ShouldResemble, []string{"Diplomat", "Anchor"})
		})
	})

	Convey("Given a group with uneven averages", t, func() {
		s, err := summary.Summarize([]model.MemberRecord{
			member("a", "Visionary", "Strategy", trait.Vector{O: 120, C: 30, E: 90, A: 60, N: 0}),
			member("b", "Maverick", "Strategy", trait.Vector{O: 100, C: 10, E: 70, A: 40, N: 20}),
		})
		So(err, ShouldBeNil)

		Convey("Then raw averages and their normalized form are reported", func() {
			So(s.AverageTraits, ShouldResemble, trait.Vector{O: 110, C: 20, E: 80, A: 50, N: 10})
			So(s.NormalizedAverage.O, ShouldAlmostEqual, 50.0/60.0)
			So(s.NormalizedAverage.N, ShouldAlmostEqual, -50.0/60.0)
		})

		Convey("Then dominant and weakest traits drive a bold vibe", func() {
			So(s.Dominant.Trait, ShouldEqual, trait.Openness)
			So(s.Weakest.Trait, ShouldEqual, trait.Neuroticism)
			So(s.Spread, ShouldAlmostEqual, 100.0/60.0)
			So(s.Vibe.Kind, ShouldEqual, summary.VibeBoldInnovators)
			So(s.Vibe.Dominant, ShouldEqual, trait.Openness)
			So(s.Vibe.Weakest, ShouldEqual, trait.Neuroticism)
		})

		Convey("Then the ranking is descending", func() {
			for i := 1; i < len(s.Ranking); i++ {
				So(s.Ranking[i-1].Value, ShouldBeGreaterThanOrEqualTo, s.Ranking[i].Value)
			}
		})
	})

	Convey("Given more than three roles with ties", t, func() {
		v := trait.Vector{O: 60, C: 60, E: 60, A: 60, N: 60}
		s, _ := summary.Summarize([]model.MemberRecord{
			member("1", "R1", "D", v),
			member("2", "R2", "D", v),
			member("3", "R3", "D", v),
			member("4", "R4", "D", v),
			member("5", "R4", "D", v),
			member("6", "R2", "D", v),
		})

		Convey("Then top roles take the three most frequent, ties by first occurrence", func() {
			So(s.TopRoles, ShouldResemble, []string{"R2", "R4", "R1"})
		})
	})
}

func TestClassifyVibe(t *testing.T) {
	score := func(tr trait.Trait, v float64) summary.TraitScore { return summary.TraitScore{Trait: tr, Value: v} }

	Convey("Given dominant and weakest averages", t, func() {
		Convey("Then a small spread is balanced even when values are high", func() {
			So(summary.ClassifyVibe(score(trait.Openness, 0.9), score(trait.Neuroticism, 0.7)).Kind, ShouldEqual, summary.VibeBalanced)
		})

		Convey("Then a strong high and strong low are bold innovators", func() {
			So(summary.ClassifyVibe(score(trait.Openness, 0.7), score(trait.Neuroticism, -0.5)).Kind, ShouldEqual, summary.VibeBoldInnovators)
		})

		Convey("Then a strong high without a strong low leans toward it", func() {
			v := summary.ClassifyVibe(score(trait.Extraversion, 0.7), score(trait.Agreeableness, -0.3))
			So(v.Kind, ShouldEqual, summary.VibeLeans)
			So(v.Label, ShouldEqual, "leans_extraversion")
		})

		Convey("Then a strong low alone is grounded and steady", func() {
			v := summary.ClassifyVibe(score(trait.Conscientiousness, 0.4), score(trait.Neuroticism, -0.6))
			So(v.Kind, ShouldEqual, summary.VibeGroundedSteady)
			So(v.Weakest, ShouldEqual, trait.Neuroticism)
		})

		Convey("Then anything else is well rounded", func() {
			So(summary.ClassifyVibe(score(trait.Openness, 0.4), score(trait.Neuroticism, -0.2)).Kind, ShouldEqual, summary.VibeWellRounded)
		})
	})
}

func TestTeamwork(t *testing.T) {
	Convey("Given raw trait averages", t, func() {
		Convey("Then extreme averages score poorly", func() {
			So(summary.TeamworkIndex(trait.Vector{}), ShouldAlmostEqual, 0.1)
			So(summary.TeamworkIndex(trait.Vector{O: 120, C: 120, E: 120, A: 120, N: 120}), ShouldAlmostEqual, 0.0)
		})

		Convey("Then quarter-range averages lose a quarter of the curve", func() {
			idx := summary.TeamworkIndex(trait.Vector{O: 60, C: 30, E: 90, A: 30, N: 60})
			So(idx, ShouldAlmostEqual, 0.85)
			So(summary.ClassifyTeamwork(idx), ShouldEqual, summary.HighlySynergistic)
		})

		Convey("Then the result never leaves [0,1]", func() {
			So(summary.TeamworkIndex(trait.Vector{O: 60, C: 60, E: 60, A: 60, N: 0}), ShouldEqual, 1.0)
		})
	})

	Convey("Given index thresholds", t, func() {
		Convey("Then lower bounds are inclusive", func() {
			So(summary.ClassifyTeamwork(0.80), ShouldEqual, summary.HighlySynergistic)
			So(summary.ClassifyTeamwork(0.7999), ShouldEqual, summary.CollaborativePotential)
			So(summary.ClassifyTeamwork(0.60), ShouldEqual, summary.CollaborativePotential)
			So(summary.ClassifyTeamwork(0.40), ShouldEqual, summary.Imbalanced)
			So(summary.ClassifyTeamwork(0.3999), ShouldEqual, summary.TeamDisruptor)
			So(summary.ClassifyTeamwork(0), ShouldEqual, summary.TeamDisruptor)
		})
	})
}

func TestGroupByDepartment(t *testing.T) {
	Convey("Given members across departments", t, func() {
		v := trait.Vector{O: 60, C: 60, E: 60, A: 60, N: 60}
		groups := summary.GroupByDepartment([]model.MemberRecord{
			member("1", "Analyst", "Research", v),
			member("2", "Operator", "Operations", v),
			member("3", "Analyst", "Research", v),
		})

		Convey("Then departments keep first-occurrence order and members their input order", func() {
			So(len(groups), ShouldEqual, 2)
			So(groups[0].Department, ShouldEqual, "Research")
			So(groups[0].Members[0].MemberID, ShouldEqual, "1")
			So(groups[0].Members[1].MemberID, ShouldEqual, "3")
			So(groups[1].Department, ShouldEqual, "Operations")
		})
	})
}
