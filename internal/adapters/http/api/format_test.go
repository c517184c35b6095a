package api

import (
	"net/http"
	"testing"

	"github.com/okian/persona/internal/domain/summary"
	"github.com/okian/persona/internal/domain/trait"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBar(t *testing.T) {
	Convey("Given normalized values", t, func() {
		cases := []struct {
			value float64
			want  string
		}{
			{-1, "░░░░░"},
			{-0.5, "█░░░░"},
			{0, "██░░░"},
			{0.7, "████░"},
			{1, "█████"},
			{3, "█████"},
			{-3, "░░░░░"},
		}

		Convey("Then bars fill five blocks proportionally", func() {
			for _, c := range cases {
				So(bar(c.value), ShouldEqual, c.want)
			}
		})
	})
}

func TestVibeLine(t *testing.T) {
	Convey("Given each vibe kind", t, func() {
		cases := []struct {
			vibe summary.Vibe
			want string
		}{
			{summary.Vibe{Kind: summary.VibeBalanced}, "A harmonious blend, balanced across personalities."},
			{
				summary.Vibe{Kind: summary.VibeBoldInnovators, Dominant: trait.Openness, Weakest: trait.Neuroticism},
				"Bold innovators: strongly curious and imaginative and low in N.",
			},
			{summary.Vibe{Kind: summary.VibeLeans, Dominant: trait.Extraversion}, "This group leans outgoing and energetic."},
			{summary.Vibe{Kind: summary.VibeGroundedSteady, Weakest: trait.Agreeableness}, "Grounded and steady: low in A."},
			{summary.Vibe{Kind: summary.VibeWellRounded}, "A well-rounded team with complementary strengths."},
		}

		Convey("Then each renders its sentence", func() {
			for _, c := range cases {
				So(vibeLine(c.vibe), ShouldEqual, c.want)
			}
		})
	})
}

func TestHumanizeAndErrorType(t *testing.T) {
	Convey("Given machine labels", t, func() {
		So(humanize(string(summary.HighlySynergistic)), ShouldEqual, "Highly Synergistic")
		So(humanize(string(summary.TeamDisruptor)), ShouldEqual, "Team Disruptor")
	})

	Convey("Given error statuses", t, func() {
		So(errorType(http.StatusInternalServerError), ShouldEqual, "server_error")
		So(errorType(http.StatusNotFound), ShouldEqual, "not_found")
		So(errorType(http.StatusRequestEntityTooLarge), ShouldEqual, "too_large")
		So(errorType(http.StatusUnprocessableEntity), ShouldEqual, "rejected")
		So(errorType(http.StatusBadRequest), ShouldEqual, "client_error")
	})
}
