package facets_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/okian/persona/internal/domain/facets"
	"github.com/okian/persona/internal/domain/trait"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFacetMap(t *testing.T) {
	Convey("Given the canonical facet map", t, func() {
		Convey("Then every trait has six distinct facets", func() {
			seen := map[string]bool{}
			for _, tr := range trait.All {
				names, ok := facets.FacetMap[tr]
				So(ok, ShouldBeTrue)
				for _, n := range names {
					So(seen[n], ShouldBeFalse)
					seen[n] = true
				}
			}
			So(len(seen), ShouldEqual, 30)
		})

		Convey("Then Known matches names case-insensitively", func() {
			So(facets.Known("activity LEVEL"), ShouldBeTrue)
			So(facets.Known("Charisma"), ShouldBeFalse)
		})
	})
}

func TestNormalizeUnit(t *testing.T) {
	Convey("Given unit scores", t, func() {
		Convey("Then the anchors map onto -1, 0 and +1", func() {
			So(facets.NormalizeUnit(0), ShouldEqual, -1.0)
			So(facets.NormalizeUnit(0.5), ShouldEqual, 0.0)
			So(facets.NormalizeUnit(1), ShouldEqual, 1.0)
		})

		Convey("Then values outside 0..1 are clamped", func() {
			So(facets.NormalizeUnit(-3), ShouldEqual, -1.0)
			So(facets.NormalizeUnit(7), ShouldEqual, 1.0)
			So(facets.NormalizeUnit(math.NaN()), ShouldEqual, -1.0)
		})
	})
}

func TestParsePayload(t *testing.T) {
	Convey("Given a bigfive-style result payload", t, func() {
		var payload map[string]any
		err := json.Unmarshal([]byte(`{
			"facets": {
				"N": {"anxiety": 0.75, "ANGER": "0.25"},
				"O": {"artistic interests": 1, "imagination": 1.8},
				"misc": {"broken": "high"},
				"E": "not an object"
			},
			"domains": {"O": 0.9}
		}`), &payload)
		So(err, ShouldBeNil)

		fs := facets.ParsePayload(payload)

		Convey("Then numeric facets are extracted in trait order", func() {
			So(len(fs), ShouldEqual, 4)
			So(fs[0], ShouldResemble, facets.Facet{Domain: "O", Name: "Artistic Interests", Value: 1})
			So(fs[1], ShouldResemble, facets.Facet{Domain: "O", Name: "Imagination", Value: 1})
			So(fs[2], ShouldResemble, facets.Facet{Domain: "N", Name: "Anger", Value: -0.5})
			So(fs[3], ShouldResemble, facets.Facet{Domain: "N", Name: "Anxiety", Value: 0.5})
		})

		Convey("Then the preview lists names", func() {
			So(facets.Preview(fs), ShouldResemble, []string{"Artistic Interests", "Imagination", "Anger", "Anxiety"})
		})
	})

	Convey("Given a payload without facets", t, func() {
		Convey("Then nothing is extracted", func() {
			So(facets.ParsePayload(map[string]any{"score": 3}), ShouldBeEmpty)
			So(facets.ParsePayload(nil), ShouldBeEmpty)
		})
	})

	Convey("Given more facets than a preview shows", t, func() {
		items := map[string]any{}
		for _, n := range facets.FacetMap[trait.Conscientiousness] {
			items[n] = 0.5
		}
		for _, n := range facets.FacetMap[trait.Agreeableness] {
			items[n] = 0.5
		}
		fs := facets.ParsePayload(map[string]any{"facets": map[string]any{"C": items}})

		Convey("Then the preview is capped", func() {
			So(len(fs), ShouldEqual, 12)
			So(len(facets.Preview(fs)), ShouldEqual, facets.PreviewLimit)
		})
	})
}
