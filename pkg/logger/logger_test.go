package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given logger initialization", t, func() {
		Convey("When using defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then the global logger is available", func() {
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When the format is unknown", func() {
			err := Init(WithFormat("xml"))

			Convey("Then initialization fails", func() {
				So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("JSON"), WithWriter(&buf)), ShouldBeNil)

		ctx := WithRequestID(context.Background(), "req-1")
		Named("service").Info(ctx, "member_upserted", String("group", "g1"), Int("count", 2), Error(errors.New("boom")))

		Convey("Then a single structured record is emitted", func() {
			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "member_upserted")
			So(rec["group"], ShouldEqual, "g1")
			So(rec["count"], ShouldEqual, float64(2))
			So(rec["error"], ShouldEqual, "boom")
			So(rec["component"], ShouldEqual, "service")
			So(rec["request_id"], ShouldEqual, "req-1")
			So(rec["source"], ShouldContainSubstring, "logger_test.go")
		})
	})
}

func TestLoggerLevels(t *testing.T) {
	Convey("Given a text logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("WARNING"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then lower records are dropped", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "hidden")
				So(out, ShouldContainSubstring, "shown")
			})
		})

		Convey("When the level string is unknown", func() {
			err := SetLevelString("loud")

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrUnknownLevel), ShouldBeTrue)
			})
		})

		Convey("When using the no-op logger", func() {
			Nop().Error(ctx, "discarded")

			Convey("Then the global output is untouched", func() {
				So(strings.Contains(buf.String(), "discarded"), ShouldBeFalse)
			})
		})
	})
}
