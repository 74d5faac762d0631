package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info", func() {
			Get().Info(ctx, "game computed", String("game_id", "2021030415"), Int("rows", 1042))

			Convey("Then the record carries fields and the caller", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "game computed")
				So(out, ShouldContainSubstring, "game_id=2021030415")
				So(out, ShouldContainSubstring, "rows=1042")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the level", func() {
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.String(), ShouldBeEmpty)
			})
		})

		Convey("When the level is lowered", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(ctx, "visible")
			_ = SetLevelString("info")

			Convey("Then debug records are written", func() {
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})

		Convey("When using named and scoped loggers", func() {
			Named("engine").With(String("job", "j1")).Error(ctx, "failed", Error(errors.New("boom")))

			Convey("Then the group and scope fields appear", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "engine.")
				So(out, ShouldContainSubstring, "job=j1")
				So(out, ShouldContainSubstring, "boom")
			})
		})

		Convey("When an unknown level is set", func() {
			So(SetLevelString("chatty"), ShouldNotBeNil)
		})

		So(Sync(), ShouldBeNil)
	})

	Convey("Given the no-op logger", t, func() {
		l := Nop()

		Convey("Then it accepts records silently", func() {
			So(func() { l.Named("x").Info(context.Background(), "dropped") }, ShouldNotPanic)
		})
	})
}
