package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get should return a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with a nil writer", func() {
			err := InitWithWriter(nil)

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info level", func() {
			Get().Info(ctx, "report generated", String("strategy", "combo"), Int("k", 5))

			Convey("Then the message and fields should be written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "report generated")
				So(out, ShouldContainSubstring, "strategy=combo")
				So(out, ShouldContainSubstring, "k=5")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When logging below the active level", func() {
			Get().Debug(ctx, "hidden message")

			Convey("Then nothing should be written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden message")
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible message", Error(errors.New("boom")))

			Convey("Then debug records should be written", func() {
				So(buf.String(), ShouldContainSubstring, "visible message")
				So(buf.String(), ShouldContainSubstring, "boom")
			})
		})

		Convey("When using a named logger", func() {
			Named("normalize").Warn(ctx, "records dropped", Bool("partial", true))

			Convey("Then the component should be attached", func() {
				So(buf.String(), ShouldContainSubstring, "component=normalize")
				So(buf.String(), ShouldContainSubstring, "partial=true")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels should be accepted", func() {
			for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " Error "} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown levels should be rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
