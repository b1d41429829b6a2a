package suggest_test

import (
	"testing"

	"github.com/okian/spinlens/internal/domain/suggest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngine(t *testing.T) {
	Convey("Given an engine with default options", t, func() {
		e := suggest.NewEngine()

		Convey("Then it should carry the package defaults", func() {
			So(e.K(), ShouldEqual, suggest.DefaultK)
			So(e.Decay(), ShouldEqual, suggest.DefaultDecay)
			So(e.Strategy(), ShouldEqual, suggest.Combo)
		})
	})

	Convey("Given an engine with custom options", t, func() {
		e := suggest.NewEngine(
			suggest.WithK(3),
			suggest.WithDecay(0.5),
			suggest.WithDefaultStrategy(suggest.Hot),
		)
		spins := spinsOf(5, 5, 5, 12, 0)

		Convey("When no strategy is named", func() {
			res := e.Suggest(spins, "")

			Convey("Then the engine default should be used", func() {
				So(res.Strategy, ShouldEqual, suggest.Hot)
				So(res.Picks, ShouldResemble, []int{5, 0, 12})
			})
		})

		Convey("When an unknown strategy is named", func() {
			res := e.Suggest(spins, "bogus")

			Convey("Then combo should be used", func() {
				So(res.Strategy, ShouldEqual, suggest.Combo)
				So(len(res.Picks), ShouldEqual, 3)
			})
		})
	})

	Convey("Given invalid option values", t, func() {
		e := suggest.NewEngine(
			suggest.WithK(0),
			suggest.WithDecay(1),
			suggest.WithDefaultStrategy("nope"),
		)

		Convey("Then they should be ignored", func() {
			So(e.K(), ShouldEqual, suggest.DefaultK)
			So(e.Decay(), ShouldEqual, suggest.DefaultDecay)
			So(e.Strategy(), ShouldEqual, suggest.Combo)
		})
	})
}
