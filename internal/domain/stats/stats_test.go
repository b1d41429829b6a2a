package stats_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/spinlens/internal/domain/model"
	"github.com/okian/spinlens/internal/domain/stats"
	"github.com/okian/spinlens/internal/domain/wheel"
	. "github.com/smartystreets/goconvey/convey"
)

func spinsOf(numbers ...int) []model.Spin {
	out := make([]model.Spin, len(numbers))
	for i, n := range numbers {
		out[i] = model.Spin{Number: n}
	}
	return out
}

func sumValues[K comparable](m map[K]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func TestAnalyze(t *testing.T) {
	Convey("Given the spins 5,5,5,12,0", t, func() {
		snap := stats.Analyze(spinsOf(5, 5, 5, 12, 0))

		Convey("Then frequencies should be counted over the full domain", func() {
			So(snap.TotalSpins, ShouldEqual, 5)
			So(snap.Frequency[5], ShouldEqual, 3)
			So(snap.Frequency[12], ShouldEqual, 1)
			So(snap.Frequency[0], ShouldEqual, 1)
			So(snap.Frequency[36], ShouldEqual, 0)
		})

		Convey("And gaps should count spins since the last occurrence", func() {
			So(snap.Gaps[5], ShouldResemble, stats.FiniteGap(2))
			So(snap.Gaps[12], ShouldResemble, stats.FiniteGap(1))
			So(snap.Gaps[0], ShouldResemble, stats.FiniteGap(0))
			for n := 1; n < wheel.Size; n++ {
				if n != 5 && n != 12 {
					So(snap.Gaps[n].IsInfinite(), ShouldBeTrue)
				}
			}
			So(len(snap.NeverSeen()), ShouldEqual, 34)
		})

		Convey("And categories should follow the wheel layout", func() {
			So(snap.ZeroCount, ShouldEqual, 1)
			So(snap.ByColor, ShouldResemble, map[wheel.Color]int{wheel.Red: 4})
			So(snap.ByParity, ShouldResemble, map[wheel.Parity]int{wheel.Odd: 3, wheel.Even: 1})
			So(snap.ByDozen, ShouldResemble, map[wheel.Group]int{wheel.First: 4, wheel.Zero: 1})
			So(snap.ByColumn, ShouldResemble, map[wheel.Group]int{wheel.Second: 3, wheel.Third: 1, wheel.Zero: 1})
		})

		Convey("And hot and cold should mirror a single ranking", func() {
			So(snap.HotTop10, ShouldResemble, []stats.NumberCount{{5, 3}, {12, 1}, {0, 1}})
			So(snap.ColdBottom10, ShouldResemble, []stats.NumberCount{{0, 1}, {12, 1}, {5, 3}})
		})

		Convey("And longest gaps should only list seen outcomes", func() {
			So(snap.LongestGapsTop10, ShouldResemble, []stats.NumberGap{{5, 2}, {12, 1}, {0, 0}})
		})
	})

	Convey("Given an empty window", t, func() {
		snap := stats.Analyze(nil)

		Convey("Then the snapshot should be zero valued", func() {
			So(snap.TotalSpins, ShouldEqual, 0)
			So(snap.LightningRate, ShouldEqual, 0.0)
			So(snap.ByColor, ShouldBeEmpty)
			So(snap.ByParity, ShouldBeEmpty)
			So(snap.ByDozen, ShouldBeEmpty)
			So(snap.ByColumn, ShouldBeEmpty)
			So(snap.HotTop10, ShouldBeEmpty)
			So(snap.ColdBottom10, ShouldBeEmpty)
			So(snap.LongestGapsTop10, ShouldBeEmpty)
			So(len(snap.NeverSeen()), ShouldEqual, wheel.Size)
		})
	})

	Convey("Given a long mixed window", t, func() {
		numbers := []int{}
		for i := 0; i < 200; i++ {
			numbers = append(numbers, (i*7+i/5)%wheel.Size)
		}
		snap := stats.Analyze(spinsOf(numbers...))

		Convey("Then counts should add up to the total", func() {
			sum := 0
			for _, c := range snap.Frequency {
				sum += c
			}
			So(sum, ShouldEqual, snap.TotalSpins)
			So(sumValues(snap.ByColor)+snap.ZeroCount, ShouldEqual, snap.TotalSpins)
			So(sumValues(snap.ByParity), ShouldEqual, snap.TotalSpins-snap.ZeroCount)
			So(sumValues(snap.ByDozen), ShouldEqual, snap.TotalSpins)
			So(sumValues(snap.ByColumn), ShouldEqual, snap.TotalSpins)
		})

		Convey("Then top lists should hold at most ten entries", func() {
			So(len(snap.HotTop10), ShouldEqual, 10)
			So(len(snap.ColdBottom10), ShouldEqual, 10)
			So(len(snap.LongestGapsTop10), ShouldEqual, 10)
			for i := 1; i < len(snap.LongestGapsTop10); i++ {
				So(snap.LongestGapsTop10[i-1].Gap, ShouldBeGreaterThanOrEqualTo, snap.LongestGapsTop10[i].Gap)
			}
		})
	})

	Convey("Given an outcome that only occurs as the last spin", t, func() {
		snap := stats.Analyze(spinsOf(1, 2, 3, 33))

		Convey("Then its gap should be zero", func() {
			So(snap.Gaps[33], ShouldResemble, stats.FiniteGap(0))
			So(snap.Gaps[1], ShouldResemble, stats.FiniteGap(3))
		})
	})

	Convey("Given spins with lightning annotations", t, func() {
		spins := []model.Spin{
			{Number: 7, Lightning: []model.Lightning{{Number: 7, Multiplier: 500.0}, {Number: 8}}},
			{Number: 9, Lightning: []model.Lightning{{Number: 10}}},
			{Number: 11},
			{Number: 12, Lightning: []model.Lightning{{Number: 12}}},
		}
		snap := stats.Analyze(spins)

		Convey("Then hits should count spins that won on their own bonus number", func() {
			So(snap.LightningHits, ShouldEqual, 2)
			So(snap.LightningRate, ShouldEqual, 0.5)
			So(len(snap.LightningExamples), ShouldEqual, 2)
			So(snap.LightningExamples[0].Number, ShouldEqual, 7)
		})
	})

	Convey("Given spins with numbers off the wheel", t, func() {
		snap := stats.Analyze([]model.Spin{{Number: 40}, {Number: 3}, {Number: -2}})

		Convey("Then they should be excluded without failing", func() {
			So(snap.TotalSpins, ShouldEqual, 1)
			So(snap.Frequency[3], ShouldEqual, 1)
			So(snap.Gaps[3], ShouldResemble, stats.FiniteGap(0))
		})
	})
}

func TestGapJSON(t *testing.T) {
	Convey("Given finite and infinite gaps", t, func() {
		gaps := []stats.Gap{stats.FiniteGap(4), stats.InfiniteGap()}

		Convey("When encoded", func() {
			b, err := json.Marshal(gaps)

			Convey("Then infinite should be encoded as inf", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `[4,"inf"]`)
			})

			Convey("And decoding should round-trip", func() {
				var back []stats.Gap
				So(json.Unmarshal(b, &back), ShouldBeNil)
				So(back, ShouldResemble, gaps)
			})
		})

		Convey("Then infinity should order above every finite gap", func() {
			So(stats.FiniteGap(1000).Less(stats.InfiniteGap()), ShouldBeTrue)
			So(stats.InfiniteGap().Less(stats.FiniteGap(1000)), ShouldBeFalse)
			So(stats.FiniteGap(1).Less(stats.FiniteGap(2)), ShouldBeTrue)
			So(stats.InfiniteGap().String(), ShouldEqual, "inf")
		})
	})
}
