package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(registry),
			WithNamespace("test"),
			WithSubsystem("unit"),
			WithConstLabels(map[string]string{"table": "xxxtreme"}),
		)

		Convey("When a normalization pass is recorded", func() {
			m.RecordNormalization(10, 3, 2)

			Convey("Then ingestion counters should advance", func() {
				So(testutil.ToFloat64(m.recordsIngested), ShouldEqual, 10)
				So(testutil.ToFloat64(m.recordsDropped), ShouldEqual, 3)
				So(testutil.ToFloat64(m.lightningDropped), ShouldEqual, 2)
			})
		})

		Convey("When a report is recorded", func() {
			m.RecordReport("combo", 500, 0.04, 1.5)

			Convey("Then analysis metrics should reflect it", func() {
				So(testutil.ToFloat64(m.spinsAnalyzed), ShouldEqual, 500)
				So(testutil.ToFloat64(m.reportsGenerated.WithLabelValues("combo")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.windowSize), ShouldEqual, 500)
				So(testutil.ToFloat64(m.lightningRate), ShouldEqual, 0.04)
			})
		})

		Convey("When fetch and HTTP events are recorded", func() {
			m.RecordFetchLatency(120)
			m.RecordFetchError()
			m.RecordHTTPRequest("analyze", "POST", "200", 3)
			m.RecordHTTPError("report", "GET", "upstream", "high")

			Convey("Then the counters should be exported with the const labels", func() {
				So(testutil.ToFloat64(m.fetchErrors), ShouldEqual, 1)
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("analyze", "POST", "200")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByType.WithLabelValues("upstream", "high")), ShouldEqual, 1)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetName(), ShouldStartWith, "test_unit_")
				So(families[0].GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "xxxtreme")
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When events are recorded", func() {
			m.RecordNormalization(5, 5, 5)
			m.RecordFetchError()

			Convey("Then nothing should be counted", func() {
				So(testutil.ToFloat64(m.recordsIngested), ShouldEqual, 0)
				So(testutil.ToFloat64(m.fetchErrors), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package helpers should not panic", func() {
			So(func() {
				RecordNormalization(1, 0, 0)
				RecordReport("hot", 1, 0, 0.1)
				RecordFetchLatency(1)
				RecordFetchError()
				RecordHTTPRequest("stats", "GET", "200", 1)
				RecordHTTPError("stats", "GET", "client_error", "medium")
			}, ShouldNotPanic)
		})

		Convey("Then the registry should expose spinlens metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			So(families[0].GetName(), ShouldStartWith, "spinlens_analyzer_")
		})
	})
}
