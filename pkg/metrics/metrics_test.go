package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a private registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then its collectors are registered under the namespace", func() {
				So(m, ShouldNotBeNil)
				m.reportsGenerated.WithLabelValues("en", "request").Inc()

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_generated_total")
			})
		})

		Convey("When ignoring empty option values", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry))
			So(m.namespace, ShouldEqual, "clubperf")
			So(m.subsystem, ShouldEqual, "reports")
			So(m.histogramBuckets, ShouldNotBeEmpty)
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording report metrics", func() {
			before := testutil.ToFloat64(globalManager.reportsGenerated.WithLabelValues("sv", "store"))
			RecordReportGenerated("sv", "store")
			after := testutil.ToFloat64(globalManager.reportsGenerated.WithLabelValues("sv", "store"))
			So(after-before, ShouldEqual, 1)
		})

		Convey("When recording samples", func() {
			before := testutil.ToFloat64(globalManager.samplesIngested)
			RecordSamplesIngested(12)
			RecordSamplesIngested(0)
			So(testutil.ToFloat64(globalManager.samplesIngested)-before, ShouldEqual, 12)
		})

		Convey("When recording an athlete without a category", func() {
			before := testutil.ToFloat64(globalManager.athletesScored.WithLabelValues("none"))
			RecordAthleteScored("")
			So(testutil.ToFloat64(globalManager.athletesScored.WithLabelValues("none"))-before, ShouldEqual, 1)
		})

		Convey("When recording rules and cache lookups", func() {
			before := testutil.ToFloat64(globalManager.rulesTriggered.WithLabelValues("symmetry"))
			RecordRulesTriggered("symmetry", 2)
			So(testutil.ToFloat64(globalManager.rulesTriggered.WithLabelValues("symmetry"))-before, ShouldEqual, 2)

			hits := testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues(CacheHit))
			RecordCacheLookup(CacheHit)
			So(testutil.ToFloat64(globalManager.cacheLookups.WithLabelValues(CacheHit))-hits, ShouldEqual, 1)
		})

		Convey("When recording the remaining metrics", func() {
			So(func() {
				RecordReportBuildLatency(1.5)
				RecordStoreQueryLatency("memory", "ok", 0.2)
				UpdateStoredSamples(42)
				RecordHTTPRequest("/reports/cod", "POST", "200")
				RecordHTTPRequestDuration("/reports/cod", "POST", "200", 0.01)
				RecordErrorByComponent("api", "bad_request")
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.storedSamples), ShouldEqual, 42)
		})

		Convey("When recording ingestion metrics", func() {
			UpdateIngestQueue(3, 100)
			So(testutil.ToFloat64(globalManager.ingestQueueSize), ShouldEqual, 3)
			So(testutil.ToFloat64(globalManager.ingestQueueCapacity), ShouldEqual, 100)

			before := testutil.ToFloat64(globalManager.ingestEnqueued.WithLabelValues("duplicate"))
			RecordIngestOutcome("duplicate", 2)
			RecordIngestOutcome("duplicate", 0)
			So(testutil.ToFloat64(globalManager.ingestEnqueued.WithLabelValues("duplicate"))-before, ShouldEqual, 2)

			UpdateIngestWorkers(4)
			UpdateDedupeSize(9)
			So(testutil.ToFloat64(globalManager.ingestWorkersActive), ShouldEqual, 4)
			So(testutil.ToFloat64(globalManager.ingestDedupeSize), ShouldEqual, 9)
			So(func() { RecordIngestWriteLatency(0.4) }, ShouldNotPanic)
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}

func TestRegisterCollector(t *testing.T) {
	Convey("Given an external collector", t, func() {
		c := prometheus.NewCounter(prometheus.CounterOpts{Name: "clubperf_test_external_total", Help: "test"})

		Convey("Then it registers once and repeats are ignored", func() {
			So(RegisterCollector(c), ShouldBeNil)
			So(RegisterCollector(c), ShouldBeNil)
			c.Inc()
			So(testutil.ToFloat64(c), ShouldEqual, 1)
			So(customRegistry.Unregister(c), ShouldBeTrue)
		})
	})
}
