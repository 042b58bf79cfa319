package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording evaluation metrics", func() {
			Convey("Then it should record evaluations by tier", func() {
				So(func() {
					RecordEvaluation("perfect")
					RecordEvaluation("excellent")
					RecordEvaluation("low")
				}, ShouldNotPanic)
			})

			Convey("And it should record evaluation latency", func() {
				So(func() {
					RecordEvaluationLatency(1.0)
					RecordEvaluationLatency(2.5)
				}, ShouldNotPanic)
			})

			Convey("And it should record gate failures", func() {
				So(func() {
					RecordGateFailure("location")
					RecordGateFailure("gender")
				}, ShouldNotPanic)
			})

			Convey("And it should record rule swaps", func() {
				So(func() {
					RecordRulesSwap()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording board and memo metrics", func() {
			Convey("Then it should record match updates and errors", func() {
				So(func() {
					RecordMatchUpdate()
					RecordMatchError()
				}, ShouldNotPanic)
			})

			Convey("And it should record memo activity", func() {
				So(func() {
					RecordMemoHit()
					RecordMemoMiss()
					UpdateMemoSize(123)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording operational metrics", func() {
			Convey("Then it should update queue gauges", func() {
				So(func() {
					UpdateQueueSize(1000)
					UpdateQueueCapacity(100000)
					UpdateQueueUtilization(0.01)
				}, ShouldNotPanic)
			})

			Convey("And it should record queue activity", func() {
				So(func() {
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueLatency(3.0)
				}, ShouldNotPanic)
			})

			Convey("And it should update population gauges", func() {
				So(func() {
					UpdateWorkerCount(8)
					UpdateTotalSeekers(100)
					UpdateTotalPostings(500)
				}, ShouldNotPanic)
			})

			Convey("And it should record worker activity", func() {
				So(func() {
					RecordWorkerProcessingLatency(5.0)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests and durations", func() {
				So(func() {
					RecordHTTPRequest("/evaluate", "POST", "200")
					RecordHTTPRequestDuration("/evaluate", "POST", "200", 12.0)
					RecordErrorByComponent("http", "client_error")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(50)
					RecordSystemGCPauseTime(0.2)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the exposition registry", t, func() {
		registry := GetRegistry()

		Convey("Then it should gather the registered metric families", func() {
			So(registry, ShouldNotBeNil)

			RecordEvaluation("good")
			families, err := registry.Gather()
			So(err, ShouldBeNil)

			found := false
			for _, f := range families {
				if f.GetName() == "matcha_suitability_evaluations_total" {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
