package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
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
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
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
		Convey("When recording trigger metrics", func() {
			Convey("Then it should record processed triggers", func() {
				So(func() {
					RecordTriggerProcessed("rsvp")
					RecordTriggerProcessed("attendance")
					RecordTriggerProcessed("scheduled")
				}, ShouldNotPanic)
			})

			Convey("And it should record duplicate deliveries", func() {
				So(func() {
					RecordTriggerDuplicate()
					RecordTriggerDuplicate()
				}, ShouldNotPanic)
			})

			Convey("And it should record evaluation latency", func() {
				So(func() {
					RecordEvaluationLatency(10.0)
					RecordEvaluationLatency(25.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording grant metrics", func() {
			Convey("Then it should record granted awards", func() {
				So(func() {
					RecordAwardGranted("first_dip")
					RecordAwardGranted("hat_trick")
				}, ShouldNotPanic)
			})

			Convey("And it should record conflicts and evaluator errors", func() {
				So(func() {
					RecordGrantConflict()
					RecordEvaluatorError("rsvp")
				}, ShouldNotPanic)
			})

			Convey("And it should record store latencies", func() {
				So(func() {
					RecordLedgerInsertLatency(2.0)
					RecordHistoryQueryLatency(5.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording sweep metrics", func() {
			Convey("Then it should record sweep outcomes", func() {
				So(func() {
					RecordSweep(150, 12, 3200.0, 1_770_000_000)
				}, ShouldNotPanic)
			})

			Convey("And it should update queue and worker gauges", func() {
				So(func() {
					UpdateQueueSize(50)
					UpdateQueueCapacity(10_000)
					UpdateWorkerCount(4)
					UpdateWorkerCount(0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("triggers", "POST", "200")
				RecordHTTPRequestDuration("triggers", "POST", "200", 12.5)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the metrics registry", t, func() {
		Convey("When gathering after recording", func() {
			RecordTriggerProcessed("rsvp")
			families, err := GetRegistry().Gather()

			Convey("Then the engine metrics are registered", func() {
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["accolade_engine_triggers_processed_total"], ShouldBeTrue)
			})
		})
	})
}
