package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithMetricPrefix("p"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.slotFailures.Inc()

			Convey("Then names and labels follow the options", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() == "test_unit_p_slot_failures_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		m := Default()

		Convey("When solver outcomes are recorded", func() {
			before := value(m.solvesTotal.WithLabelValues(OutcomeOK))
			failures := value(m.slotFailures)
			unmet := value(m.unmetRequirements)

			RecordSolve(OutcomeOK, 12.5)
			RecordSlotFailure()
			RecordUnmetRequirement(3)
			RecordUnmetRequirement(0)

			Convey("Then the counters move", func() {
				So(value(m.solvesTotal.WithLabelValues(OutcomeOK)), ShouldEqual, before+1)
				So(value(m.slotFailures), ShouldEqual, failures+1)
				So(value(m.unmetRequirements), ShouldEqual, unmet+3)
			})
		})

		Convey("When recording is disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			hits := value(m.estimatorCacheHits)
			RecordEstimatorCacheHit()

			Convey("Then nothing is recorded", func() {
				So(value(m.estimatorCacheHits), ShouldEqual, hits)
			})
		})

		Convey("When recording the rest of the surface", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordAssign(OutcomeError)
					RecordExhaustedSlot()
					RecordBackgroundCandidates(120)
					RecordEstimatorCacheMiss()
					UpdateStoredResults(4)
					RecordHTTPRequest("/solve", "POST", "200")
					RecordHTTPRequestDuration("/solve", "POST", "200", 0.01)
					RecordErrorByComponent("solver", "no_feasible_background")
					RecordErrorByEndpoint("/solve", "POST", "bad_request")
					RecordErrorLatency("solver", "invalid_request", 3)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
			})
		})

		Convey("Then the registry exposes the solver families", func() {
			RecordExhaustedSlot()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "roster_solver_exhausted_slots_total")
		})
	})
}

func value(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return -1
	}
	if out.Counter != nil {
		return out.Counter.GetValue()
	}
	return out.Gauge.GetValue()
}
