package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sampleCount returns the summed counter value or histogram sample count of
// the named family, or -1 when the family is absent.
func sampleCount(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			}
		}
		return total
	}
	return -1
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is created with defaults", func() {
			manager := NewManager(WithRegistry(registry))

			Convey("Then it registers under the barhop namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.RecordRecommendation(OutcomeOK, 1.5)
				So(sampleCount(registry, "barhop_recommender_recommendations_total"), ShouldEqual, 1.0)
			})
		})

		Convey("When a manager is created with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithLatencyBuckets([]float64{0.1, 0.5, 1.0}),
				WithDistanceBuckets([]float64{500, 1000, 2000}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithRegistry(registry),
			)

			Convey("Then metric names follow the options", func() {
				manager.RecordItinerary(4, 1200, 1)
				So(sampleCount(registry, "test_unit_itinerary_stops"), ShouldEqual, 1.0)
				So(sampleCount(registry, "test_unit_selector_backfills_total"), ShouldEqual, 1.0)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithLatencyBuckets(nil),
				WithDistanceBuckets(nil),
				WithConstLabels(nil),
				WithRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				manager.RecordDatasetLoad(OutcomeOK, 120, 3, 12)
				So(sampleCount(registry, "barhop_recommender_dataset_venues"), ShouldEqual, 120.0)
				So(sampleCount(registry, "barhop_recommender_dataset_rejected_rows"), ShouldEqual, 3.0)
			})
		})
	})
}

func TestDatasetLoadOutcomes(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithRegistry(registry))

		Convey("When a failed load follows a successful one", func() {
			manager.RecordDatasetLoad(OutcomeOK, 50, 0, 5)
			manager.RecordDatasetLoad(OutcomeError, 0, 0, 1)

			Convey("Then the venue gauge keeps the last good size", func() {
				So(sampleCount(registry, "barhop_recommender_dataset_venues"), ShouldEqual, 50.0)
				So(sampleCount(registry, "barhop_recommender_dataset_reloads_total"), ShouldEqual, 2.0)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then every recorder is safe to call", func() {
			So(func() {
				RecordRecommendation(OutcomeInvalid, 0.2)
				RecordItinerary(6, 2400, 0)
				RecordDatasetLoad(OutcomeOK, 10, 1, 3)
				UpdateSnapshotTimestamp(time.Now())
				RecordRepositoryQueryLatency(0.1)
				RecordHTTPRequest("/recommendations", "POST", "200")
				RecordHTTPRequestDuration("/recommendations", "POST", "200", 4)
				RecordErrorByComponent("api", "validation_error")
				RecordErrorByType("validation_error", "low")
				RecordErrorByEndpoint("/recommendations", "POST", "validation_error")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry exposes them", func() {
			RecordHTTPRequest("/healthz", "GET", "200")
			So(GetRegistry(), ShouldNotBeNil)
			So(sampleCount(GetRegistry(), "barhop_recommender_http_requests_total"), ShouldBeGreaterThan, 0)
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given many goroutines recording at once", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithRegistry(registry))

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				manager.RecordRecommendation(OutcomeOK, 1)
			}()
		}
		wg.Wait()

		Convey("Then no increments are lost", func() {
			So(sampleCount(registry, "barhop_recommender_recommendations_total"), ShouldEqual, 20.0)
		})
	})
}
