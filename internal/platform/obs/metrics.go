package obs

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	opDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tour_engine_operation_duration_seconds",
		Help:    "Duration of engine and adapter operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "outcome"})

	assignmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tour_engine_assignments_total",
		Help: "Confirm-assignment commands by result",
	}, []string{"result"})

	toursPlanned = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tour_engine_tours_planned",
		Help: "Number of tours produced by the latest planning request",
	})

	backlogAlerts = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tour_engine_backlog_alerts",
		Help: "Backlog clients waiting beyond the alert threshold in the latest inbox request",
	})
)

// Register exposes the engine collectors on reg. If reg is nil the default
// registerer is used. Collectors already registered are left in place.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	for _, c := range []prometheus.Collector{opDuration, assignmentsTotal, toursPlanned, backlogAlerts} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func RecordAssignment(result string) { assignmentsTotal.WithLabelValues(result).Inc() }

func SetToursPlanned(n int) { toursPlanned.Set(float64(n)) }

func SetBacklogAlerts(n int) { backlogAlerts.Set(float64(n)) }
