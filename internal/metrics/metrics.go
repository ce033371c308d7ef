package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the booking core.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	ConflictsDetected prometheus.Counter
	EventsBroadcast   prometheus.Counter
}

// New registers the instruments against reg and returns them. Tests pass a
// fresh registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "rooms_bookings_created_total",
			Help: "Total number of bookings created",
		}),
		BookingsCancelled: f.NewCounter(prometheus.CounterOpts{
			Name: "rooms_bookings_cancelled_total",
			Help: "Total number of bookings cancelled",
		}),
		ConflictsDetected: f.NewCounter(prometheus.CounterOpts{
			Name: "rooms_booking_conflicts_total",
			Help: "Total number of booking attempts rejected for overlap",
		}),
		EventsBroadcast: f.NewCounter(prometheus.CounterOpts{
			Name: "rooms_events_broadcast_total",
			Help: "Total number of events handed to the fan-out",
		}),
	}
}
