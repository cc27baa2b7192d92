package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SeatsLocked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "busline_seats_locked_total",
			Help: "Seats successfully transitioned AVAILABLE to RESERVED",
		},
	)

	SeatLockConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "busline_seat_lock_conflicts_total",
			Help: "Lock attempts refused because a seat was not available",
		},
	)

	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "busline_bookings_created_total",
			Help: "Bookings created in PENDING state",
		},
	)

	BookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "busline_bookings_cancelled_total",
			Help: "Bookings cancelled, by origin (user or sweep)",
		},
		[]string{"origin"},
	)

	PaymentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "busline_payments_processed_total",
			Help: "Payment settlements, by outcome",
		},
		[]string{"status"},
	)

	SeatsReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "busline_seats_reclaimed_total",
			Help: "Expired seat locks released by the seat-level sweep",
		},
	)

	BookingsReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "busline_bookings_reclaimed_total",
			Help: "Expired pending bookings cancelled by the booking-level sweep",
		},
	)
)
