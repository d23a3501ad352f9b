package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymspot_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymspot_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymspot_slot_reservations_total",
			Help: "Slot reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymspot_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymspot_checkins_total",
			Help: "Total number of booking check-ins",
		},
	)

	SlotsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymspot_slots_created_total",
			Help: "Time slots created",
		},
		[]string{"mode"},
	)

	MembershipsPurchasedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymspot_memberships_purchased_total",
			Help: "Membership passes purchased",
		},
		[]string{"pass"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymspot_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymspot_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

// Reservation outcomes recorded on every reserve attempt.
const (
	OutcomeReserved = "reserved"
	OutcomeSlotFull = "slot_full"
	OutcomeNotFound = "not_found"
	OutcomeBusy     = "busy"
	OutcomeError    = "error"
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservation(outcome string) {
	ReservationsTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordCheckIn() {
	CheckInsTotal.Inc()
}

func RecordSlotsCreated(mode string, count int) {
	SlotsCreatedTotal.WithLabelValues(mode).Add(float64(count))
}

func RecordMembershipPurchase(passName string) {
	MembershipsPurchasedTotal.WithLabelValues(passName).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
