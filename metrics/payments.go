package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		OrdersCreated,
		PaymentVerifyRequests,
		PaymentVerifyDuration,
		BookingsExpired,
	)
}

var (
	// result: ok|invalid_amount|gateway_error|store_error|replayed|in_flight
	OrdersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlust_orders_created_total",
			Help: "Calls to /create-order by result.",
		},
		[]string{"result"},
	)

	// result: ok|fail
	// reason (fail only): missing_info|invalid_signature
	PaymentVerifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlust_payment_verify_requests_total",
			Help: "Calls to /verify-payment by result and reason.",
		},
		[]string{"result", "reason"},
	)

	PaymentVerifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderlust_payment_verify_duration_seconds",
			Help:    "Duration of the /verify-payment handler in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"result"},
	)

	BookingsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderlust_bookings_expired_total",
			Help: "Bookings moved to expired by the sweeper.",
		},
	)
)
