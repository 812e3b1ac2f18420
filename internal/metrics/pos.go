package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_payments_logged_total",
			Help: "Total number of logged payments",
		},
		[]string{"method"},
	)

	PaymentAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_payment_amount_minor_units_total",
			Help: "Sum of logged payment amounts in the currency's minor unit",
		},
		[]string{"method", "currency"},
	)

	InventoryServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_inventory_served_total",
			Help: "Inventory listings served, by the tier that produced them",
		},
		[]string{"source"},
	)

	StockDecrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_stock_decrements_total",
			Help: "Sold-item stock decrements, by outcome",
		},
		[]string{"outcome"},
	)

	GHLTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_ghl_token_refreshes_total",
			Help: "GHL OAuth token refresh attempts, by outcome",
		},
		[]string{"outcome"},
	)

	GHLRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_ghl_request_duration_seconds",
			Help:    "GHL API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_job_runs_total",
			Help: "Scheduled job runs, by job and outcome",
		},
		[]string{"job", "outcome"},
	)
)

// RegisterEventClients exposes the number of connected event stream clients as a gauge.
func RegisterEventClients(count func() int) {
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pos_event_clients",
			Help: "Number of connected event stream clients",
		}, func() float64 {
			return float64(count())
		}),
	)
}

// Outcome returns the outcome label for err.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
