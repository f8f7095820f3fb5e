package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargeledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chargeledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CreditRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chargeledger_credit_requests_total",
			Help: "Total number of credit requests created",
		},
	)

	CreditApprovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargeledger_credit_approvals_total",
			Help: "Credit request approval attempts by outcome",
		},
		[]string{"outcome"},
	)

	ChargeSalesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargeledger_charge_sales_total",
			Help: "Charge sale attempts by outcome",
		},
		[]string{"outcome"},
	)

	LockBusyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargeledger_lock_busy_total",
			Help: "Units of work aborted because a row lock could not be acquired in time",
		},
		[]string{"operation"},
	)

	ReconciliationConsistent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chargeledger_reconciliation_consistent",
			Help: "1 when the last global reconciliation balanced, 0 otherwise",
		},
	)

	ReconciliationDrift = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chargeledger_reconciliation_drift",
			Help: "Difference between spent credits and completed charge sales at last global reconciliation",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargeledger_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chargeledger_events_published_total",
			Help: "Domain events published by topic and status",
		},
		[]string{"topic", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordApproval(outcome string) {
	CreditApprovalsTotal.WithLabelValues(outcome).Inc()
}

func RecordChargeSale(outcome string) {
	ChargeSalesTotal.WithLabelValues(outcome).Inc()
}

func RecordReconciliation(consistent bool, drift int64) {
	if consistent {
		ReconciliationConsistent.Set(1)
	} else {
		ReconciliationConsistent.Set(0)
	}
	ReconciliationDrift.Set(float64(drift))
}
