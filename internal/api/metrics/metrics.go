// Package metrics defines the custom Prometheus metrics of the marketplace
// API. Metrics register with the default registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportsCreatedTotal counts newly submitted reports.
var ReportsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_created_total",
		Help:      "Total number of reports submitted.",
	},
)

// ReportApprovalsTotal counts approval decisions.
// Label:
//   - approved: "true" or "false"
var ReportApprovalsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_approvals_total",
		Help:      "Total number of approval changes, by resulting state.",
	},
	[]string{"approved"},
)

// ReportsDeletedTotal counts removed reports.
var ReportsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_deleted_total",
		Help:      "Total number of reports deleted.",
	},
)

// ── Estimate metrics ──────────────────────────────────────────────────────────

// EstimatesTotal counts estimate requests.
// Label:
//   - result: "priced" when comparables were found, "empty" otherwise
var EstimatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimates_total",
		Help:      "Total number of price estimates served, by result.",
	},
	[]string{"result"},
)

// EstimateDuration measures how long the comparable query takes.
var EstimateDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimate_duration_seconds",
		Help:      "Duration of price estimate computation.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Review metrics ────────────────────────────────────────────────────────────

// ReviewsCreatedTotal counts reviews by star rating.
// Label:
//   - rating: "1" to "5"
var ReviewsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews written, by rating.",
	},
	[]string{"rating"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts identity operations.
// Labels:
//   - operation: "signup", "signin" or "signout"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of sign-up, sign-in and sign-out attempts.",
	},
	[]string{"operation", "result"},
)

// Result returns the result label for err.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
