// Package metrics defines and registers the custom Prometheus metrics of the
// expense API. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics register with the default Prometheus registry on import.
// HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense_tracker"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts successful logouts.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of revoked sessions.",
	},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// UsersCreatedTotal counts accounts created through the API.
// Label:
//   - role: ADMIN, MANAGER or EMPLOYEE
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by role.",
	},
	[]string{"role"},
)

// ── Expense metrics ───────────────────────────────────────────────────────────

// ExpensesSubmittedTotal counts submitted expenses.
var ExpensesSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_submitted_total",
		Help:      "Total number of expenses submitted.",
	},
)

// ExpenseAmountSubmitted observes the amount of each submitted expense.
var ExpenseAmountSubmitted = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "expense_amount",
		Help:      "Distribution of submitted expense amounts.",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 5000, 10000},
	},
)

// ExpensesResolvedTotal counts resolutions.
// Label:
//   - status: "approved" or "rejected"
var ExpensesResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_resolved_total",
		Help:      "Total number of expenses resolved, by resulting status.",
	},
	[]string{"status"},
)

// ExpenseResolveErrorsTotal counts rejected resolution attempts.
// Label:
//   - reason: "invalid_status", "invalid_transition", "already_resolved",
//     "not_found", "forbidden" or "error"
var ExpenseResolveErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expense_resolve_errors_total",
		Help:      "Total number of failed expense resolutions, by reason.",
	},
	[]string{"reason"},
)
