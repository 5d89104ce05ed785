// Package metrics defines and registers all custom Prometheus metrics for
// the EthicalBank API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ethicalbank"

// ── Query pipeline metrics ────────────────────────────────────────────────────

// QueriesTotal counts completed query-answering transactions.
// Labels:
//   - query_type: the routed type ("loan", "account", "general", …)
//   - validation_status: "matched" or "partial"
var QueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of answered queries, by type and validation status.",
	},
	[]string{"query_type", "validation_status"},
)

// QueriesFailedTotal counts queries that failed before an audit record could
// be written.
// Label:
//   - reason: "completion_unavailable", "invalid_output", or "internal"
var QueriesFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_failed_total",
		Help:      "Total number of queries that failed without producing an audit record.",
	},
	[]string{"reason"},
)

// QueryDuration measures end-to-end query answering latency, model call
// included.
// Label:
//   - query_type: the routed type
var QueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Duration of the full query pipeline from request to audit write.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{"query_type"},
)

// ── Ingestion metrics ─────────────────────────────────────────────────────────

// TransactionsAcceptedTotal counts transactions accepted into the ingestion
// queue, by batch size class.
// Label:
//   - mode: "single" or "batch"
var TransactionsAcceptedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_accepted_total",
		Help:      "Total number of transactions accepted for ingestion.",
	},
	[]string{"mode"},
)

// ── Privacy metrics ───────────────────────────────────────────────────────────

// ConsentUpdatesTotal counts consent table changes.
var ConsentUpdatesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consent_updates_total",
		Help:      "Total number of permission updates applied.",
	},
)
