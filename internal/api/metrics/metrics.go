// Package metrics defines the business metrics exported by the Sweetify API.
// HTTP request metrics come from echoprometheus; everything catalog or auth
// specific lives here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sweetify"

// ── Inventory ────────────────────────────────────────────────────────────────

// UnitsPurchasedTotal counts units removed from stock by successful purchases.
var UnitsPurchasedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "units_purchased_total",
	Help:      "Total number of sweet units sold.",
})

// UnitsRestockedTotal counts units added by admin restocks.
var UnitsRestockedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "units_restocked_total",
	Help:      "Total number of sweet units added through restock.",
})

// PurchaseFailuresTotal counts rejected purchases.
// Label:
//   - reason: "insufficient_stock", "not_found", "duplicate", "validation" or "error"
var PurchaseFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchase_failures_total",
		Help:      "Total number of purchases that did not change stock.",
	},
	[]string{"reason"},
)

// CatalogChangesTotal counts catalog writes.
// Label:
//   - operation: "create", "update" or "delete"
var CatalogChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_changes_total",
		Help:      "Total number of successful catalog writes, by operation.",
	},
	[]string{"operation"},
)

// ── Auth ─────────────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts.",
	},
	[]string{"action", "result"},
)

func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
