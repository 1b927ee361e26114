// Package metrics exposes Prometheus counters for engine operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's operation counters. Using an injected struct
// instead of package-level globals keeps tests isolated: each test can build
// its own registry.
type Metrics struct {
	TransactionsCreated prometheus.Counter
	TransactionsDeleted prometheus.Counter
	ImportsRun          prometheus.Counter
	RowsImported        prometheus.Counter
	RowsSkipped         prometheus.Counter
}

// New registers the engine counters on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_transactions_created_total",
			Help: "Number of transactions added to the ledger.",
		}),
		TransactionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_transactions_deleted_total",
			Help: "Number of transactions deleted from the ledger.",
		}),
		ImportsRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_imports_total",
			Help: "Number of CSV import batches run.",
		}),
		RowsImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_import_rows_imported_total",
			Help: "Number of CSV rows committed by imports.",
		}),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "financify_import_rows_skipped_total",
			Help: "Number of CSV rows skipped as duplicates.",
		}),
	}
}
