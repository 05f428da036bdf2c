package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dataset pipeline metrics. Registered on the default registry and exposed
// through the /metrics endpoint.
var (
	// DatasetLoads counts raw file parses, by outcome (ok, error).
	DatasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aq",
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Raw data file parses, by outcome.",
	}, []string{"outcome"})

	// DatasetCacheHits counts loader cache hits.
	DatasetCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aq",
		Subsystem: "dataset",
		Name:      "cache_hits_total",
		Help:      "Loader cache hits for the raw data file.",
	})

	// RowsPrepared counts rows surviving preparation.
	RowsPrepared = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aq",
		Subsystem: "dataset",
		Name:      "rows_prepared_total",
		Help:      "Rows that survived preparation.",
	})

	// RowsDropped counts rows dropped during preparation, by reason
	// (timestamp, pm10).
	RowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aq",
		Subsystem: "dataset",
		Name:      "rows_dropped_total",
		Help:      "Rows dropped during preparation, by reason.",
	}, []string{"reason"})

	// ExportsGenerated counts export downloads, by format (csv, xlsx).
	ExportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aq",
		Subsystem: "export",
		Name:      "generated_total",
		Help:      "Export blobs generated, by format.",
	}, []string{"format"})
)
