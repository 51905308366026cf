package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookapp_operations_total",
		Help: "Catalog and account operations by name and result.",
	}, []string{"operation", "result"})

	SuggestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookapp_suggest_duration_seconds",
		Help:    "Time to compute a nearest-pages suggestion.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	BooksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookapp_books_total",
		Help: "Number of books currently in the catalog.",
	})

	SeedDownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookapp_seed_downloads_total",
		Help: "Seed-data download attempts by result.",
	}, []string{"result"})
)
