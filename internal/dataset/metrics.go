package dataset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var datasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "insights_dataset_rows",
	Help: "Rows loaded per dataset at startup.",
}, []string{"dataset"})

// RecordRows publishes the row count of a loaded dataset
func RecordRows(dataset string, n int) {
	datasetRows.WithLabelValues(dataset).Set(float64(n))
}
