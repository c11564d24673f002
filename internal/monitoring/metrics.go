package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the scraper.
type Metrics struct {
	PagesVisited      prometheus.Counter
	JudgmentsIngested prometheus.Counter
	RowsSkipped       prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesVisited: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_pages_visited_total",
			Help: "The total number of listing pages visited",
		}),
		JudgmentsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_judgments_ingested_total",
			Help: "The total number of judgment records inserted into the sink",
		}),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_rows_skipped_total",
			Help: "The total number of rows skipped as already ingested",
		}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'download_failed', 'sink_insert_failed'
	}
}

func (m *Metrics) IncPagesVisited() {
	m.PagesVisited.Inc()
}

func (m *Metrics) IncJudgmentsIngested() {
	m.JudgmentsIngested.Inc()
}

func (m *Metrics) IncRowsSkipped() {
	m.RowsSkipped.Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
