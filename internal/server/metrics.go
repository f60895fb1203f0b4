package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chmouel/go-wfc-report/internal/dashboard"
)

// Metrics holds the Prometheus collectors of a dashboard server. Each server
// owns its registry so several can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	endpoints      prometheus.Gauge
	faults         prometheus.Gauge
	testFileErrors prometheus.Gauge
	reloadsTotal   *prometheus.CounterVec
	filterRequests prometheus.Counter
}

// NewMetrics creates and registers the dashboard metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		endpoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wfc_report_endpoints",
			Help: "Number of endpoints declared by the loaded report.",
		}),
		faults: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wfc_report_faults",
			Help: "Total number of faults in the loaded report.",
		}),
		testFileErrors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wfc_report_test_file_errors",
			Help: "Generated test files that could not be loaded.",
		}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wfc_report_reloads_total",
			Help: "Report reloads by result.",
		}, []string{"result"}),
		filterRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wfc_report_filter_requests_total",
			Help: "Endpoint filter requests served.",
		}),
	}

	m.registry.MustRegister(
		m.endpoints,
		m.faults,
		m.testFileErrors,
		m.reloadsTotal,
		m.filterRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Update refreshes the gauges from the current session.
func (m *Metrics) Update(s *dashboard.Session) {
	doc := s.Report()
	n := 0
	if rest := doc.ProblemDetails.Rest; rest != nil {
		n = len(rest.EndpointIDs)
	}
	m.endpoints.Set(float64(n))
	m.faults.Set(float64(doc.Faults.TotalNumber))

	errs := 0
	for _, d := range s.Diagnostics() {
		if d.Kind == dashboard.KindTestFile {
			errs++
		}
	}
	m.testFileErrors.Set(float64(errs))
}

// Reloaded counts a reload attempt.
func (m *Metrics) Reloaded(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloadsTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
