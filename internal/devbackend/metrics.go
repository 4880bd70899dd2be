package devbackend

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight *prometheus.GaugeVec
}

func newHTTPMetrics(reg prometheus.Registerer) (*httpMetrics, error) {
	m := &httpMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quicknotify_devbackend_http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quicknotify_devbackend_http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "quicknotify_devbackend_http_inflight_requests",
			Help: "Requests en vuelo",
		}, []string{"method"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration, m.inflight} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// middleware usa el patrón de ruta de chi como label ("/api/template/{id}")
// para no explotar la cardinalidad con ids.
func (m *httpMetrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		m.inflight.WithLabelValues(method).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			m.inflight.WithLabelValues(method).Dec()
			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

// storeCollector expone el tamaño del store como gauges.
type storeCollector struct {
	s *store

	templatesDesc *prometheus.Desc
	recordsDesc   *prometheus.Desc
}

func newStoreCollector(s *store) *storeCollector {
	return &storeCollector{
		s:             s,
		templatesDesc: prometheus.NewDesc("quicknotify_devbackend_templates", "Plantillas guardadas", nil, nil),
		recordsDesc:   prometheus.NewDesc("quicknotify_devbackend_records", "Registros de envío por estado", []string{"status"}, nil),
	}
}

func (c *storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.templatesDesc
	ch <- c.recordsDesc
}

func (c *storeCollector) Collect(ch chan<- prometheus.Metric) {
	_, templates := c.s.listTemplates("", 1, 1)
	_, success, failed := c.s.counts(time.Time{}, time.Time{})
	ch <- prometheus.MustNewConstMetric(c.templatesDesc, prometheus.GaugeValue, float64(templates))
	ch <- prometheus.MustNewConstMetric(c.recordsDesc, prometheus.GaugeValue, float64(success), "success")
	ch <- prometheus.MustNewConstMetric(c.recordsDesc, prometheus.GaugeValue, float64(failed), "failed")
}

// registerCollector registra el collector ignorando duplicados.
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}
