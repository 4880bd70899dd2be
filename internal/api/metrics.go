package api

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instrumenta las llamadas salientes del cliente.
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	unauthorized prometheus.Counter
}

// NewMetrics crea y registra los collectors (default registerer si reg es nil).
// Registrar dos veces sobre el mismo registry reutiliza los collectors existentes.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quicknotify",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests al backend por método, ruta y status",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quicknotify",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latencia de los requests al backend",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quicknotify",
			Subsystem: "client",
			Name:      "unauthorized_total",
			Help:      "Respuestas 401 (redirects al login)",
		}),
	}

	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.unauthorized, err = register(reg, m.unauthorized); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// normalizePath saca la query y colapsa ids numéricos para no explotar la
// cardinalidad del label.
func normalizePath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return idSegment.ReplaceAllString(p, "/:id$1")
}

func (m *Metrics) observe(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	p := normalizePath(path)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, p, code).Inc()
	m.duration.WithLabelValues(method, p).Observe(d.Seconds())
}

func (m *Metrics) unauthorizedInc() {
	if m == nil {
		return
	}
	m.unauthorized.Inc()
}
