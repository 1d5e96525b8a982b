// Package metrics define as métricas Prometheus da API de contas.
//
// Cada instância possui seu próprio registry, exposto em /metrics por Handler().
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "accounts"

// Metrics agrupa os coletores da aplicação e implementa ports.AuthMetrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal conta requisições por método, rota e status
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration mede a latência por método e rota
	HTTPRequestDuration *prometheus.HistogramVec
	// LoginAttemptsTotal conta logins por versão e resultado (success/failure)
	LoginAttemptsTotal *prometheus.CounterVec
	// RegistrationsTotal conta cadastros por versão
	RegistrationsTotal *prometheus.CounterVec
}

// New cria e registra os coletores em um registry próprio
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests, by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts, by API version and outcome.",
			},
			[]string{"version", "outcome"},
		),
		RegistrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of successful user registrations, by API version.",
			},
			[]string{"version"},
		),
	}
}

// ObserveRequest registra uma requisição HTTP concluída
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) LoginAttempt(version, outcome string) {
	m.LoginAttemptsTotal.WithLabelValues(version, outcome).Inc()
}

func (m *Metrics) Registered(version string) {
	m.RegistrationsTotal.WithLabelValues(version).Inc()
}

// Handler expõe o registry no formato de exposição do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
