package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Métricas del ciclo de vida de tokens y del borde HTTP.
// Todos los métodos aceptan receiver nil (métricas desactivadas).
type Metrics struct {
	statesIssued      prometheus.Counter
	statesConsumed    *prometheus.CounterVec
	tokenExchanges    *prometheus.CounterVec
	tokenRefreshes    *prometheus.CounterVec
	recordingsFetches *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	reg prometheus.Registerer
}

// New crea y registra las métricas en reg (o en el default si es nil).
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		reg: reg,
		statesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oauth_states_issued_total",
			Help: "States CSRF emitidos",
		}),
		statesConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_states_consumed_total",
			Help: "Validaciones de state en callbacks",
		}, []string{"result"}), // ok|invalid|missing
		tokenExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_token_exchanges_total",
			Help: "Intercambios authorization_code contra el proveedor",
		}, []string{"result"}), // ok|error
		tokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_token_refreshes_total",
			Help: "Refresh de access tokens",
		}, []string{"result"}), // ok|error|shared
		recordingsFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recordings_fetches_total",
			Help: "Resultado de cada fetch de grabaciones",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	var err error
	if m.statesIssued, err = register(reg, m.statesIssued); err != nil {
		return nil, err
	}
	for _, cv := range []**prometheus.CounterVec{
		&m.statesConsumed, &m.tokenExchanges, &m.tokenRefreshes, &m.recordingsFetches, &m.httpRequests,
	} {
		if *cv, err = register(reg, *cv); err != nil {
			return nil, err
		}
	}
	if m.httpDuration, err = register(reg, m.httpDuration); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterCredentialsGauge expone la cantidad de credenciales en memoria.
func (m *Metrics) RegisterCredentialsGauge(count func() int) error {
	if m == nil {
		return nil
	}
	_, err := register(m.reg, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "oauth_credentials",
		Help: "Usuarios con credencial almacenada",
	}, func() float64 { return float64(count()) }))
	return err
}

// register devuelve el collector ya registrado cuando reg tiene uno equivalente.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return c, err
		}
		existing, ok := are.ExistingCollector.(C)
		if !ok {
			return c, fmt.Errorf("metrics: collector registrado con otro tipo: %T", are.ExistingCollector)
		}
		return existing, nil
	}
	return c, nil
}

// Handler expone /metrics para el gatherer dado (o el default si es nil).
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) StateIssued() {
	if m != nil {
		m.statesIssued.Inc()
	}
}

func (m *Metrics) StateConsumed(result string) {
	if m != nil {
		m.statesConsumed.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) TokenExchange(result string) {
	if m != nil {
		m.tokenExchanges.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) TokenRefresh(result string) {
	if m != nil {
		m.tokenRefreshes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) RecordingsFetch(outcome string) {
	if m != nil {
		m.recordingsFetches.WithLabelValues(outcome).Inc()
	}
}

// HTTPRequest registra un request terminado. route es el patrón (p.ej. /user/{user_id}), no el path.
func (m *Metrics) HTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}
