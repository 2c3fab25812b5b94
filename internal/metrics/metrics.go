package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "homecare"

// ClientMetrics counts session client outcomes. A nil *ClientMetrics records nothing.
type ClientMetrics struct {
	loginsTotal     *prometheus.CounterVec
	refreshesTotal  *prometheus.CounterVec
	retriesTotal    prometheus.Counter
	expiredTotal    prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "logins_total",
			Help:      "Login attempts by role and result",
		}, []string{"role", "result"}),
		refreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "refreshes_total",
			Help:      "Refresh endpoint calls by result",
		}, []string{"result"}),
		retriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "retries_total",
			Help:      "Requests re-issued after a 401",
		}),
		expiredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "sessions_expired_total",
			Help:      "Sessions cleared after an unrecoverable 401",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of authenticated API round trips",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.loginsTotal, m.refreshesTotal, m.retriesTotal, m.expiredTotal, m.requestDuration)
	return m
}

func (m *ClientMetrics) ObserveLogin(role, result string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(role, result).Inc()
}

func (m *ClientMetrics) ObserveRefresh(result string) {
	if m == nil {
		return
	}
	m.refreshesTotal.WithLabelValues(result).Inc()
}

func (m *ClientMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retriesTotal.Inc()
}

func (m *ClientMetrics) ObserveSessionExpired() {
	if m == nil {
		return
	}
	m.expiredTotal.Inc()
}

func (m *ClientMetrics) ObserveRequest(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, status).Observe(seconds)
}

// APIMetrics counts dev API traffic. A nil *APIMetrics records nothing.
type APIMetrics struct {
	requestsTotal  *prometheus.CounterVec
	loginsTotal    *prometheus.CounterVec
	refreshesTotal *prometheus.CounterVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "devapi",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status",
		}, []string{"method", "status"}),
		loginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "devapi",
			Name:      "logins_total",
			Help:      "Login requests by role and result",
		}, []string{"role", "result"}),
		refreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "devapi",
			Name:      "refreshes_total",
			Help:      "Token refresh requests by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.loginsTotal, m.refreshesTotal)
	return m
}

func (m *APIMetrics) ObserveRequest(method, status string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, status).Inc()
}

func (m *APIMetrics) ObserveLogin(role, result string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(role, result).Inc()
}

func (m *APIMetrics) ObserveRefresh(result string) {
	if m == nil {
		return
	}
	m.refreshesTotal.WithLabelValues(result).Inc()
}
