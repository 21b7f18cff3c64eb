package providers

import (
	"dashcfg/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(probe string)
	IncCacheMisses(probe string)
	ObservePersistenceDuration(duration time.Duration)
	IncSettingsSaves(ok bool)
	IncActionsTotal(action string, ok bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	settingsSaves       *prometheus.CounterVec
	actionsTotal        *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(probe string) {
	m.cacheHits.WithLabelValues(probe).Inc()
}

func (m *MetricsProvider) IncCacheMisses(probe string) {
	m.cacheMisses.WithLabelValues(probe).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSettingsSaves(ok bool) {
	m.settingsSaves.WithLabelValues(resultLabel(ok)).Inc()
}

func (m *MetricsProvider) IncActionsTotal(action string, ok bool) {
	m.actionsTotal.WithLabelValues(action, resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashcfg_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashcfg_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashcfg_cache_hits_total",
			Help: "Device probe results served from cache",
		}, []string{"probe"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashcfg_cache_misses_total",
			Help: "Device probes that had to run",
		}, []string{"probe"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashcfg_settings_save_duration_seconds",
			Help:    "Duration of settings file writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		settingsSaves: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashcfg_settings_saves_total",
			Help: "Settings file writes by result",
		}, []string{"result"}),

		actionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dashcfg_actions_total",
			Help: "Device actions (wifi, hotspot, update, restart, reboot) by result",
		}, []string{"action", "result"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSettingsSaves(_ bool)                          {}
func (n *noopMetrics) IncActionsTotal(_ string, _ bool)                 {}
