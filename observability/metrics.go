package observability

import (
	"time"
	"vision-pilot/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vision_pilot"

// Metrics exposes the core counters to Prometheus. A nil *Metrics is a no-op.
type Metrics struct {
	analysisTotal     *prometheus.CounterVec
	analysisDuration  *prometheus.HistogramVec
	stageDuration     *prometheus.HistogramVec
	cacheLookups      *prometheus.CounterVec
	safetyDecisions   *prometheus.CounterVec
	memoryUsed        prometheus.Gauge
	pendingConfirms   prometheus.Gauge
	loadedSpecialists prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		analysisTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_total",
			Help:      "Pipeline runs by mode and outcome",
		}, []string{"mode", "outcome"}),
		analysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Whole pipeline duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Analysis cache lookups",
		}, []string{"result"}),
		safetyDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "safety_decisions_total",
			Help:      "Safety validator decisions by status and risk",
		}, []string{"status", "risk"}),
		memoryUsed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_memory_used_mb",
			Help:      "Memory granted by the resource ledger",
		}),
		pendingConfirms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_confirmations",
			Help:      "Confirmations waiting for the user",
		}),
		loadedSpecialists: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_specialists",
			Help:      "Specialists currently loaded",
		}),
	}
}

func (m *Metrics) ObserveAnalysis(mode domain.Mode, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.analysisTotal.WithLabelValues(string(mode), outcome).Inc()
	m.analysisDuration.WithLabelValues(string(mode)).Observe(d.Seconds())
}

func (m *Metrics) ObserveStage(stage domain.Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SafetyDecision(status domain.SafetyStatus, risk domain.RiskLevel) {
	if m == nil {
		return
	}
	m.safetyDecisions.WithLabelValues(string(status), risk.String()).Inc()
}

func (m *Metrics) SetMemoryUsed(mb int64) {
	if m == nil {
		return
	}
	m.memoryUsed.Set(float64(mb))
}

func (m *Metrics) SetPendingConfirmations(n int) {
	if m == nil {
		return
	}
	m.pendingConfirms.Set(float64(n))
}

func (m *Metrics) SetLoadedSpecialists(n int) {
	if m == nil {
		return
	}
	m.loadedSpecialists.Set(float64(n))
}
