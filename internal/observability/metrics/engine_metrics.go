package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"

	LookupHit  = "hit"
	LookupMiss = "miss"
)

// EngineMetrics captures matching-engine health signals: distribution job
// outcomes, per-supplier notification outcomes, and score-cache efficiency.
type EngineMetrics struct {
	distributionJobs  *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	distributeSeconds prometheus.Histogram
	cacheLookups      *prometheus.CounterVec
	schedulerRuns     *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

var (
	engineMetricsOnce sync.Once
	engineMetrics     *EngineMetrics
)

// Engine returns the singleton engine metrics registry.
func Engine() *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineMetrics = newEngineMetrics(prometheus.DefaultRegisterer)
	})
	return engineMetrics
}

// ResetEngineMetricsForTest resets the engine metrics singleton for tests.
func ResetEngineMetricsForTest() {
	engineMetricsOnce = sync.Once{}
	engineMetrics = nil
}

func newEngineMetrics(registerer prometheus.Registerer) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto{registerer}

	return &EngineMetrics{
		distributionJobs: factory.counterVec(prometheus.CounterOpts{
			Name: "matchengine_distribution_jobs_total",
			Help: "Distribution job executions by result.",
		}, []string{"result"}),
		notifications: factory.counterVec(prometheus.CounterOpts{
			Name: "matchengine_notifications_total",
			Help: "Per-supplier notification attempts by result.",
		}, []string{"result"}),
		distributeSeconds: factory.histogram(prometheus.HistogramOpts{
			Name:    "matchengine_distribution_duration_seconds",
			Help:    "Wall time of one distribution job.",
			Buckets: prometheus.DefBuckets,
		}),
		cacheLookups: factory.counterVec(prometheus.CounterOpts{
			Name: "matchengine_rating_cache_lookups_total",
			Help: "Score cache lookups by outcome.",
		}, []string{"outcome"}),
		schedulerRuns: factory.counterVec(prometheus.CounterOpts{
			Name: "matchengine_scheduler_runs_total",
			Help: "Background job executions by job and result.",
		}, []string{"job", "result"}),
		httpDuration: factory.histogramVec(prometheus.HistogramOpts{
			Name:    "matchengine_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *EngineMetrics) IncDistributionJob(result string) {
	if m == nil {
		return
	}
	m.distributionJobs.WithLabelValues(result).Inc()
}

func (m *EngineMetrics) IncNotification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}

func (m *EngineMetrics) ObserveDistributeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.distributeSeconds.Observe(d.Seconds())
}

func (m *EngineMetrics) IncCacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) IncSchedulerRun(job, result string) {
	if m == nil {
		return
	}
	m.schedulerRuns.WithLabelValues(job, result).Inc()
}

// GinMiddleware records request latency per route.
func GinMiddleware(m *EngineMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// promauto is a tiny register-or-reuse helper so repeated construction in
// tests does not panic on double registration.
type promauto struct {
	registerer prometheus.Registerer
}

func (f promauto) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(opts, labels)
	if err := f.registerer.Register(vec); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return already.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return vec
}

func (f promauto) histogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := f.registerer.Register(h); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Histogram); ok {
				return existing
			}
		}
		panic(err)
	}
	return h
}

func (f promauto) histogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(opts, labels)
	if err := f.registerer.Register(vec); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return already.ExistingCollector.(*prometheus.HistogramVec)
		}
		panic(err)
	}
	return vec
}
