package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vacationhub"

// Prom holds every collector the API exports. A nil *Prom is valid for the
// Inc/Observe helpers, which makes metrics optional in tests.
type Prom struct {
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	HTTPInFlight *prometheus.GaugeVec

	DBLatency *prometheus.HistogramVec
	DBErrors  *prometheus.CounterVec

	LikeOps      *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
	CacheLookups *prometheus.CounterVec
	ImageUploads *prometheus.CounterVec
}

func counter(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func histogram(subsystem, name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		HTTPRequests: counter("http", "requests_total", "HTTP requests by route and status.", "method", "route", "status"),
		HTTPLatency: histogram("http", "request_duration_seconds", "HTTP request latency.",
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}, "method", "route", "status"),
		HTTPInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served.",
		}, []string{"method", "route"}),

		DBLatency: histogram("db", "query_duration_seconds", "Repository call latency by logical op.",
			[]float64{0.002, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2}, "op", "status"),
		DBErrors: counter("db", "errors_total", "Repository failures by logical op and class.", "op", "class"),

		// result=ok|already_liked|not_found|error
		LikeOps:      counter("likes", "operations_total", "Like and unlike calls by outcome.", "op", "result"),
		AuthFailures: counter("auth", "failures_total", "Requests rejected by the guard.", "reason"),
		CacheLookups: counter("cache", "lookups_total", "Read-through cache lookups.", "key", "result"),
		ImageUploads: counter("images", "uploads_total", "Vacation image uploads by outcome.", "result"),
	}

	reg.MustRegister(
		p.HTTPRequests, p.HTTPLatency, p.HTTPInFlight,
		p.DBLatency, p.DBErrors,
		p.LikeOps, p.AuthFailures, p.CacheLookups, p.ImageUploads,
	)
	return p
}

// GinHandleMiddleware records per-route request metrics. Unrouted requests
// share one label so scanners cannot blow up cardinality.
func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method

		inFlight := p.HTTPInFlight.WithLabelValues(method, route)
		inFlight.Inc()
		start := time.Now()

		ctx.Next()

		inFlight.Dec()
		status := strconv.Itoa(ctx.Writer.Status())
		p.HTTPRequests.WithLabelValues(method, route, status).Inc()
		p.HTTPLatency.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}
}

func (p *Prom) IncLike(op, result string) {
	if p == nil {
		return
	}
	p.LikeOps.WithLabelValues(op, result).Inc()
}

func (p *Prom) IncAuthFailure(reason string) {
	if p == nil {
		return
	}
	p.AuthFailures.WithLabelValues(reason).Inc()
}

// IncCacheLookup counts a hit, miss or error for the named cache entry.
func (p *Prom) IncCacheLookup(key, result string) {
	if p == nil {
		return
	}
	p.CacheLookups.WithLabelValues(key, result).Inc()
}

func (p *Prom) IncImageUpload(result string) {
	if p == nil {
		return
	}
	p.ImageUploads.WithLabelValues(result).Inc()
}
