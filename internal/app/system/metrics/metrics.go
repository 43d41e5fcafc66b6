// Package metrics exposes Prometheus collectors for the HTTP layer, login
// outcomes and catalog totals.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	metricsstore "github.com/dalemusser/resourcehub/internal/app/store/metrics"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

const namespace = "resourcehub"

// Metrics owns a registry and the application collectors.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
	listed   prometheus.Histogram
}

// New builds a registry with Go runtime and process collectors plus the
// application metrics.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		listed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resource_list_size",
			Help:      "Number of resources returned by the list view after visibility and filters.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.logins, m.listed,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so /resources/{id} is one series rather than one per id.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(code)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Login outcomes.
const (
	LoginSuccess     = "success"
	LoginFailed      = "failed"
	LoginRateLimited = "rate_limited"
)

// ObserveLogin counts one login attempt. A nil receiver is a no-op.
func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// ObserveList records the size of a computed resource list.
func (m *Metrics) ObserveList(n int) {
	if m == nil {
		return
	}
	m.listed.Observe(float64(n))
}

// RegisterCatalog adds gauges for catalog-wide totals, read from Mongo on
// each scrape.
func (m *Metrics) RegisterCatalog(db *mongo.Database) error {
	return m.reg.Register(&catalogCollector{db: db})
}

var (
	catalogUsers      = prometheus.NewDesc(namespace+"_users", "Registered users.", nil, nil)
	catalogCategories = prometheus.NewDesc(namespace+"_categories", "Categories.", nil, nil)
	catalogResources  = prometheus.NewDesc(namespace+"_resources", "Resources by visibility.", []string{"visibility"}, nil)
	catalogComments   = prometheus.NewDesc(namespace+"_comments", "Comments.", nil, nil)
)

type catalogCollector struct {
	db *mongo.Database
}

func (c *catalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- catalogUsers
	ch <- catalogCategories
	ch <- catalogResources
	ch <- catalogComments
}

func (c *catalogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	n := metricsstore.FetchSiteCounts(ctx, c.db)
	ch <- prometheus.MustNewConstMetric(catalogUsers, prometheus.GaugeValue, float64(n.Users))
	ch <- prometheus.MustNewConstMetric(catalogCategories, prometheus.GaugeValue, float64(n.Categories))
	ch <- prometheus.MustNewConstMetric(catalogResources, prometheus.GaugeValue, float64(n.Public), "public")
	ch <- prometheus.MustNewConstMetric(catalogResources, prometheus.GaugeValue, float64(n.Resources-n.Public), "restricted")
	ch <- prometheus.MustNewConstMetric(catalogComments, prometheus.GaugeValue, float64(n.Comments))
}
