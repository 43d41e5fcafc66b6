package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/resources/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/resources/a", "/resources/b", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `resourcehub_http_requests_total{code="404",method="GET",route="/resources/{id}"} 2`)
	assert.Contains(t, body, `resourcehub_http_requests_total{code="200",method="GET",route="/ok"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestObserveLoginAndList(t *testing.T) {
	m := metrics.New()
	m.ObserveLogin(metrics.LoginSuccess)
	m.ObserveLogin(metrics.LoginFailed)
	m.ObserveLogin(metrics.LoginFailed)
	m.ObserveList(3)

	expected := `
# HELP resourcehub_login_attempts_total Login attempts by outcome.
# TYPE resourcehub_login_attempts_total counter
resourcehub_login_attempts_total{outcome="failed"} 2
resourcehub_login_attempts_total{outcome="success"} 1
`
	require.NoError(t, promtest.GatherAndCompare(m.Registry(), strings.NewReader(expected), "resourcehub_login_attempts_total"))

	var nilMetrics *metrics.Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveLogin(metrics.LoginSuccess)
		nilMetrics.ObserveList(1)
	})
}

func TestRegisterCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateCategory(ctx, "Science")
	fx.CreateResource(ctx, "Ressource 1", testutil.ResourceOpts{})

	m := metrics.New()
	require.NoError(t, m.RegisterCatalog(db))

	expected := `
# HELP resourcehub_categories Categories.
# TYPE resourcehub_categories gauge
resourcehub_categories 1
# HELP resourcehub_resources Resources by visibility.
# TYPE resourcehub_resources gauge
resourcehub_resources{visibility="public"} 1
resourcehub_resources{visibility="restricted"} 0
`
	require.NoError(t, promtest.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"resourcehub_categories", "resourcehub_resources"))
}
