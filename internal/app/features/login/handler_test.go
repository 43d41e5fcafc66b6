package login_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	"github.com/dalemusser/resourcehub/internal/app/features/login"
	"github.com/dalemusser/resourcehub/internal/app/store/audit"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/app/system/ratelimit"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type env struct {
	h  *login.Handler
	fx *testutil.Fixtures
	m  *metrics.Metrics
}

func newEnv(t *testing.T, limit int) env {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	m := metrics.New()
	al := auditlog.New(audit.New(db), logger, auditlog.DefaultConfig())
	h := login.NewHandler(db, testutil.NewSessionManager(t), uierrors.NewErrorLogger(logger), al,
		ratelimit.NewLoginLimiter(limit, time.Minute), m, logger)
	return env{h: h, fx: testutil.NewFixtures(t, db), m: m}
}

func loginCount(t *testing.T, m *metrics.Metrics, outcome string) float64 {
	t.Helper()
	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "resourcehub_login_attempts_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func post(h *login.Handler, form url.Values) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.HandleLoginPost(rec, testutil.NewFormRequest("/login", form))
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	e := newEnv(t, 10)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := e.fx.CreateUser(ctx, "Test User", "user@example.com", models.RoleUser)

	rec := post(e.h, url.Values{"email": {"user@example.com"}, "password": {testutil.TestPassword}})

	rec.AssertRedirect(t, login.DefaultReturn)
	assert.NotNil(t, rec.SessionCookie(), "expected session cookie")
	assert.Equal(t, 1.0, loginCount(t, e.m, "success"))

	n, err := e.fx.DB().Collection("audit_events").CountDocuments(ctx, bson.M{
		"event_type": audit.EventLoginSuccess, "user_id": u.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	e := newEnv(t, 10)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateUser(ctx, "Test User", "user@example.com", models.RoleUser)

	rec := post(e.h, url.Values{
		"email":    {"  USER@example.com "},
		"password": {testutil.TestPassword},
		"return":   {"/favorites"},
	})
	rec.AssertRedirect(t, "/favorites")

	rec = post(e.h, url.Values{
		"email":    {"user@example.com"},
		"password": {testutil.TestPassword},
		"return":   {"https://evil.example.com"},
	})
	rec.AssertRedirect(t, login.DefaultReturn)
}

func TestHandleLoginPost_Failures(t *testing.T) {
	e := newEnv(t, 100)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateUser(ctx, "Test User", "user@example.com", models.RoleUser)
	off := e.fx.CreateUser(ctx, "Off", "off@example.com", models.RoleUser)
	_, err := e.fx.DB().Collection("users").UpdateByID(ctx, off.ID, bson.M{"$set": bson.M{"status": models.UserStatusDisabled}})
	require.NoError(t, err)

	tests := []struct {
		name   string
		form   url.Values
		status int
		body   string
	}{
		{"empty email", url.Values{"password": {"x"}}, http.StatusBadRequest, "Email is required."},
		{"bad email", url.Values{"email": {"nope"}, "password": {"x"}}, http.StatusBadRequest, "A valid email address is required."},
		{"missing password", url.Values{"email": {"user@example.com"}}, http.StatusBadRequest, "Password is required."},
		{"unknown user", url.Values{"email": {"who@example.com"}, "password": {"x"}}, http.StatusUnauthorized, "Incorrect email or password."},
		{"wrong password", url.Values{"email": {"user@example.com"}, "password": {"wrong"}}, http.StatusUnauthorized, "Incorrect email or password."},
		{"disabled", url.Values{"email": {"off@example.com"}, "password": {testutil.TestPassword}}, http.StatusForbidden, "currently disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(e.h, tt.form)
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.body)
			assert.Nil(t, rec.SessionCookie())
		})
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	e := newEnv(t, 2)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fx.CreateUser(ctx, "Test User", "user@example.com", models.RoleUser)

	// The per-email budget is half the per-IP one: one attempt.
	rec := post(e.h, url.Values{"email": {"user@example.com"}, "password": {"wrong"}})
	rec.AssertStatus(t, http.StatusUnauthorized)

	rec = post(e.h, url.Values{"email": {"user@example.com"}, "password": {testutil.TestPassword}})
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertContains(t, "Too many sign-in attempts")
	assert.Equal(t, 1.0, loginCount(t, e.m, "rate_limited"))
}

func TestServeLogin(t *testing.T) {
	e := newEnv(t, 10)

	rec := testutil.NewRecorder()
	e.h.ServeLogin(rec, testutil.NewRequest(http.MethodGet, "/login?return=/favorites"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `name="return" value="/favorites"`)

	rec = testutil.NewRecorder()
	e.h.ServeLogin(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/login", testutil.RegularUser()))
	rec.AssertRedirect(t, login.DefaultReturn)
}
