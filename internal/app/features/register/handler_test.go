package register_test

import (
	"net/http"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	"github.com/dalemusser/resourcehub/internal/app/features/register"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/indexes"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/resourcehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	userstore.PasswordCost = bcrypt.MinCost
}

func newHandler(t *testing.T) (*register.Handler, *testutil.Fixtures) {
	t.Helper()
	testutil.BootTemplates(t)
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, indexes.EnsureAll(ctx, db))

	logger := zap.NewNop()
	h := register.NewHandler(db, testutil.NewSessionManager(t), uierrors.NewErrorLogger(logger), nil, logger)
	return h, testutil.NewFixtures(t, db)
}

func validForm() url.Values {
	return url.Values{
		"full_name": {"Ada Lovelace"},
		"pseudo":    {"ada"},
		"email":     {"Ada@Example.com"},
		"city":      {"London"},
		"password":  {"difference-engine"},
		"confirm":   {"difference-engine"},
	}
}

func TestHandleRegister_Success(t *testing.T) {
	h, fx := newHandler(t)

	rec := testutil.NewRecorder()
	h.HandleRegister(rec, testutil.NewFormRequest("/register", validForm()))

	rec.AssertRedirect(t, "/resources")
	assert.NotNil(t, rec.SessionCookie())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := userstore.New(fx.DB()).Authenticate(ctx, "ada@example.com", "difference-engine")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "London", u.City)
}

func TestHandleRegister_Validation(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "Taken", "taken@example.com", models.RoleUser)

	tests := []struct {
		name   string
		edit   func(url.Values)
		status int
		body   string
	}{
		{"missing name", func(v url.Values) { v.Del("full_name") }, http.StatusBadRequest, "Full name is required."},
		{"bad email", func(v url.Values) { v.Set("email", "not-an-email") }, http.StatusBadRequest, "A valid email address is required."},
		{"short password", func(v url.Values) { v.Set("password", "short"); v.Set("confirm", "short") }, http.StatusBadRequest, "Password must be at least 8 characters."},
		{"mismatch", func(v url.Values) { v.Set("confirm", "something-else") }, http.StatusBadRequest, "Password confirmation does not match."},
		{"duplicate", func(v url.Values) { v.Set("email", "TAKEN@example.com") }, http.StatusConflict, "already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(form)
			rec := testutil.NewRecorder()
			h.HandleRegister(rec, testutil.NewFormRequest("/register", form))
			rec.AssertStatus(t, tt.status)
			rec.AssertContains(t, tt.body)
			assert.Nil(t, rec.SessionCookie())
		})
	}
}

func TestHandleRegister_KeepsInput(t *testing.T) {
	h, _ := newHandler(t)
	form := validForm()
	form.Set("confirm", "nope")

	rec := testutil.NewRecorder()
	h.HandleRegister(rec, testutil.NewFormRequest("/register", form))
	rec.AssertContains(t, `value="Ada Lovelace"`)
	rec.AssertContains(t, `value="ada@example.com"`)
}

func TestServeRegister_SignedInRedirects(t *testing.T) {
	h, _ := newHandler(t)
	rec := testutil.NewRecorder()
	h.ServeRegister(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/register", testutil.RegularUser()))
	rec.AssertRedirect(t, "/resources")
}
