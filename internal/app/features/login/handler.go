// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	"github.com/dalemusser/resourcehub/internal/app/store/audit"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/dalemusser/resourcehub/internal/app/system/formutil"
	"github.com/dalemusser/resourcehub/internal/app/system/inputval"
	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/app/system/ratelimit"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultReturn is where a successful sign-in lands without a return URL.
const DefaultReturn = "/resources"

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Metrics    *metrics.Metrics
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
		Metrics:    m,
	}
}

type loginFormData struct {
	formutil.Base
	Email     string
	ReturnURL string
}

type loginInput struct {
	Email    string `validate:"required,email" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

// ServeLogin shows the sign-in form.
// GET /login
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, signed := auth.CurrentUser(r); signed {
		http.Redirect(w, r, urlutil.SafeReturn(query.Get(r, "return"), "", DefaultReturn), http.StatusSeeOther)
		return
	}
	data := loginFormData{ReturnURL: query.Get(r, "return")}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	templates.Render(w, r, "login", data)
}

// HandleLoginPost checks the credentials and starts a session.
// POST /login
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	in := loginInput{
		Email:    normalize.Email(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderFormWithError(w, r, http.StatusBadRequest, res.First(), in.Email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, in.Email); !ok {
			h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedRateLimit, nil, in.Email, "rate limited")
			h.Metrics.ObserveLogin(metrics.LoginRateLimited)
			h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, in.Email)
			return
		}
	}

	u, err := h.Users.Authenticate(ctx, in.Email, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrInvalidCredentials):
		if u == nil {
			h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUserNotFound, nil, in.Email, "no such user")
		} else {
			h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, &u.ID, in.Email, "wrong password")
		}
		h.Metrics.ObserveLogin(metrics.LoginFailed)
		h.renderFormWithError(w, r, http.StatusUnauthorized, "Incorrect email or password.", in.Email)
		return
	case errors.Is(err, userstore.ErrUserDisabled):
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUserDisabled, &u.ID, in.Email, "account disabled")
		h.Metrics.ObserveLogin(metrics.LoginFailed)
		h.renderFormWithError(w, r, http.StatusForbidden,
			"Your account is currently disabled. Please contact an administrator.", in.Email)
		return
	default:
		h.ErrLog.LogServerError(w, r, "authenticate user", err, "A server error occurred.", "/login")
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.renderFormWithError(w, r, http.StatusInternalServerError, "Unable to create session. Please try again.", in.Email)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(in.Email)
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, in.Email)
	h.Metrics.ObserveLogin(metrics.LoginSuccess)

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", DefaultReturn)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, email string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	data := loginFormData{Email: email, ReturnURL: ret}
	formutil.SetBase(&data.Base, r, "Sign in", "/")
	data.SetError(msg)
	w.WriteHeader(status)
	templates.Render(w, r, "login", data)
}
