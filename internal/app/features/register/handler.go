// internal/app/features/register/handler.go
package register

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/dalemusser/resourcehub/internal/app/system/formutil"
	"github.com/dalemusser/resourcehub/internal/app/system/inputval"
	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
	}
}

type registerInput struct {
	FullName string `validate:"required,max=100" label:"Full name"`
	Pseudo   string `validate:"max=50" label:"Pseudo"`
	Email    string `validate:"required,email,max=254" label:"Email"`
	City     string `validate:"max=100" label:"City"`
	Address  string `validate:"max=200" label:"Address"`
	Password string `validate:"required,min=8,max=128" label:"Password"`
	Confirm  string `validate:"eqfield=Password" label:"Password confirmation"`
}

type formData struct {
	formutil.Base
	FullName    string
	Pseudo      string
	Email       string
	City        string
	Address     string
	MinPassword int
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, in registerInput, msg string) {
	data := formData{
		FullName:    in.FullName,
		Pseudo:      in.Pseudo,
		Email:       in.Email,
		City:        in.City,
		Address:     in.Address,
		MinPassword: userstore.MinPasswordLength,
	}
	formutil.SetBase(&data.Base, r, "Register", "/")
	if msg != "" {
		data.SetError(msg)
	}
	w.WriteHeader(status)
	templates.Render(w, r, "register", data)
}

// ServeRegister shows the registration form.
// GET /register
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	if _, signed := auth.CurrentUser(r); signed {
		http.Redirect(w, r, "/resources", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, registerInput{}, "")
}

// HandleRegister creates the account and signs the new user in.
// POST /register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/register")
		return
	}

	in := registerInput{
		FullName: normalize.Name(r.FormValue("full_name")),
		Pseudo:   normalize.Name(r.FormValue("pseudo")),
		Email:    normalize.Email(r.FormValue("email")),
		City:     normalize.Name(r.FormValue("city")),
		Address:  normalize.Name(r.FormValue("address")),
		Password: r.FormValue("password"),
		Confirm:  r.FormValue("confirm"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.render(w, r, http.StatusBadRequest, in, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName: in.FullName,
		Pseudo:   in.Pseudo,
		Email:    in.Email,
		City:     in.City,
		Address:  in.Address,
		Role:     models.RoleUser,
	}, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, userstore.ErrDuplicateEmail):
		h.render(w, r, http.StatusConflict, in, "An account with that email already exists.")
		return
	case errors.Is(err, userstore.ErrWeakPassword):
		h.render(w, r, http.StatusBadRequest, in, err.Error())
		return
	default:
		h.ErrLog.LogServerError(w, r, "create user failed", err, "Unable to create your account.", "/register")
		return
	}

	h.AuditLog.UserRegistered(ctx, r, u)

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		// The account exists; let them sign in by hand.
		h.Log.Error("save session after register failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/resources", http.StatusSeeOther)
}
