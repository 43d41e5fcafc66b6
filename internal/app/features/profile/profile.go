// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	metricsstore "github.com/dalemusser/resourcehub/internal/app/store/metrics"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/formutil"
	"github.com/dalemusser/resourcehub/internal/app/system/inputval"
	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// profileData is the view model for the profile page.
type profileData struct {
	formutil.Base

	// Editable
	FullName string
	Pseudo   string
	City     string
	Address  string

	// Read-only
	Email       string
	Role        string
	MemberSince string
	Stats       metricsstore.UserStats
	Mine        []ownResource

	MinPassword int
	Success     template.HTML
}

// ownResource is one line of the "My resources" list.
type ownResource struct {
	ID          string
	Name        string
	Status      string
	StatusLabel string
	CreatedAt   string
}

type profileInput struct {
	FullName string `validate:"required,max=100" label:"Full name"`
	Pseudo   string `validate:"max=50" label:"Pseudo"`
	City     string `validate:"max=100" label:"City"`
	Address  string `validate:"max=200" label:"Address"`
}

type passwordInput struct {
	Current string `validate:"required" label:"Current password"`
	New     string `validate:"required,min=8,max=128" label:"New password"`
	Confirm string `validate:"eqfield=New" label:"Password confirmation"`
}

// ServeProfile renders the user's profile page.
// GET /profile
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	var success string
	switch r.URL.Query().Get("success") {
	case "profile":
		success = "Profile saved."
	case "password":
		success = "Password changed successfully."
	}
	h.render(w, r, http.StatusOK, uid, nil, "", success)
}

// render loads the user and shows the page. in, when set, overrides the
// stored profile fields so a rejected form keeps what was typed.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, uid primitive.ObjectID, in *profileInput, errMsg, success string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		uierrors.RenderNotFound(w, r, "User not found.", "/resources")
		return
	}
	stats, err := metricsstore.FetchUserStats(ctx, h.DB, uid)
	if err != nil {
		h.Log.Warn("user stats incomplete", zap.String("user_id", uid.Hex()), zap.Error(err))
	}
	// Creators see their own resources whatever the status.
	created, err := h.Resources.FetchByCreator(ctx, uid)
	if err != nil {
		h.Log.Warn("load own resources failed", zap.String("user_id", uid.Hex()), zap.Error(err))
	}
	mine := make([]ownResource, 0, len(created))
	for _, res := range created {
		mine = append(mine, ownResource{
			ID:          res.ID.Hex(),
			Name:        res.Name,
			Status:      string(res.Status),
			StatusLabel: res.Status.Label(),
			CreatedAt:   res.CreatedAt.Format("2006-01-02"),
		})
	}

	data := profileData{
		FullName:    user.FullName,
		Pseudo:      user.Pseudo,
		City:        user.City,
		Address:     user.Address,
		Email:       user.Email,
		Role:        roleLabel(user.Role),
		MemberSince: user.CreatedAt.Format("2006-01-02"),
		Stats:       stats,
		Mine:        mine,
		MinPassword: userstore.MinPasswordLength,
		Success:     template.HTML(template.HTMLEscapeString(success)),
	}
	if in != nil {
		data.FullName, data.Pseudo, data.City, data.Address = in.FullName, in.Pseudo, in.City, in.Address
	}
	formutil.SetBase(&data.Base, r, "Profile", "/resources")
	if errMsg != "" {
		data.SetError(errMsg)
	}
	w.WriteHeader(status)
	templates.Render(w, r, "profile", data)
}

// HandleUpdateProfile saves the editable profile fields.
// POST /profile
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	in := profileInput{
		FullName: normalize.Name(r.FormValue("full_name")),
		Pseudo:   normalize.Name(r.FormValue("pseudo")),
		City:     normalize.Name(r.FormValue("city")),
		Address:  normalize.Name(r.FormValue("address")),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.render(w, r, http.StatusBadRequest, uid, &in, res.First(), "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Users.UpdateProfile(ctx, uid, userstore.ProfileUpdate{
		FullName: in.FullName,
		Pseudo:   in.Pseudo,
		City:     in.City,
		Address:  in.Address,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "Failed to save your profile.", "/profile")
		return
	}

	http.Redirect(w, r, "/profile?success=profile", http.StatusSeeOther)
}

// HandleChangePassword processes the password change form.
// POST /profile/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	in := passwordInput{
		Current: r.FormValue("current_password"),
		New:     r.FormValue("new_password"),
		Confirm: r.FormValue("confirm_password"),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.render(w, r, http.StatusBadRequest, uid, nil, res.First(), "")
		return
	}
	if in.New == in.Current {
		h.render(w, r, http.StatusBadRequest, uid, nil, "New password cannot be the same as your current password.", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Users.ChangePassword(ctx, uid, in.Current, in.New)
	switch {
	case errors.Is(err, userstore.ErrInvalidCredentials):
		h.render(w, r, http.StatusBadRequest, uid, nil, "Current password is incorrect.", "")
		return
	case errors.Is(err, userstore.ErrWeakPassword):
		h.render(w, r, http.StatusBadRequest, uid, nil, err.Error(), "")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "change password failed", err, "Failed to update password.", "/profile")
		return
	}

	http.Redirect(w, r, "/profile?success=password", http.StatusSeeOther)
}

func roleLabel(role string) string {
	if role == models.RoleAdmin {
		return "Administrator"
	}
	return "Member"
}
