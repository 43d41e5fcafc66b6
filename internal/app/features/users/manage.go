// internal/app/features/users/manage.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/navigation"
	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/app/system/txn"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgSelf      = "You can't change or remove your own account here. Ask another admin."
	msgLastAdmin = "There must be at least one active admin."
)

// HandleSetRole promotes or demotes a user.
// POST /users/{id}/role
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/users")
		return
	}
	role := normalize.Role(r.FormValue("role"))
	if role != models.RoleUser && role != models.RoleAdmin {
		h.renderList(w, r, http.StatusBadRequest, `Role must be "user" or "admin".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, actor, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	if target.Role == role {
		h.done(w, r)
		return
	}
	if role != models.RoleAdmin && !h.keepsAnAdmin(ctx, w, r, target) {
		return
	}

	if err := h.Users.SetRole(ctx, target.ID, role); err != nil {
		h.ErrLog.LogServerError(w, r, "set role failed", err, "Unable to change the role.", "/users")
		return
	}
	h.AuditLog.UserRoleChanged(ctx, r, actor, target, role)
	h.done(w, r)
}

// HandleSetStatus enables or disables an account. Disabled users are
// signed out on their next request and cannot sign in.
// POST /users/{id}/status
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/users")
		return
	}
	status := normalize.Status(r.FormValue("status"))
	if status != models.UserStatusActive && status != models.UserStatusDisabled {
		h.renderList(w, r, http.StatusBadRequest, `Status must be "active" or "disabled".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, actor, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	if normalize.Status(target.Status) == status {
		h.done(w, r)
		return
	}
	if status == models.UserStatusDisabled && !h.keepsAnAdmin(ctx, w, r, target) {
		return
	}

	if err := h.Users.SetStatus(ctx, target.ID, status); err != nil {
		h.ErrLog.LogServerError(w, r, "set status failed", err, "Unable to change the status.", "/users")
		return
	}
	h.AuditLog.UserStatusChanged(ctx, r, actor, target, status)
	h.done(w, r)
}

// HandleDelete removes an account with its favorites and progressions.
// Comments and resources keep the author's name.
// POST /users/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	target, actor, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	if !h.keepsAnAdmin(ctx, w, r, target) {
		return
	}

	var favorites, progressions int64
	err := txn.Run(ctx, h.Client, h.Log, func(ctx context.Context) error {
		var err error
		if favorites, err = h.Favorites.DeleteByUser(ctx, target.ID); err != nil {
			return err
		}
		if progressions, err = h.Progressions.DeleteByUser(ctx, target.ID); err != nil {
			return err
		}
		_, err = h.Users.Delete(ctx, target.ID)
		return err
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "Unable to delete the user.", "/users")
		return
	}

	h.AuditLog.UserDeleted(ctx, r, actor, target)
	h.Log.Info("user deleted",
		zap.String("user_id", target.ID.Hex()),
		zap.Int64("favorites", favorites),
		zap.Int64("progressions", progressions))
	h.done(w, r)
}

// loadTarget resolves {id} and refuses to act on the signed-in admin.
// It writes the response and returns ok=false when the action must stop.
func (h *Handler) loadTarget(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "bad user id", "/users")
		return models.User{}, primitive.NilObjectID, false
	}
	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "user not found", "/users")
		return models.User{}, primitive.NilObjectID, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/users")
		return models.User{}, primitive.NilObjectID, false
	}

	_, _, actor, _ := authz.UserCtx(r)
	if u.ID == actor {
		h.renderList(w, r, http.StatusConflict, msgSelf)
		return models.User{}, primitive.NilObjectID, false
	}
	return *u, actor, true
}

// keepsAnAdmin refuses a change that would leave no active admin. Only an
// active admin target can be the last one.
func (h *Handler) keepsAnAdmin(ctx context.Context, w http.ResponseWriter, r *http.Request, target models.User) bool {
	if target.Role != models.RoleAdmin || normalize.Status(target.Status) == models.UserStatusDisabled {
		return true
	}
	n, err := h.Users.CountActiveAdmins(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count admins failed", err, "A database error occurred.", "/users")
		return false
	}
	if n <= 1 {
		h.Log.Warn("refused to remove the last active admin", zap.String("user_id", target.ID.Hex()))
		h.renderList(w, r, http.StatusConflict, msgLastAdmin)
		return false
	}
	return true
}

func (h *Handler) done(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.UsersBackURL), http.StatusSeeOther)
}
