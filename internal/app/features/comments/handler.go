// internal/app/features/comments/handler.go
package comments

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	commentstore "github.com/dalemusser/resourcehub/internal/app/store/comments"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/limits"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Comments  *commentstore.Store
	Resources *resourcestore.Store
	ErrLog    *uierrors.ErrorLogger
	AuditLog  *auditlog.Logger
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Comments:  commentstore.New(db),
		Resources: resourcestore.New(db),
		ErrLog:    errLog,
		AuditLog:  audit,
		Log:       logger,
	}
}

func idParam(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return oid, err == nil
}

// HandleCreate posts a comment on a resource the user can see.
// POST /resources/{id}/comments
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	resID, ok := idParam(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return
	}
	_, name, uid, signedIn := authz.UserCtx(r)
	if !signedIn {
		uierrors.RenderUnauthorized(w, r, "")
		return
	}
	back := "/resources/" + resID.Hex()

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxCommentFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "That comment is too long.", back)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Resources.GetByID(ctx, resID)
	if errors.Is(err, resourcestore.ErrNotFound) || (err == nil && !authz.CanSeeResource(r, res)) {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load resource failed", err, "A database error occurred.", back)
		return
	}

	c, err := h.Comments.Create(ctx, resID, uid, name, r.FormValue("body"))
	switch {
	case errors.Is(err, commentstore.ErrEmptyBody):
		h.ErrLog.LogBadRequest(w, r, "empty comment", err, "A comment cannot be empty.", back)
		return
	case errors.Is(err, commentstore.ErrBodyTooLong):
		h.ErrLog.LogBadRequest(w, r, "comment too long", err, "That comment is too long.", back)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create comment failed", err, "Unable to post the comment.", back)
		return
	}
	h.Log.Debug("comment posted", zap.String("comment_id", c.ID.Hex()), zap.String("resource_id", resID.Hex()))

	http.Redirect(w, r, back+"#comment-"+c.ID.Hex(), http.StatusSeeOther)
}

// HandleDelete removes a comment. Authors may delete their own, admins any.
// POST /comments/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	cid, ok := idParam(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Comments.GetByID(ctx, cid)
	if errors.Is(err, commentstore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "comment not found", "/resources")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load comment failed", err, "A database error occurred.", "/resources")
		return
	}
	back := "/resources/" + c.ResourceID.Hex()
	if !authz.CanDeleteComment(r, c) {
		h.ErrLog.LogForbidden(w, r, "comment delete denied", "You can only delete your own comments.", back)
		return
	}

	if _, err := h.Comments.Delete(ctx, cid); err != nil {
		h.ErrLog.LogServerError(w, r, "delete comment failed", err, "Unable to delete the comment.", back)
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.AuditLog.CommentDeleted(ctx, r, uid, c)

	http.Redirect(w, r, back, http.StatusSeeOther)
}
