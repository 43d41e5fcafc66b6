// internal/app/features/resources/delete.go
package resources

import (
	"context"
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/navigation"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/app/system/txn"
	"go.uber.org/zap"
)

// HandleDelete removes a resource together with its comments, favorites
// and progressions. The cascade runs in a transaction when the deployment
// supports one.
// POST /resources/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, ok := h.loadManaged(ctx, w, r)
	if !ok {
		return
	}

	var comments, favorites, progressions int64
	err := txn.Run(ctx, h.Client, h.Log, func(ctx context.Context) error {
		var err error
		if comments, err = h.Comments.DeleteByResource(ctx, res.ID); err != nil {
			return err
		}
		if favorites, err = h.Favorites.DeleteByResource(ctx, res.ID); err != nil {
			return err
		}
		if progressions, err = h.Progressions.DeleteByResource(ctx, res.ID); err != nil {
			return err
		}
		_, err = h.Store.Delete(ctx, res.ID)
		return err
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete resource failed", err, "Unable to delete the resource.", "/resources/"+res.ID.Hex())
		return
	}

	_, _, uid, _ := authz.UserCtx(r)
	h.AuditLog.ResourceDeleted(ctx, r, uid, res)
	h.Log.Info("resource deleted",
		zap.String("resource_id", res.ID.Hex()),
		zap.Int64("comments", comments),
		zap.Int64("favorites", favorites),
		zap.Int64("progressions", progressions))

	dest := navigation.SafeBackURL(r, navigation.ResourcesBackURL)
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
