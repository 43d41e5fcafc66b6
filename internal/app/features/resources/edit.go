// internal/app/features/resources/edit.go
package resources

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/navigation"
	"github.com/dalemusser/resourcehub/internal/app/system/limits"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/domain/models"
)

// loadManaged fetches the {id} resource and checks the current user may
// change it. On failure it has already written the response.
func (h *Handler) loadManaged(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Resource, bool) {
	oid, ok := resourceID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return models.Resource{}, false
	}
	res, err := h.Store.GetByID(ctx, oid)
	if errors.Is(err, resourcestore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "resource not found", "/resources")
		return models.Resource{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load resource failed", err, "A database error occurred.", "/resources")
		return models.Resource{}, false
	}
	if !authz.CanManageResource(r, res) {
		h.ErrLog.LogForbidden(w, r, "resource change denied",
			"Only the resource's creator or an administrator can change it.", "/resources/"+res.ID.Hex())
		return models.Resource{}, false
	}
	return res, true
}

// ServeEdit shows the form filled with the stored resource.
// GET /resources/{id}/edit
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, ok := h.loadManaged(ctx, w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, res.ID.Hex(), inputFrom(res), "")
}

// HandleEdit applies the form to the resource.
// POST /resources/{id}/edit
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxResourceFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/resources")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, ok := h.loadManaged(ctx, w, r)
	if !ok {
		return
	}

	in := parseInput(r)
	msg, catID, err := h.validate(ctx, in)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "validate resource failed", err, "A database error occurred.", "/resources")
		return
	}
	if msg != "" {
		h.renderForm(w, r, http.StatusBadRequest, res.ID.Hex(), in, msg)
		return
	}

	updated, err := h.Store.Update(ctx, res.ID, in.toModel(catID))
	if errors.Is(err, resourcestore.ErrNotFound) {
		h.ErrLog.LogNotFound(w, r, "resource vanished during edit", "/resources")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update resource failed", err, "Unable to save the resource.", "/resources")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)
	h.AuditLog.ResourceUpdated(ctx, r, uid, updated)

	dest := navigation.SafeBackURL(r, navigation.ResourcesBackURL)
	if dest == navigation.ResourcesBackURL.Fallback {
		dest = "/resources/" + updated.ID.Hex()
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
