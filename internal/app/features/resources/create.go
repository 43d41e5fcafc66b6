// internal/app/features/resources/create.go
package resources

import (
	"context"
	"net/http"

	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/limits"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
)

// ServeNew shows an empty resource form.
// GET /resources/new
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", resourceInput{}, "")
}

// HandleCreate validates the form and inserts a resource owned by the
// current user.
// POST /resources
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxResourceFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/resources")
		return
	}
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	in := parseInput(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	msg, catID, err := h.validate(ctx, in)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "validate resource failed", err, "A database error occurred.", "/resources")
		return
	}
	if msg != "" {
		h.renderForm(w, r, http.StatusBadRequest, "", in, msg)
		return
	}

	res := in.toModel(catID)
	res.CreatedByID = &uid
	res.CreatedByName = name

	created, err := h.Store.Create(ctx, res)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create resource failed", err, "Unable to create the resource.", "/resources")
		return
	}
	h.AuditLog.ResourceCreated(ctx, r, uid, created)

	http.Redirect(w, r, "/resources/"+created.ID.Hex(), http.StatusSeeOther)
}
