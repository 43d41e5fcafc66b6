// internal/app/features/resources/view.go
package resources

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/resourcehub/internal/app/system/navigation"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

const dateTimeLayout = "2006-01-02 15:04"

type commentRow struct {
	ID         string
	AuthorName string
	Body       template.HTML
	CreatedAt  string
	CanDelete  bool
}

type viewData struct {
	viewdata.BaseVM

	ID           string
	Name         string
	Description  template.HTML
	TypeLabel    string
	StatusLabel  string
	CategoryName string
	CreatedBy    string
	CreatedAt    string
	CanManage    bool

	Comments []commentRow

	// Signed-in only.
	IsFavorite      bool
	HasProgression  bool
	Percentage      float64
	ProgressionText string

	ReturnURL string
}

// ServeView renders one resource with its comments and, for a signed-in
// viewer, their favorite flag and progression. Resources hidden from the
// viewer by the list gate answer 404.
// GET /resources/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	oid, ok := resourceID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.GetByID(ctx, oid)
	if errors.Is(err, resourcestore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load resource failed", err, "A database error occurred.", "/resources")
		return
	}
	if !authz.CanSeeResource(r, res) {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return
	}

	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/resources")
		return
	}
	comments, err := h.Comments.ListByResource(ctx, res.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list comments failed", err, "A database error occurred.", "/resources")
		return
	}

	data := viewData{
		BaseVM:       viewdata.NewBaseVM(r, res.Name, "/resources"),
		ID:           res.ID.Hex(),
		Name:         res.Name,
		Description:  htmlsanitize.PrepareForDisplay(res.Description),
		TypeLabel:    res.Type.Label(),
		StatusLabel:  res.Status.Label(),
		CategoryName: categoryName(categoryNames(cats), res.CategoryID),
		CreatedBy:    res.CreatedByName,
		CreatedAt:    res.CreatedAt.Format(dateLayout),
		CanManage:    authz.CanManageResource(r, res),
		Comments:     make([]commentRow, 0, len(comments)),
		ReturnURL:    navigation.SafeBackURL(r, navigation.ResourcesBackURL),
	}
	for _, c := range comments {
		data.Comments = append(data.Comments, commentRow{
			ID:         c.ID.Hex(),
			AuthorName: c.AuthorName,
			Body:       htmlsanitize.PrepareForDisplay(c.Body),
			CreatedAt:  c.CreatedAt.Format(dateTimeLayout),
			CanDelete:  authz.CanDeleteComment(r, c),
		})
	}

	if _, _, uid, signedIn := authz.UserCtx(r); signedIn {
		fav, err := h.Favorites.IsFavorite(ctx, uid, res.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "favorite lookup failed", err, "A database error occurred.", "/resources")
			return
		}
		data.IsFavorite = fav

		p, err := h.Progressions.Get(ctx, uid, res.ID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "progression lookup failed", err, "A database error occurred.", "/resources")
			return
		}
		if p != nil {
			data.HasProgression = true
			data.Percentage = p.Percentage
			data.ProgressionText = progressionLabel(p.Status)
		}
	}

	templates.Render(w, r, "resource_view", data)
}

func progressionLabel(status string) string {
	switch status {
	case models.ProgressionCompleted:
		return "Completed"
	case models.ProgressionInProgress:
		return "In progress"
	default:
		return "Not started"
	}
}
