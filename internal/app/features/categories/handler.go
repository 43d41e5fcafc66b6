// internal/app/features/categories/handler.go
package categories

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	categorystore "github.com/dalemusser/resourcehub/internal/app/store/categories"
	metricsstore "github.com/dalemusser/resourcehub/internal/app/store/metrics"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/formutil"
	"github.com/dalemusser/resourcehub/internal/app/system/navigation"
	"github.com/dalemusser/resourcehub/internal/app/system/resourceview"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Categories *categorystore.Store
	Resources  *resourcestore.Store
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Categories: categorystore.New(db),
		Resources:  resourcestore.New(db),
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
	}
}

type categoryRow struct {
	ID        string
	Name      string
	Resources int
	ListURL   string
}

type listData struct {
	formutil.Base
	Counts        metricsstore.SiteCounts
	Rows          []categoryRow
	Uncategorized int
	NewName       string
}

// ServeList shows every category with the number of resources the viewer
// can see in it.
// GET /categories
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, http.StatusOK, "", "")
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, newName, errMsg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/resources")
		return
	}
	all, err := h.Resources.FetchAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch resources failed", err, "A database error occurred.", "/resources")
		return
	}

	perCat := make(map[string]int, len(cats))
	uncategorized := 0
	for _, res := range resourceview.Compute(all, authz.Viewer(r), resourceview.DefaultParams()) {
		if res.CategoryID == nil {
			uncategorized++
			continue
		}
		perCat[res.CategoryID.Hex()]++
	}

	rows := make([]categoryRow, 0, len(cats))
	for _, c := range cats {
		hex := c.ID.Hex()
		rows = append(rows, categoryRow{
			ID:        hex,
			Name:      c.Name,
			Resources: perCat[hex],
			ListURL:   "/resources?" + url.Values{"category": {hex}}.Encode(),
		})
	}

	data := listData{
		Counts:        metricsstore.FetchSiteCounts(ctx, h.DB),
		Rows:          rows,
		Uncategorized: uncategorized,
		NewName:       newName,
	}
	formutil.SetBase(&data.Base, r, "Categories", "/resources")
	if errMsg != "" {
		data.SetError(errMsg)
	}
	w.WriteHeader(status)
	templates.Render(w, r, "categories_list", data)
}

// HandleCreate adds a category. Admin only.
// POST /categories
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/categories")
		return
	}
	name := r.FormValue("name")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Categories.Create(ctx, name)
	switch {
	case errors.Is(err, categorystore.ErrNameRequired):
		h.renderList(w, r, http.StatusBadRequest, name, "Enter a category name.")
		return
	case errors.Is(err, categorystore.ErrDuplicateName):
		h.renderList(w, r, http.StatusConflict, name, "A category with that name already exists.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create category failed", err, "Unable to create the category.", "/categories")
		return
	}

	_, _, uid, _ := authz.UserCtx(r)
	h.AuditLog.CategoryCreated(ctx, r, uid, c)

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CategoriesBackURL), http.StatusSeeOther)
}
