// internal/app/features/favorites/handler.go
package favorites

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	categorystore "github.com/dalemusser/resourcehub/internal/app/store/categories"
	favoritestore "github.com/dalemusser/resourcehub/internal/app/store/favorites"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/navigation"
	"github.com/dalemusser/resourcehub/internal/app/system/resourceview"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Favorites  *favoritestore.Store
	Resources  *resourcestore.Store
	Categories *categorystore.Store
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Favorites:  favoritestore.New(db),
		Resources:  resourcestore.New(db),
		Categories: categorystore.New(db),
		ErrLog:     errLog,
		Log:        logger,
	}
}

type favoriteRow struct {
	ID           string
	Name         string
	TypeLabel    string
	StatusLabel  string
	CategoryName string
}

type listData struct {
	viewdata.BaseVM

	Params        resourceview.Params
	TypeOptions   []resourceview.Option
	StatusOptions []resourceview.Option
	SortOptions   []resourceview.Option
	SortLabel     string

	Rows    []favoriteRow
	SelfURL string
}

// ServeList shows the signed-in user's favorites. They go through the same
// engine as the main list, so the filter and sort controls behave alike.
// GET /favorites
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	params := resourceview.ParseParams(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ids, err := h.Favorites.ResourceIDsByUser(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list favorites failed", err, "A database error occurred.", "/resources")
		return
	}
	favs, err := h.Resources.FetchByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch favorite resources failed", err, "A database error occurred.", "/resources")
		return
	}
	names, err := h.Categories.NameMap(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list categories failed", err, "A database error occurred.", "/resources")
		return
	}

	visible := resourceview.Compute(favs, authz.Viewer(r), params)
	rows := make([]favoriteRow, 0, len(visible))
	for _, res := range visible {
		row := favoriteRow{
			ID:          res.ID.Hex(),
			Name:        res.Name,
			TypeLabel:   res.Type.Label(),
			StatusLabel: res.Status.Label(),
		}
		if res.CategoryID != nil {
			row.CategoryName = names[res.CategoryID.Hex()]
		}
		rows = append(rows, row)
	}

	self := "/favorites"
	if q := params.Query(); q != "" {
		self += "?" + q
	}
	templates.Render(w, r, "favorites_list", listData{
		BaseVM:        viewdata.NewBaseVM(r, "My favorites", "/resources"),
		Params:        params,
		TypeOptions:   resourceview.TypeOptions(params.Type),
		StatusOptions: resourceview.StatusOptions(params.Status),
		SortOptions:   resourceview.SortOptions(params.Sort),
		SortLabel:     params.Sort.Label(),
		Rows:          rows,
		SelfURL:       self,
	})
}

type buttonData struct {
	ID         string
	IsFavorite bool
	CSRFToken  string
}

// HandleToggle adds or removes a resource from the user's favorites.
// HTMX requests get the refreshed button back; others are redirected.
// POST /resources/{id}/favorite
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	resID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "", "/resources")
		return
	}
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
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
		h.ErrLog.LogServerError(w, r, "load resource failed", err, "A database error occurred.", "/resources")
		return
	}

	on, err := h.Favorites.Toggle(ctx, uid, resID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "toggle favorite failed", err, "Unable to update favorites.", "/resources/"+resID.Hex())
		return
	}

	if r.Header.Get("HX-Request") != "" {
		vm := viewdata.NewBaseVM(r, "", "")
		templates.RenderSnippet(w, "favorite_button", buttonData{ID: resID.Hex(), IsFavorite: on, CSRFToken: vm.CSRFToken})
		return
	}

	back := navigation.ResourcesBackURL
	back.Fallback = "/resources/" + resID.Hex()
	if strings.HasPrefix(strings.TrimSpace(r.FormValue("return")), "/favorites") {
		back = navigation.FavoritesBackURL
	}
	http.Redirect(w, r, navigation.SafeBackURL(r, back), http.StatusSeeOther)
}
