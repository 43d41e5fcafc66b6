// internal/app/features/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	categorystore "github.com/dalemusser/resourcehub/internal/app/store/categories"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/app/system/paging"
	"github.com/dalemusser/resourcehub/internal/app/system/resourceview"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Resources is what the API reads resources from.
type Resources interface {
	FetchAll(ctx context.Context) ([]models.Resource, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error)
}

// Categories lists the category reference data.
type Categories interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Handler serves the read-only JSON variant of the catalog. It applies the
// same visibility gate, filters and sort as the HTML list.
type Handler struct {
	Resources  Resources
	Categories Categories
	ErrLog     *uierrors.ErrorLogger
	Metrics    *metrics.Metrics
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		Resources:  resourcestore.New(db),
		Categories: categorystore.New(db),
		ErrLog:     errLog,
		Metrics:    m,
		Log:        logger,
	}
}

type resourceJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	CategoryID   string    `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type paramsJSON struct {
	Status   string `json:"status"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
}

type listResponse struct {
	Params    paramsJSON     `json:"params"`
	Total     int            `json:"total"`
	Start     int            `json:"start"`
	End       int            `json:"end"`
	NextStart int            `json:"next_start,omitempty"`
	Resources []resourceJSON `json:"resources"`
}

type categoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toJSON(res models.Resource, names map[string]string) resourceJSON {
	out := resourceJSON{
		ID:          res.ID.Hex(),
		Name:        res.Name,
		Description: res.Description,
		Type:        string(res.Type),
		Status:      string(res.Status),
		CreatedBy:   res.CreatedByName,
		CreatedAt:   res.CreatedAt,
	}
	if res.CategoryID != nil {
		out.CategoryID = res.CategoryID.Hex()
		out.CategoryName = names[out.CategoryID]
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nameMap(cats []models.Category) map[string]string {
	m := make(map[string]string, len(cats))
	for _, c := range cats {
		m[c.ID.Hex()] = c.Name
	}
	return m
}

// ListResources returns one page of the computed view.
// GET /api/resources?status=&type=&category=&sort=&start=
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	params := resourceview.ParseParams(r)
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Resources.FetchAll(ctx)
	if err != nil {
		h.ErrLog.JSONError(w, r, http.StatusInternalServerError, "api: fetch resources failed", err, "database error")
		return
	}
	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.JSONError(w, r, http.StatusInternalServerError, "api: list categories failed", err, "database error")
		return
	}

	visible := resourceview.Compute(all, authz.Viewer(r), params)
	h.Metrics.ObserveList(len(visible))
	page := paging.Slice(visible, start)

	names := nameMap(cats)
	resp := listResponse{
		Params: paramsJSON{
			Status:   params.Status,
			Type:     params.Type,
			Category: params.Category,
			Sort:     string(params.Sort),
		},
		Total:     page.Total,
		Start:     page.Start,
		End:       page.End,
		Resources: make([]resourceJSON, 0, len(page.Rows)),
	}
	if page.HasNext {
		resp.NextStart = page.NextStart
	}
	for _, res := range page.Rows {
		resp.Resources = append(resp.Resources, toJSON(res, names))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetResource returns a single resource, or 404 when it is missing or
// hidden from the caller.
// GET /api/resources/{id}
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.JSONError(w, r, http.StatusNotFound, "", nil, "not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Resources.GetByID(ctx, oid)
	if errors.Is(err, resourcestore.ErrNotFound) || (err == nil && !authz.CanSeeResource(r, res)) {
		h.ErrLog.JSONError(w, r, http.StatusNotFound, "", nil, "not found")
		return
	}
	if err != nil {
		h.ErrLog.JSONError(w, r, http.StatusInternalServerError, "api: load resource failed", err, "database error")
		return
	}
	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.JSONError(w, r, http.StatusInternalServerError, "api: list categories failed", err, "database error")
		return
	}
	writeJSON(w, http.StatusOK, toJSON(res, nameMap(cats)))
}

// ListCategories returns every category, sorted by name.
// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.JSONError(w, r, http.StatusInternalServerError, "api: list categories failed", err, "database error")
		return
	}
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{ID: c.ID.Hex(), Name: c.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}
