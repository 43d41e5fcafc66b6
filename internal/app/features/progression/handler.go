// internal/app/features/progression/handler.go
package progression

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	metricsstore "github.com/dalemusser/resourcehub/internal/app/store/metrics"
	progressionstore "github.com/dalemusser/resourcehub/internal/app/store/progressions"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB           *mongo.Database
	Progressions *progressionstore.Store
	Resources    *resourcestore.Store
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Progressions: progressionstore.New(db),
		Resources:    resourcestore.New(db),
		ErrLog:       errLog,
		Log:          logger,
	}
}

// HandleUpdate records the user's percentage for a resource.
// POST /resources/{id}/progress
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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
	back := "/resources/" + resID.Hex()

	pct, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("percentage")), 64)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad percentage", err, "Progress must be a number between 0 and 100.", back)
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

	p, err := h.Progressions.Upsert(ctx, uid, resID, pct)
	if errors.Is(err, progressionstore.ErrInvalidPercentage) {
		h.ErrLog.LogBadRequest(w, r, "percentage out of range", err, "Progress must be a number between 0 and 100.", back)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save progression failed", err, "Unable to save your progress.", back)
		return
	}
	h.Log.Debug("progression saved",
		zap.String("resource_id", resID.Hex()),
		zap.Float64("percentage", p.Percentage),
		zap.String("status", p.Status))

	http.Redirect(w, r, back, http.StatusSeeOther)
}

type progressionRow struct {
	ResourceID   string
	ResourceName string
	Percentage   float64
	Status       string
	StatusLabel  string
	LastSeen     string
}

type pageData struct {
	viewdata.BaseVM
	Stats metricsstore.UserStats
	Rows  []progressionRow
}

// ServeDashboard lists the user's progressions with their statistics.
// GET /progression
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := metricsstore.FetchUserStats(ctx, h.DB, uid)
	if err != nil {
		h.Log.Warn("user stats incomplete", zap.String("user_id", uid.Hex()), zap.Error(err))
	}
	progs, err := h.Progressions.ListByUser(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list progressions failed", err, "A database error occurred.", "/resources")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(progs))
	for _, p := range progs {
		ids = append(ids, p.ResourceID)
	}
	res, err := h.Resources.FetchByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch resources failed", err, "A database error occurred.", "/resources")
		return
	}
	byID := make(map[primitive.ObjectID]models.Resource, len(res))
	for _, rs := range res {
		byID[rs.ID] = rs
	}

	rows := make([]progressionRow, 0, len(progs))
	for _, p := range progs {
		rs, ok := byID[p.ResourceID]
		if !ok || !authz.CanSeeResource(r, rs) {
			continue
		}
		rows = append(rows, progressionRow{
			ResourceID:   rs.ID.Hex(),
			ResourceName: rs.Name,
			Percentage:   p.Percentage,
			Status:       p.Status,
			StatusLabel:  statusLabel(p.Status),
			LastSeen:     p.LastInteractionAt.Format("2006-01-02 15:04"),
		})
	}

	templates.Render(w, r, "progression_dashboard", pageData{
		BaseVM: viewdata.NewBaseVM(r, "My progression", "/resources"),
		Stats:  stats,
		Rows:   rows,
	})
}

func statusLabel(s string) string {
	switch s {
	case models.ProgressionCompleted:
		return "Completed"
	case models.ProgressionInProgress:
		return "In progress"
	default:
		return "Not started"
	}
}
