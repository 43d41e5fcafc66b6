// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	_ "github.com/dalemusser/resourcehub/internal/app/features/home/views"
	metricsstore "github.com/dalemusser/resourcehub/internal/app/store/metrics"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/authz"
	"github.com/dalemusser/resourcehub/internal/app/system/resourceview"
	"github.com/dalemusser/resourcehub/internal/app/system/timeouts"
	"github.com/dalemusser/resourcehub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// latestCount is how many recent resources the landing page lists.
const latestCount = 5

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	DB        *mongo.Database
	Resources *resourcestore.Store
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Resources: resourcestore.New(db),
		Log:       logger,
	}
}

type latestRow struct {
	ID        string
	Name      string
	TypeLabel string
	CreatedAt string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The landing page degrades to an empty list rather than an error page.
	var latest []latestRow
	all, err := h.Resources.FetchAll(ctx)
	if err != nil {
		h.Log.Warn("home: fetch resources failed", zap.Error(err))
	} else {
		p := resourceview.DefaultParams()
		p.Sort = resourceview.SortDateDesc
		for _, res := range resourceview.Compute(all, authz.Viewer(r), p) {
			if len(latest) == latestCount {
				break
			}
			latest = append(latest, latestRow{
				ID:        res.ID.Hex(),
				Name:      res.Name,
				TypeLabel: res.Type.Label(),
				CreatedAt: res.CreatedAt.Format("2006-01-02"),
			})
		}
	}

	data := struct {
		viewdata.BaseVM
		Counts metricsstore.SiteCounts
		Latest []latestRow
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
		Counts: metricsstore.FetchSiteCounts(ctx, h.DB),
		Latest: latest,
	}

	templates.Render(w, r, "home", data)
}
