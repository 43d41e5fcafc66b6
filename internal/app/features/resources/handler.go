// internal/app/features/resources/handler.go
package resources

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	categorystore "github.com/dalemusser/resourcehub/internal/app/store/categories"
	commentstore "github.com/dalemusser/resourcehub/internal/app/store/comments"
	favoritestore "github.com/dalemusser/resourcehub/internal/app/store/favorites"
	progressionstore "github.com/dalemusser/resourcehub/internal/app/store/progressions"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ResourceRepository supplies the full resource set the list view filters.
type ResourceRepository interface {
	FetchAll(ctx context.Context) ([]models.Resource, error)
}

// CategorySource lists the categories used by filter menus and forms.
type CategorySource interface {
	List(ctx context.Context) ([]models.Category, error)
}

// Handler owns the resource pages: list, detail, create, edit and delete.
//
// Repo and Categories feed the list view and can be swapped for fakes in
// tests; the write paths go through Store.
type Handler struct {
	Repo       ResourceRepository
	Categories CategorySource

	Store        *resourcestore.Store
	Comments     *commentstore.Store
	Favorites    *favoritestore.Store
	Progressions *progressionstore.Store
	Client       *mongo.Client

	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	store := resourcestore.New(db)
	return &Handler{
		Repo:         store,
		Categories:   categorystore.New(db),
		Store:        store,
		Comments:     commentstore.New(db),
		Favorites:    favoritestore.New(db),
		Progressions: progressionstore.New(db),
		Client:       db.Client(),
		ErrLog:       errLog,
		AuditLog:     audit,
		Metrics:      m,
		Log:          logger,
	}
}

// resourceID parses the {id} URL parameter.
func resourceID(r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return oid, err == nil
}

// categoryNames maps hex ids to names for display.
func categoryNames(cats []models.Category) map[string]string {
	m := make(map[string]string, len(cats))
	for _, c := range cats {
		m[c.ID.Hex()] = c.Name
	}
	return m
}

func categoryName(names map[string]string, id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return names[id.Hex()]
}
