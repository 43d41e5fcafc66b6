// internal/app/features/users/handler.go
package users

import (
	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	favoritestore "github.com/dalemusser/resourcehub/internal/app/store/favorites"
	progressionstore "github.com/dalemusser/resourcehub/internal/app/store/progressions"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin user pages: list, role and status changes, and
// account removal.
type Handler struct {
	Users        *userstore.Store
	Favorites    *favoritestore.Store
	Progressions *progressionstore.Store
	Client       *mongo.Client

	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a user administration handler bound to db.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		Favorites:    favoritestore.New(db),
		Progressions: progressionstore.New(db),
		Client:       db.Client(),
		ErrLog:       errLog,
		AuditLog:     audit,
		Log:          logger,
	}
}
