// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/dalemusser/resourcehub/internal/app/features/errors"
	resourcestore "github.com/dalemusser/resourcehub/internal/app/store/resources"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all user profile handlers.
type Handler struct {
	DB        *mongo.Database
	Users     *userstore.Store
	Resources *resourcestore.Store
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Users:     userstore.New(db),
		Resources: resourcestore.New(db),
		Log:       logger,
		ErrLog:    errLog,
	}
}
