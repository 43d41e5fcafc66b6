// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"sync"

	categorystore "github.com/dalemusser/resourcehub/internal/app/store/categories"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/app/system/ratelimit"
	"github.com/dalemusser/resourcehub/internal/app/system/seed"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Process-wide services built in Startup and used by BuildHandler.
var (
	appMetrics   *metrics.Metrics
	loginLimiter *ratelimit.LoginLimiter

	bgMu     sync.Mutex
	bgCancel context.CancelFunc
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It seeds the category reference data, promotes the configured admin,
// registers the catalog gauges and starts the login limiter sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	f, err := seed.Load(appCfg.CategorySeedFile)
	if err != nil {
		logger.Error("load category seed failed", zap.String("file", appCfg.CategorySeedFile), zap.Error(err))
		return err
	}
	if _, err := seed.Categories(ctx, categorystore.New(deps.MongoDatabase), f, logger); err != nil {
		return err
	}

	if err := ensureAdmin(ctx, deps.MongoDatabase, appCfg.AdminEmail, logger); err != nil {
		return err
	}

	appMetrics = metrics.New()
	if err := appMetrics.RegisterCatalog(deps.MongoDatabase); err != nil {
		logger.Error("register catalog metrics failed", zap.Error(err))
		return err
	}

	loginLimiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	bgCtx, cancel := context.WithCancel(context.Background())
	bgMu.Lock()
	bgCancel = cancel
	bgMu.Unlock()
	go loginLimiter.Run(bgCtx)

	return nil
}

func stopBackground() {
	bgMu.Lock()
	defer bgMu.Unlock()
	if bgCancel != nil {
		bgCancel()
		bgCancel = nil
	}
}

// ensureAdmin promotes the account registered under email to admin.
// A blank email disables the step; an unknown one only logs a warning so a
// fresh deployment can start before the admin has registered.
func ensureAdmin(ctx context.Context, db *mongo.Database, email string, logger *zap.Logger) error {
	if email == "" {
		return nil
	}
	users := userstore.New(db)
	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		logger.Warn("admin_email has no account yet; register it and restart", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}
	if u.Role == models.RoleAdmin {
		return nil
	}
	if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("promoted admin", zap.String("email", u.Email))
	return nil
}
