// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	aboutfeature "github.com/dalemusser/resourcehub/internal/app/features/about"
	apifeature "github.com/dalemusser/resourcehub/internal/app/features/api"
	auditlogfeature "github.com/dalemusser/resourcehub/internal/app/features/auditlog"
	categoriesfeature "github.com/dalemusser/resourcehub/internal/app/features/categories"
	commentsfeature "github.com/dalemusser/resourcehub/internal/app/features/comments"
	errorsfeature "github.com/dalemusser/resourcehub/internal/app/features/errors"
	favoritesfeature "github.com/dalemusser/resourcehub/internal/app/features/favorites"
	healthfeature "github.com/dalemusser/resourcehub/internal/app/features/health"
	homefeature "github.com/dalemusser/resourcehub/internal/app/features/home"
	loginfeature "github.com/dalemusser/resourcehub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/resourcehub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/resourcehub/internal/app/features/profile"
	progressionfeature "github.com/dalemusser/resourcehub/internal/app/features/progression"
	registerfeature "github.com/dalemusser/resourcehub/internal/app/features/register"
	resourcesfeature "github.com/dalemusser/resourcehub/internal/app/features/resources"
	usersfeature "github.com/dalemusser/resourcehub/internal/app/features/users"
	"github.com/dalemusser/resourcehub/internal/app/store/audit"
	userstore "github.com/dalemusser/resourcehub/internal/app/store/users"
	"github.com/dalemusser/resourcehub/internal/app/system/auditlog"
	"github.com/dalemusser/resourcehub/internal/app/system/auth"
	"github.com/dalemusser/resourcehub/internal/app/system/limits"
	"github.com/dalemusser/resourcehub/internal/app/system/metrics"
	"github.com/dalemusser/resourcehub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. ResourceHub boots the template engine,
// applies metrics, body size, CSRF and session middleware, and mounts the
// feature routers: catalog pages, account pages, user administration, the
// JSON API and operational endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	dev := coreCfg.Env == "dev"

	// Secure cookies are enabled outside dev.
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, !dev, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser re-reads the user on each request so role changes
	// and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(dev)
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Startup normally builds these; tests may call BuildHandler directly.
	m := appMetrics
	if m == nil {
		m = metrics.New()
	}
	limiter := loginLimiter
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditAuth,
		Content: appCfg.AuditContent,
		Admin:   appCfg.AuditAdmin,
	})

	r := chi.NewRouter()

	if appCfg.TrustProxyHeaders {
		// Client IPs for throttling and audit come from RemoteAddr, which
		// RealIP rewrites from the proxy's forwarding headers.
		r.Use(middleware.RealIP)
	}
	r.Use(m.Middleware)
	// Body caps must precede CSRF, which parses the form to find its token.
	r.Use(limits.Middleware(func(w http.ResponseWriter, req *http.Request) {
		logger.Warn("request body too large",
			zap.String("path", req.URL.Path),
			zap.Int64("content_length", req.ContentLength))
		errorsfeature.RenderTooLarge(w, req)
	}))
	if dev {
		// gorilla/csrf assumes TLS unless told otherwise.
		r.Use(plaintextHTTP)
	}
	r.Use(csrfProtect(appCfg.SessionKey, !dev, logger))
	r.Use(sessionMgr.LoadSessionUser)

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Landing page
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	aboutHandler := aboutfeature.NewHandler(logger)
	r.Mount("/about", aboutfeature.Routes(aboutHandler))

	// Accounts
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLog, limiter, m, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	registerHandler := registerfeature.NewHandler(db, sessionMgr, errLog, auditLog, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Catalog. Comment, favorite and progress endpoints hang off
	// /resources/{id} so they are added to the same router before mounting.
	resourcesHandler := resourcesfeature.NewHandler(db, errLog, auditLog, m, logger)
	resRouter := resourcesfeature.Routes(resourcesHandler, sessionMgr)

	commentsHandler := commentsfeature.NewHandler(db, errLog, auditLog, logger)
	commentsfeature.MountResourceRoutes(resRouter, commentsHandler, sessionMgr)
	r.Mount("/comments", commentsfeature.Routes(commentsHandler, sessionMgr))

	favoritesHandler := favoritesfeature.NewHandler(db, errLog, logger)
	favoritesfeature.MountResourceRoutes(resRouter, favoritesHandler, sessionMgr)
	r.Mount("/favorites", favoritesfeature.Routes(favoritesHandler, sessionMgr))

	progressionHandler := progressionfeature.NewHandler(db, errLog, logger)
	progressionfeature.MountResourceRoutes(resRouter, progressionHandler, sessionMgr)
	r.Mount("/progression", progressionfeature.Routes(progressionHandler, sessionMgr))

	r.Mount("/resources", resRouter)

	categoriesHandler := categoriesfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/categories", categoriesfeature.Routes(categoriesHandler, sessionMgr))

	usersHandler := usersfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	// JSON API
	apiHandler := apifeature.NewHandler(db, errLog, m, logger)
	r.Mount("/api", apifeature.Routes(apiHandler))

	return r, nil
}

// csrfProtect guards every unsafe method. The key is derived from the
// session key so only one secret needs configuring.
func csrfProtect(sessionKey string, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("resourcehub-csrf:" + sessionKey))
	return csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			errorsfeature.RenderForbidden(w, r, "Your session expired or the form was tampered with. Reload the page and try again.", "")
		})),
	)
}

func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
