// Package httptransport assembles the HTTP surface: middleware chain, public
// decision and registration routes, and the admin-guarded registry routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "tollgate/internal/identity/handler"
	notifyhandler "tollgate/internal/notify/handler"
	"tollgate/internal/platform/middleware"
	platredis "tollgate/internal/platform/redis"
	securityhandler "tollgate/internal/security/handler"
	tollhandler "tollgate/internal/toll/handler"
	"tollgate/pkg/platform/httputil"
)

// Deps carries everything the router mounts. Handlers are required; Redis
// and Health are optional and degrade to no rate limiting and a static
// health response.
type Deps struct {
	Toll     *tollhandler.Handler
	Identity *identityhandler.Handler
	Security *securityhandler.Handler
	Notify   *notifyhandler.Handler

	Logger      *slog.Logger
	Redis       *platredis.Client
	AdminJWTKey string
	RateLimit   int
	RateWindow  time.Duration

	// Health reports backing-store reachability for /healthz.
	Health func(ctx context.Context) error
}

// NewRouter wires the middleware chain and all endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestContext)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", healthHandler(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Redis, deps.RateLimit, deps.RateWindow, deps.Logger))

		deps.Toll.Register(r)
		deps.Identity.Register(r)
		deps.Notify.Register(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(deps.AdminJWTKey, deps.Logger))
			deps.Security.RegisterAdmin(r)
		})
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
