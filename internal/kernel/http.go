// Package kernel assembles the HTTP stack: middleware chain, routes
// and the operational endpoints.
package kernel

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/controllers"
	"github.com/roadassist/roadassist/app/repositories"
	"github.com/roadassist/roadassist/app/routes"
	"github.com/roadassist/roadassist/app/services"
	"github.com/roadassist/roadassist/config"
	"github.com/roadassist/roadassist/pkg/audit"
	"github.com/roadassist/roadassist/pkg/metrics"
	"github.com/roadassist/roadassist/pkg/middleware"
	"github.com/roadassist/roadassist/pkg/reqid"
	"github.com/roadassist/roadassist/pkg/response"
	"github.com/roadassist/roadassist/pkg/router"
	"github.com/roadassist/roadassist/pkg/session"
	"github.com/roadassist/roadassist/pkg/ws"
)

// HTTPKernel owns the fully wired router.
type HTTPKernel struct {
	r   *router.Router
	hub *ws.Hub
}

// NewHTTPKernel builds repositories, services, controllers and the
// middleware chain on top of the given database handle.
func NewHTTPKernel(db *gorm.DB, recorder *audit.Recorder) *HTTPKernel {
	hub := ws.NewHub()

	userRepo := repositories.NewUserRepository(db)
	vehicleRepo := repositories.NewVehicleRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	mechanicRepo := repositories.NewMechanicRepository(db)
	billingRepo := repositories.NewBillingRepository(db)

	var sink services.AuditSink = services.NopAudit
	if recorder != nil {
		sink = recorder
	}

	handlers := controllers.New(
		services.NewAuthService(userRepo, sink),
		services.NewRequestService(requestRepo, mechanicRepo, hub, sink),
		services.NewMechanicService(mechanicRepo, sink),
		services.NewVehicleService(vehicleRepo),
		services.NewBillingService(billingRepo, requestRepo, sink),
		recorder,
	)

	limiter := middleware.NewRateLimiter(
		config.RatePoints(), config.RateDuration(), config.RateBlock())

	r := router.New()
	r.Use(
		middleware.Recover,
		reqid.Middleware(),
		middleware.RequestLogger,
		middleware.CORS,
		session.Middleware(session.DefaultOptions()),
		limiter.Middleware,
	)

	routes.RegisterAPI(r, handlers, hub)

	r.Get("/metrics", "ops.metrics", metrics.Handler().ServeHTTP)
	r.Get("/healthz", "ops.health", func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, "ok", nil)
	})

	return &HTTPKernel{r: r, hub: hub}
}

// Handler returns the root http.Handler.
func (k *HTTPKernel) Handler() http.Handler { return k.r.Handler() }

// Router exposes the router for route listing.
func (k *HTTPKernel) Router() *router.Router { return k.r }
