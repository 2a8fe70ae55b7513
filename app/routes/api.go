// Package routes declares the HTTP surface of the API.
package routes

import (
	"time"

	"github.com/roadassist/roadassist/app/controllers"
	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/middleware"
	"github.com/roadassist/roadassist/pkg/rbac"
	"github.com/roadassist/roadassist/pkg/router"
	"github.com/roadassist/roadassist/pkg/ws"
)

// listCacheTTL is how long GET listings are memoized before a mutation
// or expiry invalidates them.
const listCacheTTL = 30 * time.Second

// RegisterAPI mounts every route on the router.
func RegisterAPI(r *router.Router, h *controllers.Handlers, hub *ws.Hub) {
	api := r.Group("/api")

	api.Post("/register", "auth.register", h.Auth.Register)
	api.Post("/login", "auth.login", h.Auth.Login)

	authed := api.Group("", middleware.Authenticate)
	authed.Post("/logout", "auth.logout", h.Auth.Logout)
	authed.Get("/user", "auth.me", h.Auth.Me)
	authed.Get("/token", "auth.token", h.Auth.Token)

	requests := authed.Group("/service-requests", middleware.CacheResponses(listCacheTTL))
	requests.Post("", "requests.create", h.Requests.Create)
	requests.Get("", "requests.list", h.Requests.List)
	requests.Get("/{id}", "requests.get", h.Requests.Get)
	requests.Patch("/{id}", "requests.update", h.Requests.Update)
	requests.Post("/{id}/accept", "requests.accept", h.Requests.Accept)
	requests.Post("/{id}/start", "requests.start", h.Requests.Start)
	requests.Post("/{id}/complete", "requests.complete", h.Requests.Complete)
	requests.Post("/{id}/cancel", "requests.cancel", h.Requests.Cancel)

	mechanics := authed.Group("/mechanics")
	mechanics.Post("", "mechanics.create", h.Mechanic.Create)
	mechanics.Get("/me", "mechanics.me", h.Mechanic.Me)
	mechanics.Patch("/me", "mechanics.update", h.Mechanic.UpdateMe)
	mechanics.Post("/me/documents", "mechanics.documents", h.Mechanic.UploadDocument)
	mechanics.Get("/available", "mechanics.available", h.Mechanic.Available,
		middleware.CacheResponses(listCacheTTL))
	mechanics.Get("/pending", "mechanics.pending", h.Mechanic.Pending,
		rbac.HasRole(string(models.RoleAdmin)))
	mechanics.Patch("/{id}", "mechanics.approve", h.Mechanic.SetApproval,
		rbac.HasRole(string(models.RoleAdmin)))

	vehicles := authed.Group("/vehicles")
	vehicles.Post("", "vehicles.create", h.Vehicles.Create)
	vehicles.Get("", "vehicles.mine", h.Vehicles.Mine)
	vehicles.Put("/{id}", "vehicles.update", h.Vehicles.Update)
	vehicles.Delete("/{id}", "vehicles.delete", h.Vehicles.Delete)

	authed.Post("/reviews", "reviews.create", h.Billing.CreateReview)
	authed.Get("/reviews/{userId}", "reviews.for_user", h.Billing.ReviewsForUser)

	payments := authed.Group("/payments")
	payments.Post("", "payments.create", h.Billing.CreatePayment)
	payments.Get("/service/{requestId}", "payments.for_request", h.Billing.PaymentsForRequest)
	payments.Get("/user", "payments.for_user", h.Billing.PaymentsForUser)

	admin := authed.Group("/admin", rbac.HasRole(string(models.RoleAdmin)))
	admin.Get("/audit", "admin.audit", h.Admin.Audit)

	r.Get("/ws/service-requests", "ws.requests", hub.ServeHTTP, middleware.Authenticate)
}
