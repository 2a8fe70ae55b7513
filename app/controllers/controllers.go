// Package controllers translates HTTP requests into service calls.
// Handlers stay thin: decode, delegate, respond. Every error is
// forwarded to the centralized responder, never swallowed.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/app/services"
	"github.com/roadassist/roadassist/pkg/audit"
	"github.com/roadassist/roadassist/pkg/middleware"
	"github.com/roadassist/roadassist/pkg/orm"
)

// Handlers bundles every controller for route registration.
type Handlers struct {
	Auth     *AuthController
	Requests *RequestController
	Mechanic *MechanicController
	Vehicles *VehicleController
	Billing  *BillingController
	Admin    *AdminController
}

// New wires the controllers to their services.
func New(
	auth *services.AuthService,
	requests *services.RequestService,
	mechanics *services.MechanicService,
	vehicles *services.VehicleService,
	billing *services.BillingService,
	recorder *audit.Recorder,
) *Handlers {
	return &Handlers{
		Auth:     &AuthController{service: auth},
		Requests: &RequestController{service: requests},
		Mechanic: &MechanicController{service: mechanics},
		Vehicles: &VehicleController{service: vehicles},
		Billing:  &BillingController{service: billing},
		Admin:    &AdminController{recorder: recorder},
	}
}

// caller returns the authenticated identity with its role parsed.
func caller(r *http.Request) (uint, models.Role) {
	id, _ := middleware.IdentityFromCtx(r.Context())
	return id.UserID, models.Role(id.Role)
}

// pathID parses the named numeric path parameter, returning 0 when
// absent or malformed.
func pathID(r *http.Request, name string) uint {
	n, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(n)
}

// pageLimit reads ?page and ?limit with the listing defaults.
func pageLimit(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = orm.DefaultLimit
	}
	return page, limit
}
