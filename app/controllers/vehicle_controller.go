package controllers

import (
	"net/http"

	"github.com/roadassist/roadassist/app/services"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/bind"
	"github.com/roadassist/roadassist/pkg/response"
)

type VehicleController struct {
	service *services.VehicleService
}

// Create registers a vehicle for the caller.
func (c *VehicleController) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	var in services.VehicleInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	v, err := c.service.Create(userID, in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Created(w, v)
}

// Mine lists the caller's vehicles.
func (c *VehicleController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	out, err := c.service.Mine(userID)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, out)
}

// Update edits a vehicle the caller owns.
func (c *VehicleController) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	var in services.VehicleInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	v, err := c.service.Update(userID, pathID(r, "id"), in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, v)
}

// Delete removes a vehicle the caller owns.
func (c *VehicleController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	if err := c.service.Delete(userID, pathID(r, "id")); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Message(w, "vehicle deleted", nil)
}
