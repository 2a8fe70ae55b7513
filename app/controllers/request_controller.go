package controllers

import (
	"net/http"

	"github.com/roadassist/roadassist/app/services"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/bind"
	"github.com/roadassist/roadassist/pkg/response"
)

type RequestController struct {
	service *services.RequestService
}

// Create submits a new service request.
func (c *RequestController) Create(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	var in services.CreateInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	req, err := c.service.Create(role, userID, in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Created(w, req)
}

// List returns the caller's visible page of requests.
func (c *RequestController) List(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)
	page, limit := pageLimit(r)

	out, p, err := c.service.List(role, userID, page, limit)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Paginated(w, out, p)
}

// Get returns a single request the caller may see.
func (c *RequestController) Get(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	req, err := c.service.Get(role, userID, pathID(r, "id"))
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, req)
}

// Update applies a partial edit or a status transition.
func (c *RequestController) Update(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	var in services.UpdateInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	req, err := c.service.Update(role, userID, pathID(r, "id"), in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, req)
}

// Accept assigns the request to the calling mechanic.
func (c *RequestController) Accept(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	req, err := c.service.Accept(role, userID, pathID(r, "id"))
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, req)
}

// Start moves the job to in_progress.
func (c *RequestController) Start(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	req, err := c.service.Start(role, userID, pathID(r, "id"))
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, req)
}

// Complete finishes the job.
func (c *RequestController) Complete(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	req, err := c.service.Complete(role, userID, pathID(r, "id"))
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, req)
}

// Cancel aborts the request.
func (c *RequestController) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	req, err := c.service.Cancel(role, userID, pathID(r, "id"))
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, req)
}
