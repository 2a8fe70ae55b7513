package controllers

import (
	"net/http"

	"github.com/roadassist/roadassist/app/services"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/bind"
	"github.com/roadassist/roadassist/pkg/response"
)

type MechanicController struct {
	service *services.MechanicService
}

// Create attaches an unapproved mechanic profile to the caller.
func (c *MechanicController) Create(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	var in services.ProfileInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	m, err := c.service.CreateProfile(role, userID, in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Created(w, m)
}

// Me returns the caller's own profile.
func (c *MechanicController) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	m, err := c.service.Profile(userID)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, m)
}

// UpdateMe edits availability, specialties and location.
func (c *MechanicController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	var in services.ProfileInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	m, err := c.service.UpdateProfile(userID, in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, m)
}

// Pending lists profiles awaiting approval. Admin only.
func (c *MechanicController) Pending(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	out, err := c.service.Pending(role)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, out)
}

// SetApproval approves or rejects a profile. Admin only.
func (c *MechanicController) SetApproval(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	var in struct {
		Approved *bool `json:"approved"`
	}
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	if in.Approved == nil {
		apperr.Respond(w, r, userID, apperr.Validation(map[string]string{"approved": "The approved field is required."}))
		return
	}

	m, err := c.service.SetApproval(role, userID, pathID(r, "id"), *in.Approved)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, m)
}

// Available lists approved and available mechanics, paginated.
func (c *MechanicController) Available(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)
	page, limit := pageLimit(r)

	out, p, err := c.service.Available(page, limit)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Paginated(w, out, p)
}

// UploadDocument stores a verification document on the caller's
// profile. Expects multipart form data with a "document" file.
func (c *MechanicController) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		apperr.Respond(w, r, userID, apperr.BadRequest("malformed multipart body"))
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		apperr.Respond(w, r, userID, apperr.Validation(map[string]string{"document": "The document file is required."}))
		return
	}
	defer file.Close()

	m, err := c.service.UploadDocument(userID, header.Filename, file)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Created(w, m)
}
