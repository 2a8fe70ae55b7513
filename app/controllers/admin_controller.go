package controllers

import (
	"net/http"
	"strconv"

	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/audit"
	"github.com/roadassist/roadassist/pkg/response"
)

type AdminController struct {
	recorder *audit.Recorder
}

// Audit returns the most recent audit entries. Admin only; route-level
// rbac enforces the role.
func (c *AdminController) Audit(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := c.recorder.Recent(r.Context(), limit)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	response.Success(w, entries)
}
