package controllers

import (
	"net/http"

	"github.com/roadassist/roadassist/app/services"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/bind"
	"github.com/roadassist/roadassist/pkg/middleware"
	"github.com/roadassist/roadassist/pkg/response"
	"github.com/roadassist/roadassist/pkg/session"
)

type AuthController struct {
	service *services.AuthService
}

// Register creates an account and logs it in.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, 0, err)
		return
	}

	sess := session.FromCtx(r)
	user, err := c.service.Register(in, sess)
	if err != nil {
		apperr.Respond(w, r, 0, err)
		return
	}
	if err := sess.Save(w); err != nil {
		apperr.Respond(w, r, user.ID, err)
		return
	}
	response.Created(w, map[string]interface{}{"user": user, "message": "registered"})
}

// Login verifies credentials and binds the session.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, 0, err)
		return
	}

	sess := session.FromCtx(r)
	user, err := c.service.Login(in, sess)
	if err != nil {
		apperr.Respond(w, r, 0, err)
		return
	}
	if err := sess.Save(w); err != nil {
		apperr.Respond(w, r, user.ID, err)
		return
	}
	response.Success(w, map[string]interface{}{"user": user, "message": "logged in"})
}

// Logout destroys the session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.service.Logout(session.FromCtx(r))
	response.Message(w, "logged out", nil)
}

// Me returns the session's user.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	user, err := c.service.Current(userID)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, user)
}

// Token issues a Bearer token for the session's user, for API clients
// that cannot hold cookies.
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	user, err := c.service.Current(userID)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	token, err := c.service.Token(user)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, map[string]string{"token": token})
}
