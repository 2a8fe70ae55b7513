package controllers

import (
	"net/http"

	"github.com/roadassist/roadassist/app/services"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/bind"
	"github.com/roadassist/roadassist/pkg/response"
)

type BillingController struct {
	service *services.BillingService
}

// CreatePayment records a payment against a service request.
func (c *BillingController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	var in services.PaymentInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	p, err := c.service.CreatePayment(role, userID, in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Created(w, p)
}

// PaymentsForRequest lists payments on one service request.
func (c *BillingController) PaymentsForRequest(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	out, err := c.service.PaymentsForRequest(role, userID, pathID(r, "requestId"))
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, out)
}

// PaymentsForUser lists payments across the caller's requests.
func (c *BillingController) PaymentsForUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	out, err := c.service.PaymentsForUser(userID)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, out)
}

// CreateReview attaches a rating to a service request.
func (c *BillingController) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, role := caller(r)

	var in services.ReviewInput
	if err := bind.JSON(r, &in); err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}

	rv, err := c.service.CreateReview(role, userID, in)
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Created(w, rv)
}

// ReviewsForUser lists reviews received by a user.
func (c *BillingController) ReviewsForUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := caller(r)

	out, err := c.service.ReviewsForUser(pathID(r, "userId"))
	if err != nil {
		apperr.Respond(w, r, userID, err)
		return
	}
	response.Success(w, out)
}
