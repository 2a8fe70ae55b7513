package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/app/repositories"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/logger"
)

// BillingService implements payments and reviews. Payments attach to a
// service request independently of its lifecycle; nothing here is
// triggered by a transition.
type BillingService struct {
	billing  *repositories.BillingRepository
	requests *repositories.RequestRepository
	audit    AuditSink
}

func NewBillingService(
	billing *repositories.BillingRepository,
	requests *repositories.RequestRepository,
	audit AuditSink,
) *BillingService {
	return &BillingService{billing: billing, requests: requests, audit: audit}
}

// PaymentInput is the payload for recording a payment.
type PaymentInput struct {
	ServiceRequestID uint    `json:"serviceRequestId" validate:"required"`
	Amount           float64 `json:"amount" validate:"required,gt=0"`
	Status           string  `json:"status" validate:"nullable,in=pending,completed,failed,refunded"`
	Method           string  `json:"method" validate:"nullable,max=50"`
}

// CreatePayment records a payment against a request the caller is a
// party to.
func (s *BillingService) CreatePayment(role models.Role, userID uint, in PaymentInput) (models.Payment, error) {
	req, err := s.partyRequest(role, userID, in.ServiceRequestID)
	if err != nil {
		return models.Payment{}, err
	}

	status := models.PaymentStatus(in.Status)
	if in.Status == "" {
		status = models.PaymentPending
	}

	p := models.Payment{
		ServiceRequestID: req.ID,
		Amount:           in.Amount,
		Status:           status,
		Method:           in.Method,
	}
	if err := s.billing.CreatePayment(&p); err != nil {
		return models.Payment{}, apperr.From(err)
	}

	s.audit.Record(userID, "payment.create", "payment", map[string]interface{}{
		"payment_id": p.ID,
		"request_id": req.ID,
		"amount":     in.Amount,
	})
	logger.Info("payment recorded", "payment_id", p.ID, "request_id", req.ID)
	return p, nil
}

// PaymentsForRequest lists payments on one request the caller is a
// party to.
func (s *BillingService) PaymentsForRequest(role models.Role, userID, requestID uint) ([]models.Payment, error) {
	if _, err := s.partyRequest(role, userID, requestID); err != nil {
		return nil, err
	}
	out, err := s.billing.PaymentsForRequest(requestID)
	if err != nil {
		return nil, apperr.From(err)
	}
	return out, nil
}

// PaymentsForUser lists payments across every request the caller is
// party to, whether as client or as assigned mechanic.
func (s *BillingService) PaymentsForUser(userID uint) ([]models.Payment, error) {
	out, err := s.billing.PaymentsForUser(userID)
	if err != nil {
		return nil, apperr.From(err)
	}
	return out, nil
}

// ReviewInput is the payload for leaving a review.
type ReviewInput struct {
	ServiceRequestID uint   `json:"serviceRequestId" validate:"required"`
	ToUserID         uint   `json:"toUserId" validate:"required"`
	Rating           int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment          string `json:"comment" validate:"nullable,max=2000"`
}

// CreateReview attaches a one-directional rating to a request the
// caller is a party to. Duplicate reviews per request are not
// prevented.
func (s *BillingService) CreateReview(role models.Role, userID uint, in ReviewInput) (models.Review, error) {
	if _, err := s.partyRequest(role, userID, in.ServiceRequestID); err != nil {
		return models.Review{}, err
	}

	rv := models.Review{
		ServiceRequestID: in.ServiceRequestID,
		FromUserID:       userID,
		ToUserID:         in.ToUserID,
		Rating:           in.Rating,
		Comment:          in.Comment,
	}
	if err := s.billing.CreateReview(&rv); err != nil {
		return models.Review{}, apperr.From(err)
	}

	s.audit.Record(userID, "review.create", "review", map[string]interface{}{
		"review_id":  rv.ID,
		"request_id": in.ServiceRequestID,
	})
	return rv, nil
}

// ReviewsForUser lists reviews received by a user. Publicly readable
// by any authenticated caller.
func (s *BillingService) ReviewsForUser(userID uint) ([]models.Review, error) {
	out, err := s.billing.ReviewsForUser(userID)
	if err != nil {
		return nil, apperr.From(err)
	}
	return out, nil
}

// partyRequest loads a request and verifies the caller is the owning
// client, the assigned mechanic or an admin.
func (s *BillingService) partyRequest(role models.Role, userID, requestID uint) (models.ServiceRequest, error) {
	req, err := s.requests.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ServiceRequest{}, apperr.NotFound("service request")
		}
		return models.ServiceRequest{}, apperr.From(err)
	}

	switch role {
	case models.RoleAdmin:
	case models.RoleClient:
		if req.ClientID != userID {
			return models.ServiceRequest{}, apperr.ErrForbidden
		}
	case models.RoleMechanic:
		if req.MechanicID == nil || *req.MechanicID != userID {
			return models.ServiceRequest{}, apperr.ErrForbidden
		}
	default:
		return models.ServiceRequest{}, apperr.ErrForbidden
	}
	return req, nil
}
