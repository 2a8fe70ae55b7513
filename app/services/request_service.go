package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/app/repositories"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/logger"
	"github.com/roadassist/roadassist/pkg/metrics"
	"github.com/roadassist/roadassist/pkg/middleware"
	"github.com/roadassist/roadassist/pkg/orm"
)

// requestCachePattern covers every cached listing and detail response
// under the service-requests routes.
const requestCachePattern = "/api/service-requests*"

// RequestService implements the service-request lifecycle.
type RequestService struct {
	requests  *repositories.RequestRepository
	mechanics *repositories.MechanicRepository
	hub       Broadcaster
	audit     AuditSink
}

func NewRequestService(
	requests *repositories.RequestRepository,
	mechanics *repositories.MechanicRepository,
	hub Broadcaster,
	audit AuditSink,
) *RequestService {
	return &RequestService{requests: requests, mechanics: mechanics, hub: hub, audit: audit}
}

// statusEvent is the payload pushed to websocket subscribers on every
// transition.
type statusEvent struct {
	RequestID  uint                 `json:"requestId"`
	From       models.RequestStatus `json:"from"`
	To         models.RequestStatus `json:"to"`
	MechanicID *uint                `json:"mechanicId,omitempty"`
	At         time.Time            `json:"at"`
}

// CreateInput is the payload for submitting a new request.
type CreateInput struct {
	ServiceType string        `json:"serviceType" validate:"required,max=100"`
	Description string        `json:"description" validate:"required,max=2000"`
	Location    models.LatLng `json:"location"`
	VehicleID   *uint         `json:"vehicleId"`
}

// Create submits a new pending request owned by the calling client.
func (s *RequestService) Create(role models.Role, userID uint, in CreateInput) (models.ServiceRequest, error) {
	if role != models.RoleClient {
		return models.ServiceRequest{}, apperr.Forbidden("only clients can create service requests")
	}

	req := models.ServiceRequest{
		ClientID:    userID,
		Status:      models.StatusPending,
		ServiceType: in.ServiceType,
		Description: in.Description,
		Location:    in.Location,
		VehicleID:   in.VehicleID,
	}
	if err := s.requests.Create(&req); err != nil {
		return models.ServiceRequest{}, apperr.From(err)
	}

	metrics.RequestCreated()
	middleware.InvalidateCache(requestCachePattern)
	s.audit.Record(userID, "request.create", "service_request", map[string]interface{}{"request_id": req.ID})
	logger.Info("service request created", "request_id", req.ID, "client_id", userID)
	return req, nil
}

// Get returns one request, enforcing the same visibility rules as
// listing.
func (s *RequestService) Get(role models.Role, userID, id uint) (models.ServiceRequest, error) {
	req, err := s.requests.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ServiceRequest{}, apperr.NotFound("service request")
		}
		return models.ServiceRequest{}, apperr.From(err)
	}
	if !visible(role, userID, req) {
		return models.ServiceRequest{}, apperr.NotFound("service request")
	}
	return req, nil
}

// List returns the caller's page of requests, ordered oldest first.
func (s *RequestService) List(role models.Role, userID uint, page, limit int) ([]models.ServiceRequest, orm.Pagination, error) {
	out, p, err := s.requests.ListForRole(role, userID, page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.From(err)
	}
	return out, p, nil
}

// Accept assigns a pending request to the calling mechanic. Approval
// is checked first; the conditional update then guarantees at most one
// mechanic wins when several accept concurrently.
func (s *RequestService) Accept(role models.Role, userID, id uint) (models.ServiceRequest, error) {
	if role != models.RoleMechanic {
		return models.ServiceRequest{}, apperr.Forbidden("only mechanics can accept service requests")
	}

	profile, err := s.mechanics.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ServiceRequest{}, apperr.Forbidden("mechanic profile required")
		}
		return models.ServiceRequest{}, apperr.From(err)
	}
	if !profile.Approved {
		return models.ServiceRequest{}, apperr.Forbidden("mechanic is not approved")
	}

	req, err := s.requests.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ServiceRequest{}, apperr.NotFound("service request")
		}
		return models.ServiceRequest{}, apperr.From(err)
	}

	now := time.Now().UTC()
	won, err := s.requests.Accept(id, userID, now)
	if err != nil {
		return models.ServiceRequest{}, apperr.From(err)
	}
	if !won {
		metrics.AcceptConflict()
		return models.ServiceRequest{}, apperr.InvalidTransition(string(req.Status), string(models.StatusAccepted))
	}

	s.afterTransition(userID, id, req.Status, models.StatusAccepted, &userID)
	return s.requests.FindByID(id)
}

// Start moves an accepted request to in_progress. Only the assigned
// mechanic may start the job.
func (s *RequestService) Start(role models.Role, userID, id uint) (models.ServiceRequest, error) {
	req, err := s.assignedRequest(role, userID, id)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	moved, err := s.requests.Transition(id, models.StatusAccepted, models.StatusInProgress, nil)
	if err != nil {
		return models.ServiceRequest{}, apperr.From(err)
	}
	if !moved {
		return models.ServiceRequest{}, apperr.InvalidTransition(string(req.Status), string(models.StatusInProgress))
	}

	s.afterTransition(userID, id, req.Status, models.StatusInProgress, req.MechanicID)
	return s.requests.FindByID(id)
}

// Complete finishes the job. Allowed from accepted or in_progress by
// the assigned mechanic; stamps completedAt and bumps the mechanic's
// job counter.
func (s *RequestService) Complete(role models.Role, userID, id uint) (models.ServiceRequest, error) {
	req, err := s.assignedRequest(role, userID, id)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	now := time.Now().UTC()
	extra := map[string]interface{}{"completed_at": now}

	moved, err := s.requests.Transition(id, models.StatusAccepted, models.StatusCompleted, extra)
	if err != nil {
		return models.ServiceRequest{}, apperr.From(err)
	}
	if !moved {
		moved, err = s.requests.Transition(id, models.StatusInProgress, models.StatusCompleted, extra)
		if err != nil {
			return models.ServiceRequest{}, apperr.From(err)
		}
	}
	if !moved {
		return models.ServiceRequest{}, apperr.InvalidTransition(string(req.Status), string(models.StatusCompleted))
	}

	if profile, perr := s.mechanics.FindByUserID(userID); perr == nil {
		if ierr := s.mechanics.IncrementJobs(profile.ID); ierr != nil {
			logger.Warn("job counter update failed", "mechanic_id", profile.ID, "error", ierr)
		}
	}

	s.afterTransition(userID, id, req.Status, models.StatusCompleted, req.MechanicID)
	return s.requests.FindByID(id)
}

// Cancel aborts a request from pending or accepted. The owning client
// or the assigned mechanic may cancel; admins may always cancel.
func (s *RequestService) Cancel(role models.Role, userID, id uint) (models.ServiceRequest, error) {
	req, err := s.requests.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ServiceRequest{}, apperr.NotFound("service request")
		}
		return models.ServiceRequest{}, apperr.From(err)
	}

	if !canCancel(role, userID, req) {
		return models.ServiceRequest{}, apperr.Forbidden("not a party to this service request")
	}
	if !models.CanTransition(req.Status, models.StatusCancelled) {
		return models.ServiceRequest{}, apperr.InvalidTransition(string(req.Status), string(models.StatusCancelled))
	}

	moved, err := s.requests.Transition(id, req.Status, models.StatusCancelled, nil)
	if err != nil {
		return models.ServiceRequest{}, apperr.From(err)
	}
	if !moved {
		return models.ServiceRequest{}, apperr.InvalidTransition(string(req.Status), string(models.StatusCancelled))
	}

	s.afterTransition(userID, id, req.Status, models.StatusCancelled, req.MechanicID)
	return s.requests.FindByID(id)
}

// UpdateInput is the payload for the general PATCH. Status changes are
// routed through the lifecycle operations; the remaining fields are
// editable only by the owning client while the request is pending.
type UpdateInput struct {
	Status      *string        `json:"status"`
	ServiceType *string        `json:"serviceType" validate:"nullable,max=100"`
	Description *string        `json:"description" validate:"nullable,max=2000"`
	Location    *models.LatLng `json:"location"`
}

// Update applies a partial edit. ClientID and ID are never editable.
func (s *RequestService) Update(role models.Role, userID, id uint, in UpdateInput) (models.ServiceRequest, error) {
	if in.Status != nil {
		return s.updateStatus(role, userID, id, models.RequestStatus(*in.Status))
	}

	req, err := s.requests.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ServiceRequest{}, apperr.NotFound("service request")
		}
		return models.ServiceRequest{}, apperr.From(err)
	}

	if role != models.RoleAdmin && (role != models.RoleClient || req.ClientID != userID) {
		return models.ServiceRequest{}, apperr.Forbidden("only the owning client may edit a request")
	}
	if role == models.RoleClient && req.Status != models.StatusPending {
		return models.ServiceRequest{}, apperr.InvalidTransition(string(req.Status), string(req.Status))
	}

	if in.ServiceType != nil {
		req.ServiceType = *in.ServiceType
	}
	if in.Description != nil {
		req.Description = *in.Description
	}
	if in.Location != nil {
		req.Location = *in.Location
	}
	if err := s.requests.Update(&req); err != nil {
		return models.ServiceRequest{}, apperr.From(err)
	}

	middleware.InvalidateCache(requestCachePattern)
	return req, nil
}

func (s *RequestService) updateStatus(role models.Role, userID, id uint, to models.RequestStatus) (models.ServiceRequest, error) {
	if !to.Valid() {
		return models.ServiceRequest{}, apperr.Validation(map[string]string{"status": "The selected status is invalid."})
	}
	switch to {
	case models.StatusAccepted:
		return s.Accept(role, userID, id)
	case models.StatusInProgress:
		return s.Start(role, userID, id)
	case models.StatusCompleted:
		return s.Complete(role, userID, id)
	case models.StatusCancelled:
		return s.Cancel(role, userID, id)
	default:
		return models.ServiceRequest{}, apperr.InvalidTransition("", string(to))
	}
}

// assignedRequest loads a request and verifies the caller is the
// mechanic assigned to it.
func (s *RequestService) assignedRequest(role models.Role, userID, id uint) (models.ServiceRequest, error) {
	if role != models.RoleMechanic {
		return models.ServiceRequest{}, apperr.Forbidden("only the assigned mechanic may do this")
	}
	req, err := s.requests.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ServiceRequest{}, apperr.NotFound("service request")
		}
		return models.ServiceRequest{}, apperr.From(err)
	}
	if req.MechanicID == nil || *req.MechanicID != userID {
		return models.ServiceRequest{}, apperr.Forbidden("only the assigned mechanic may do this")
	}
	return req, nil
}

func (s *RequestService) afterTransition(actorID, requestID uint, from, to models.RequestStatus, mechanicID *uint) {
	metrics.StatusTransition(string(from), string(to))
	middleware.InvalidateCache(requestCachePattern)
	s.hub.Broadcast(statusEvent{
		RequestID:  requestID,
		From:       from,
		To:         to,
		MechanicID: mechanicID,
		At:         time.Now().UTC(),
	})
	s.audit.Record(actorID, "request."+string(to), "service_request", map[string]interface{}{
		"request_id": requestID,
		"from":       string(from),
	})
	logger.Info("service request transition",
		"request_id", requestID, "from", string(from), "to", string(to), "actor_id", actorID)
}

func visible(role models.Role, userID uint, req models.ServiceRequest) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return req.ClientID == userID
	case models.RoleMechanic:
		if req.MechanicID != nil {
			return *req.MechanicID == userID
		}
		return req.Status == models.StatusPending
	}
	return false
}

func canCancel(role models.Role, userID uint, req models.ServiceRequest) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return req.ClientID == userID
	case models.RoleMechanic:
		return req.MechanicID != nil && *req.MechanicID == userID
	}
	return false
}
