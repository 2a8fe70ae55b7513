package services

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/app/repositories"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/logger"
	"github.com/roadassist/roadassist/pkg/middleware"
	"github.com/roadassist/roadassist/pkg/orm"
	"github.com/roadassist/roadassist/pkg/storage"
)

// availableCachePattern covers the cached approved-mechanics listing.
const availableCachePattern = "/api/mechanics/available*"

// MechanicService implements the mechanic profile and approval
// workflow.
type MechanicService struct {
	mechanics *repositories.MechanicRepository
	audit     AuditSink
}

func NewMechanicService(mechanics *repositories.MechanicRepository, audit AuditSink) *MechanicService {
	return &MechanicService{mechanics: mechanics, audit: audit}
}

// ProfileInput is the payload for creating or updating a profile.
type ProfileInput struct {
	Specialties    string        `json:"specialties" validate:"nullable,max=500"`
	Available      bool          `json:"available"`
	ActiveLocation models.LatLng `json:"activeLocation"`
}

// CreateProfile attaches an unapproved profile to the calling user.
// One profile per user id.
func (s *MechanicService) CreateProfile(role models.Role, userID uint, in ProfileInput) (models.Mechanic, error) {
	if role != models.RoleMechanic {
		return models.Mechanic{}, apperr.Forbidden("only mechanic accounts may create a profile")
	}

	if _, err := s.mechanics.FindByUserID(userID); err == nil {
		return models.Mechanic{}, apperr.BadRequest("mechanic profile already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Mechanic{}, apperr.From(err)
	}

	m := models.Mechanic{
		UserID:         userID,
		Approved:       false,
		Available:      in.Available,
		Specialties:    in.Specialties,
		ActiveLocation: in.ActiveLocation,
	}
	if err := s.mechanics.Create(&m); err != nil {
		return models.Mechanic{}, apperr.From(err)
	}

	s.audit.Record(userID, "mechanic.create", "mechanic", map[string]interface{}{"mechanic_id": m.ID})
	logger.Info("mechanic profile created", "mechanic_id", m.ID, "user_id", userID)
	return m, nil
}

// Profile returns the caller's own profile.
func (s *MechanicService) Profile(userID uint) (models.Mechanic, error) {
	m, err := s.mechanics.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Mechanic{}, apperr.NotFound("mechanic profile")
		}
		return models.Mechanic{}, apperr.From(err)
	}
	return m, nil
}

// UpdateProfile lets a mechanic edit availability, specialties and
// location. Approved is never touched here.
func (s *MechanicService) UpdateProfile(userID uint, in ProfileInput) (models.Mechanic, error) {
	m, err := s.Profile(userID)
	if err != nil {
		return models.Mechanic{}, err
	}

	m.Specialties = in.Specialties
	m.Available = in.Available
	m.ActiveLocation = in.ActiveLocation
	if err := s.mechanics.Update(&m); err != nil {
		return models.Mechanic{}, apperr.From(err)
	}
	middleware.InvalidateCache(availableCachePattern)
	return m, nil
}

// Pending lists every profile awaiting approval. Admin only.
func (s *MechanicService) Pending(role models.Role) ([]models.Mechanic, error) {
	if role != models.RoleAdmin {
		return nil, apperr.ErrForbidden
	}
	out, err := s.mechanics.Pending()
	if err != nil {
		return nil, apperr.From(err)
	}
	return out, nil
}

// SetApproval approves or rejects a pending profile. Rejection deletes
// the profile. Admin only.
func (s *MechanicService) SetApproval(role models.Role, actorID, mechanicID uint, approved bool) (models.Mechanic, error) {
	if role != models.RoleAdmin {
		return models.Mechanic{}, apperr.ErrForbidden
	}

	m, err := s.mechanics.FindByID(mechanicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Mechanic{}, apperr.NotFound("mechanic profile")
		}
		return models.Mechanic{}, apperr.From(err)
	}

	if !approved {
		if err := s.mechanics.Delete(&m); err != nil {
			return models.Mechanic{}, apperr.From(err)
		}
		middleware.InvalidateCache(availableCachePattern)
		s.audit.Record(actorID, "mechanic.reject", "mechanic", map[string]interface{}{"mechanic_id": m.ID})
		logger.Info("mechanic profile rejected", "mechanic_id", m.ID, "admin_id", actorID)
		return m, nil
	}

	m.Approved = true
	if err := s.mechanics.Update(&m); err != nil {
		return models.Mechanic{}, apperr.From(err)
	}
	middleware.InvalidateCache(availableCachePattern)
	s.audit.Record(actorID, "mechanic.approve", "mechanic", map[string]interface{}{"mechanic_id": m.ID})
	logger.Info("mechanic profile approved", "mechanic_id", m.ID, "admin_id", actorID)
	return m, nil
}

// Available returns the page of approved and available mechanics.
func (s *MechanicService) Available(page, limit int) ([]models.Mechanic, orm.Pagination, error) {
	out, p, err := s.mechanics.Available(page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.From(err)
	}
	return out, p, nil
}

// UploadDocument stores a verification document and records its URL on
// the profile.
func (s *MechanicService) UploadDocument(userID uint, filename string, r io.Reader) (models.Mechanic, error) {
	m, err := s.Profile(userID)
	if err != nil {
		return models.Mechanic{}, err
	}

	key := fmt.Sprintf("mechanics/%d/%d%s", m.ID, time.Now().UnixNano(), path.Ext(filename))
	if err := storage.PutStream(key, r); err != nil {
		return models.Mechanic{}, apperr.Internal(err)
	}

	m.Documents = append(m.Documents, storage.URL(key))
	if err := s.mechanics.Update(&m); err != nil {
		return models.Mechanic{}, apperr.From(err)
	}

	s.audit.Record(userID, "mechanic.document", "mechanic", map[string]interface{}{"mechanic_id": m.ID, "key": key})
	return m, nil
}
