package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/orm"
)

// RequestRepository handles database operations for ServiceRequest.
type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) FindByID(id uint) (models.ServiceRequest, error) {
	var req models.ServiceRequest
	err := orm.New(r.db).Model(&models.ServiceRequest{}).Where("id = ?", id).First(&req)
	return req, err
}

func (r *RequestRepository) Create(req *models.ServiceRequest) error {
	return orm.New(r.db).Create(req)
}

func (r *RequestRepository) Update(req *models.ServiceRequest) error {
	return orm.New(r.db).Save(req)
}

// ListForRole returns the page of requests visible to the caller.
// Clients see their own rows, mechanics see rows assigned to them plus
// unassigned pending ones, admins see everything.
func (r *RequestRepository) ListForRole(role models.Role, userID uint, page, limit int) ([]models.ServiceRequest, orm.Pagination, error) {
	q := orm.New(r.db).Model(&models.ServiceRequest{})

	switch role {
	case models.RoleClient:
		q = q.Where("client_id = ?", userID)
	case models.RoleMechanic:
		q = q.Where("mechanic_id = ? OR (mechanic_id IS NULL AND status = ?)", userID, models.StatusPending)
	case models.RoleAdmin:
		// unrestricted
	}

	var out []models.ServiceRequest
	p, err := q.Order("created_at asc").GetWithPagination(&out, page, limit)
	return out, p, err
}

// Accept atomically assigns a pending request to a mechanic. The
// conditional WHERE closes the race between two mechanics accepting at
// once: only one update can match the pending row. Returns false when
// the row was no longer pending.
func (r *RequestRepository) Accept(id, mechanicID uint, at time.Time) (bool, error) {
	affected, err := orm.New(r.db).Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		UpdateColumns(map[string]interface{}{
			"status":      models.StatusAccepted,
			"mechanic_id": mechanicID,
			"accepted_at": at,
		})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Transition conditionally moves a request from one status to another,
// again relying on the affected-row count instead of read-then-write.
func (r *RequestRepository) Transition(id uint, from, to models.RequestStatus, extra map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range extra {
		values[k] = v
	}
	affected, err := orm.New(r.db).Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(values)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
