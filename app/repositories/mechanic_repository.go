package repositories

import (
	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/orm"
)

// MechanicRepository handles database operations for Mechanic.
type MechanicRepository struct {
	db *gorm.DB
}

func NewMechanicRepository(db *gorm.DB) *MechanicRepository {
	return &MechanicRepository{db: db}
}

func (r *MechanicRepository) FindByID(id uint) (models.Mechanic, error) {
	var m models.Mechanic
	err := orm.New(r.db).Model(&models.Mechanic{}).Where("id = ?", id).First(&m)
	return m, err
}

// FindByUserID resolves the 1:1 profile for a user.
func (r *MechanicRepository) FindByUserID(userID uint) (models.Mechanic, error) {
	var m models.Mechanic
	err := orm.New(r.db).Model(&models.Mechanic{}).Where("user_id = ?", userID).First(&m)
	return m, err
}

func (r *MechanicRepository) Create(m *models.Mechanic) error {
	return orm.New(r.db).Create(m)
}

func (r *MechanicRepository) Update(m *models.Mechanic) error {
	return orm.New(r.db).Save(m)
}

func (r *MechanicRepository) Delete(m *models.Mechanic) error {
	return orm.New(r.db).Delete(m)
}

// Pending returns every profile awaiting admin approval.
func (r *MechanicRepository) Pending() ([]models.Mechanic, error) {
	var out []models.Mechanic
	err := orm.New(r.db).Model(&models.Mechanic{}).
		Where("approved = ?", false).
		Order("created_at asc").
		Find(&out)
	return out, err
}

// Available returns the page of approved and currently available
// mechanics.
func (r *MechanicRepository) Available(page, limit int) ([]models.Mechanic, orm.Pagination, error) {
	var out []models.Mechanic
	p, err := orm.New(r.db).Model(&models.Mechanic{}).
		Where("approved = ? AND available = ?", true, true).
		Order("created_at asc").
		GetWithPagination(&out, page, limit)
	return out, p, err
}

// IncrementJobs bumps the completed-job counter for a mechanic.
func (r *MechanicRepository) IncrementJobs(id uint) error {
	return r.db.Model(&models.Mechanic{}).
		Where("id = ?", id).
		UpdateColumn("jobs_completed", gorm.Expr("jobs_completed + 1")).Error
}
