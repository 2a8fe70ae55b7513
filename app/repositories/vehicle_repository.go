package repositories

import (
	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/orm"
)

// VehicleRepository handles database operations for Vehicle.
type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) FindByID(id uint) (models.Vehicle, error) {
	var v models.Vehicle
	err := orm.New(r.db).Model(&models.Vehicle{}).Where("id = ?", id).First(&v)
	return v, err
}

// ByOwner returns every vehicle registered to the given user.
func (r *VehicleRepository) ByOwner(ownerID uint) ([]models.Vehicle, error) {
	var out []models.Vehicle
	err := orm.New(r.db).Model(&models.Vehicle{}).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&out)
	return out, err
}

func (r *VehicleRepository) Create(v *models.Vehicle) error {
	return orm.New(r.db).Create(v)
}

func (r *VehicleRepository) Update(v *models.Vehicle) error {
	return orm.New(r.db).Save(v)
}

func (r *VehicleRepository) Delete(v *models.Vehicle) error {
	return orm.New(r.db).Delete(v)
}
