package migrations

import (
	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_vehicles_table", &CreateVehiclesTable{})
	migration.Register("20260301000002_create_service_requests_table", &CreateServiceRequestsTable{})
	migration.Register("20260301000003_create_mechanics_table", &CreateMechanicsTable{})
	migration.Register("20260301000004_create_payments_table", &CreatePaymentsTable{})
	migration.Register("20260301000005_create_reviews_table", &CreateReviewsTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateVehiclesTable struct{}

func (m *CreateVehiclesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Vehicle{})
}

func (m *CreateVehiclesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("vehicles")
}

type CreateServiceRequestsTable struct{}

func (m *CreateServiceRequestsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ServiceRequest{})
}

func (m *CreateServiceRequestsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("service_requests")
}

type CreateMechanicsTable struct{}

func (m *CreateMechanicsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Mechanic{})
}

func (m *CreateMechanicsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("mechanics")
}

type CreatePaymentsTable struct{}

func (m *CreatePaymentsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Payment{})
}

func (m *CreatePaymentsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("payments")
}

type CreateReviewsTable struct{}

func (m *CreateReviewsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Review{})
}

func (m *CreateReviewsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("reviews")
}
