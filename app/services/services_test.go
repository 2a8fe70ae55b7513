package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/app/repositories"
	"github.com/roadassist/roadassist/pkg/auth"
	"github.com/roadassist/roadassist/pkg/cache"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.ServiceRequest{},
		&models.Mechanic{},
		&models.Payment{},
		&models.Review{},
	))
	return db
}

// fixture bundles the repositories and services under test.
type fixture struct {
	db        *gorm.DB
	users     *repositories.UserRepository
	requests  *repositories.RequestRepository
	mechanics *repositories.MechanicRepository
	billing   *repositories.BillingRepository

	authSvc     *AuthService
	requestSvc  *RequestService
	mechanicSvc *MechanicService
	billingSvc  *BillingService
}

func newFixture(t *testing.T) *fixture {
	cache.UseStore(cache.NewMemoryStore())
	db := testDB(t)
	users := repositories.NewUserRepository(db)
	requests := repositories.NewRequestRepository(db)
	mechanics := repositories.NewMechanicRepository(db)
	billing := repositories.NewBillingRepository(db)

	return &fixture{
		db:          db,
		users:       users,
		requests:    requests,
		mechanics:   mechanics,
		billing:     billing,
		authSvc:     NewAuthService(users, NopAudit),
		requestSvc:  NewRequestService(requests, mechanics, NopBroadcaster, NopAudit),
		mechanicSvc: NewMechanicService(mechanics, NopAudit),
		billingSvc:  NewBillingService(billing, requests, NopAudit),
	}
}

// seedUser inserts a user with a real password hash.
func (f *fixture) seedUser(t *testing.T, username string, role models.Role) models.User {
	t.Helper()
	hash, err := auth.HashPassword("password-123")
	require.NoError(t, err)
	u := models.User{Username: username, Password: hash, Role: role}
	require.NoError(t, f.users.Create(&u))
	return u
}

// seedMechanic inserts a user plus its mechanic profile.
func (f *fixture) seedMechanic(t *testing.T, username string, approved bool) (models.User, models.Mechanic) {
	t.Helper()
	u := f.seedUser(t, username, models.RoleMechanic)
	m := models.Mechanic{UserID: u.ID, Approved: approved, Available: true}
	require.NoError(t, f.mechanics.Create(&m))
	return u, m
}

// seedRequest inserts a pending request owned by clientID.
func (f *fixture) seedRequest(t *testing.T, clientID uint) models.ServiceRequest {
	t.Helper()
	req := models.ServiceRequest{
		ClientID:    clientID,
		Status:      models.StatusPending,
		ServiceType: "towing",
		Description: "flat tire",
		Location:    models.LatLng{Lat: 12.9, Lng: 77.6},
	}
	require.NoError(t, f.requests.Create(&req))
	return req
}
