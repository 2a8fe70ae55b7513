package repositories

import (
	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername looks up a user by their unique username.
func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := orm.New(r.db).Model(&models.User{}).Where("username = ?", username).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.New(r.db).Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// UsernameTaken reports whether a user with the username exists.
func (r *UserRepository) UsernameTaken(username string) (bool, error) {
	var n int64
	err := orm.New(r.db).Model(&models.User{}).Where("username = ?", username).Count(&n)
	return n > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.New(r.db).Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.New(r.db).Save(user)
}
