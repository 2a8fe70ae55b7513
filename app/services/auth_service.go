package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/app/repositories"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/auth"
	"github.com/roadassist/roadassist/pkg/logger"
	"github.com/roadassist/roadassist/pkg/session"
)

// AuthService implements registration, login and session identity.
type AuthService struct {
	users *repositories.UserRepository
	audit AuditSink
}

func NewAuthService(users *repositories.UserRepository, audit AuditSink) *AuthService {
	return &AuthService{users: users, audit: audit}
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,in=client,mechanic,admin"`
	Name     string `json:"name" validate:"nullable,max=255"`
	Email    string `json:"email" validate:"nullable,email"`
	Phone    string `json:"phone" validate:"nullable,max=50"`
}

// Register creates the account, hashes the password and binds the
// session to the new user. Role is fixed at creation.
func (s *AuthService) Register(in RegisterInput, sess *session.Session) (models.User, error) {
	role, err := models.ParseRole(in.Role)
	if err != nil {
		return models.User{}, apperr.Validation(map[string]string{"role": "The selected role is invalid."})
	}

	taken, err := s.users.UsernameTaken(in.Username)
	if err != nil {
		return models.User{}, apperr.From(err)
	}
	if taken {
		return models.User{}, apperr.ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	user := models.User{
		Username: in.Username,
		Password: hash,
		Role:     role,
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, apperr.From(err)
	}

	s.bind(sess, user)
	s.audit.Record(user.ID, "user.register", "user", map[string]interface{}{"role": string(role)})
	logger.Info("user registered", "user_id", user.ID, "role", string(role))
	return user, nil
}

// LoginInput is the payload for credential login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies the credentials and binds the session. Unknown
// username and bad password are indistinguishable in the response.
func (s *AuthService) Login(in LoginInput, sess *session.Session) (models.User, error) {
	user, err := s.users.FindByUsername(in.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a full derivation so the miss costs the same as a mismatch.
			auth.CheckDummy(in.Password)
			return models.User{}, apperr.ErrInvalidCredentials
		}
		return models.User{}, apperr.From(err)
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return models.User{}, apperr.ErrInvalidCredentials
	}

	s.bind(sess, user)
	logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// Logout destroys the server-side session state.
func (s *AuthService) Logout(sess *session.Session) {
	if sess != nil {
		sess.Invalidate()
	}
}

// Current loads the full user record for the session identity.
func (s *AuthService) Current(userID uint) (models.User, error) {
	if userID == 0 {
		return models.User{}, apperr.ErrUnauthenticated
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperr.ErrUnauthenticated
		}
		return models.User{}, apperr.From(err)
	}
	return user, nil
}

// Token issues a Bearer token carrying the same identity as the
// session, for non-browser clients.
func (s *AuthService) Token(user models.User) (string, error) {
	t, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperr.Internal(err)
	}
	return t, nil
}

func (s *AuthService) bind(sess *session.Session, user models.User) {
	if sess == nil {
		return
	}
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
}
