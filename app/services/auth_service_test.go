package services

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/session"
)

func TestRegisterAndDuplicateUsername(t *testing.T) {
	f := newFixture(t)

	in := RegisterInput{Username: "alice", Password: "password-123", Role: "client"}
	user, err := f.authSvc.Register(in, nil)
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, models.RoleClient, user.Role)

	_, err = f.authSvc.Register(in, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrDuplicateUsername))
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.authSvc.Register(RegisterInput{
		Username: "bob", Password: "password-123", Role: "superuser",
	}, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestRegisterBindsSession(t *testing.T) {
	f := newFixture(t)

	sess := session.FromCtx(httptest.NewRequest("POST", "/api/register", nil))
	user, err := f.authSvc.Register(RegisterInput{
		Username: "carol", Password: "password-123", Role: "mechanic",
	}, sess)
	require.NoError(t, err)

	gotID, ok := sess.GetUint("user_id")
	require.True(t, ok)
	require.Equal(t, user.ID, gotID)

	role, ok := sess.GetString("role")
	require.True(t, ok)
	require.Equal(t, "mechanic", role)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "dave", models.RoleClient)

	user, err := f.authSvc.Login(LoginInput{Username: "dave", Password: "password-123"}, nil)
	require.NoError(t, err)
	require.Equal(t, "dave", user.Username)

	_, err = f.authSvc.Login(LoginInput{Username: "dave", Password: "wrong"}, nil)
	require.True(t, errors.Is(err, apperr.ErrInvalidCredentials))

	_, err = f.authSvc.Login(LoginInput{Username: "nobody", Password: "password-123"}, nil)
	require.True(t, errors.Is(err, apperr.ErrInvalidCredentials))
}

func TestCurrent(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "erin", models.RoleAdmin)

	got, err := f.authSvc.Current(u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Username, got.Username)

	_, err = f.authSvc.Current(0)
	require.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	_, err = f.authSvc.Current(9999)
	require.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}
