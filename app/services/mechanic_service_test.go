package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/apperr"
)

func TestCreateProfileOncePerUser(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "m1", models.RoleMechanic)

	m, err := f.mechanicSvc.CreateProfile(models.RoleMechanic, u.ID, ProfileInput{Available: true})
	require.NoError(t, err)
	require.False(t, m.Approved, "new profiles start unapproved")

	_, err = f.mechanicSvc.CreateProfile(models.RoleMechanic, u.ID, ProfileInput{})
	require.Error(t, err)
}

func TestCreateProfileRequiresMechanicRole(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "c1", models.RoleClient)

	_, err := f.mechanicSvc.CreateProfile(models.RoleClient, u.ID, ProfileInput{})
	require.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestApprovalIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	_, profile := f.seedMechanic(t, "m1", false)
	admin := f.seedUser(t, "a1", models.RoleAdmin)
	client := f.seedUser(t, "c1", models.RoleClient)

	_, err := f.mechanicSvc.SetApproval(models.RoleClient, client.ID, profile.ID, true)
	require.True(t, errors.Is(err, apperr.ErrForbidden))
	_, err = f.mechanicSvc.SetApproval(models.RoleMechanic, client.ID, profile.ID, true)
	require.True(t, errors.Is(err, apperr.ErrForbidden))

	m, err := f.mechanicSvc.SetApproval(models.RoleAdmin, admin.ID, profile.ID, true)
	require.NoError(t, err)
	require.True(t, m.Approved)
}

func TestApprovalUnlocksAccept(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	admin := f.seedUser(t, "a1", models.RoleAdmin)
	mechUser, profile := f.seedMechanic(t, "m1", false)
	req := f.seedRequest(t, client.ID)

	_, err := f.requestSvc.Accept(models.RoleMechanic, mechUser.ID, req.ID)
	require.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = f.mechanicSvc.SetApproval(models.RoleAdmin, admin.ID, profile.ID, true)
	require.NoError(t, err)

	got, err := f.requestSvc.Accept(models.RoleMechanic, mechUser.ID, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, got.Status)
}

func TestRejectDeletesProfile(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "a1", models.RoleAdmin)
	mechUser, profile := f.seedMechanic(t, "m1", false)

	_, err := f.mechanicSvc.SetApproval(models.RoleAdmin, admin.ID, profile.ID, false)
	require.NoError(t, err)

	_, err = f.mechanicSvc.Profile(mechUser.ID)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPendingListsOnlyUnapproved(t *testing.T) {
	f := newFixture(t)
	f.seedMechanic(t, "m1", false)
	f.seedMechanic(t, "m2", true)

	out, err := f.mechanicSvc.Pending(models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.False(t, out[0].Approved)

	_, err = f.mechanicSvc.Pending(models.RoleMechanic)
	require.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestAvailableFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	f.seedMechanic(t, "m1", true) // approved + available
	_, hidden := f.seedMechanic(t, "m2", true)
	f.seedMechanic(t, "m3", false) // unapproved

	hidden.Available = false
	require.NoError(t, f.mechanics.Update(&hidden))

	out, p, err := f.mechanicSvc.Available(1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, p.Total)
	require.Len(t, out, 1)
	require.True(t, out[0].Approved)
	require.True(t, out[0].Available)
}
