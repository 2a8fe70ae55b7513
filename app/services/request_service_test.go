package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roadassist/roadassist/app/models"
	"github.com/roadassist/roadassist/pkg/apperr"
)

func TestCreateRequiresClientRole(t *testing.T) {
	f := newFixture(t)
	mech, _ := f.seedMechanic(t, "m1", true)

	_, err := f.requestSvc.Create(models.RoleMechanic, mech.ID, CreateInput{
		ServiceType: "towing", Description: "x",
	})
	require.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestCreateProducesPendingRequest(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)

	req, err := f.requestSvc.Create(models.RoleClient, client.ID, CreateInput{
		ServiceType: "towing",
		Description: "flat tire",
		Location:    models.LatLng{Lat: 12.9, Lng: 77.6},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, req.Status)
	require.Equal(t, client.ID, req.ClientID)
	require.Nil(t, req.MechanicID)
	require.Nil(t, req.AcceptedAt)
}

func TestAcceptByUnapprovedMechanicForbidden(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	mech, _ := f.seedMechanic(t, "m1", false)
	req := f.seedRequest(t, client.ID)

	_, err := f.requestSvc.Accept(models.RoleMechanic, mech.ID, req.ID)
	require.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestAcceptByApprovedMechanic(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	mech, _ := f.seedMechanic(t, "m1", true)
	req := f.seedRequest(t, client.ID)

	got, err := f.requestSvc.Accept(models.RoleMechanic, mech.ID, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, got.Status)
	require.NotNil(t, got.MechanicID)
	require.Equal(t, mech.ID, *got.MechanicID)
	require.NotNil(t, got.AcceptedAt)
}

func TestAcceptNonPendingIsConflict(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	first, _ := f.seedMechanic(t, "m1", true)
	second, _ := f.seedMechanic(t, "m2", true)
	req := f.seedRequest(t, client.ID)

	_, err := f.requestSvc.Accept(models.RoleMechanic, first.ID, req.ID)
	require.NoError(t, err)

	// The second accept loses the conditional update.
	_, err = f.requestSvc.Accept(models.RoleMechanic, second.ID, req.ID)
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition))

	got, err := f.requests.FindByID(req.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, *got.MechanicID)
}

func TestAcceptByClientForbidden(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	req := f.seedRequest(t, client.ID)

	_, err := f.requestSvc.Accept(models.RoleClient, client.ID, req.ID)
	require.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestCompleteLifecycle(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	mech, profile := f.seedMechanic(t, "m1", true)
	req := f.seedRequest(t, client.ID)

	_, err := f.requestSvc.Accept(models.RoleMechanic, mech.ID, req.ID)
	require.NoError(t, err)

	inProgress, err := f.requestSvc.Start(models.RoleMechanic, mech.ID, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, inProgress.Status)

	done, err := f.requestSvc.Complete(models.RoleMechanic, mech.ID, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	// Completion bumps the mechanic's job counter.
	updated, err := f.mechanics.FindByID(profile.ID)
	require.NoError(t, err)
	require.Equal(t, 1, updated.JobsCompleted)

	// A completed request admits no further transitions.
	_, err = f.requestSvc.Cancel(models.RoleClient, client.ID, req.ID)
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestCompleteByUnassignedMechanicForbidden(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	assigned, _ := f.seedMechanic(t, "m1", true)
	other, _ := f.seedMechanic(t, "m2", true)
	req := f.seedRequest(t, client.ID)

	_, err := f.requestSvc.Accept(models.RoleMechanic, assigned.ID, req.ID)
	require.NoError(t, err)

	_, err = f.requestSvc.Complete(models.RoleMechanic, other.ID, req.ID)
	require.True(t, errors.Is(err, apperr.ErrForbidden))
}

func TestCancelByOwnerFromPending(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	stranger := f.seedUser(t, "c2", models.RoleClient)
	req := f.seedRequest(t, client.ID)

	_, err := f.requestSvc.Cancel(models.RoleClient, stranger.ID, req.ID)
	require.True(t, errors.Is(err, apperr.ErrForbidden))

	got, err := f.requestSvc.Cancel(models.RoleClient, client.ID, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, got.Status)
}

func TestRoleScopedListing(t *testing.T) {
	f := newFixture(t)
	c1 := f.seedUser(t, "c1", models.RoleClient)
	c2 := f.seedUser(t, "c2", models.RoleClient)
	admin := f.seedUser(t, "a1", models.RoleAdmin)
	mech, _ := f.seedMechanic(t, "m1", true)

	r1 := f.seedRequest(t, c1.ID)
	f.seedRequest(t, c1.ID)
	f.seedRequest(t, c2.ID)

	_, err := f.requestSvc.Accept(models.RoleMechanic, mech.ID, r1.ID)
	require.NoError(t, err)

	// Client sees exactly their own rows.
	mine, p, err := f.requestSvc.List(models.RoleClient, c1.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 2, p.Total)
	for _, r := range mine {
		require.Equal(t, c1.ID, r.ClientID)
	}

	// Mechanic sees the assigned row plus unassigned pending ones.
	visible, p, err := f.requestSvc.List(models.RoleMechanic, mech.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, p.Total)
	for _, r := range visible {
		assigned := r.MechanicID != nil && *r.MechanicID == mech.ID
		claimable := r.MechanicID == nil && r.Status == models.StatusPending
		require.True(t, assigned || claimable)
	}

	// Admin sees everything.
	_, p, err = f.requestSvc.List(models.RoleAdmin, admin.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 3, p.Total)
}

func TestListingPaginationMath(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	for i := 0; i < 7; i++ {
		f.seedRequest(t, client.ID)
	}

	var seen int
	for page := 1; page <= 3; page++ {
		rows, p, err := f.requestSvc.List(models.RoleClient, client.ID, page, 3)
		require.NoError(t, err)
		require.EqualValues(t, 7, p.Total)
		require.Equal(t, 3, p.TotalPages)
		seen += len(rows)
	}
	require.Equal(t, 7, seen)
}

func TestUpdateRejectsEditsAfterPending(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	mech, _ := f.seedMechanic(t, "m1", true)
	req := f.seedRequest(t, client.ID)

	desc := "updated description"
	got, err := f.requestSvc.Update(models.RoleClient, client.ID, req.ID, UpdateInput{Description: &desc})
	require.NoError(t, err)
	require.Equal(t, desc, got.Description)
	require.Equal(t, client.ID, got.ClientID)

	_, err = f.requestSvc.Accept(models.RoleMechanic, mech.ID, req.ID)
	require.NoError(t, err)

	_, err = f.requestSvc.Update(models.RoleClient, client.ID, req.ID, UpdateInput{Description: &desc})
	require.True(t, errors.Is(err, apperr.ErrInvalidTransition))
}

func TestUpdateStatusRoutesThroughLifecycle(t *testing.T) {
	f := newFixture(t)
	client := f.seedUser(t, "c1", models.RoleClient)
	mech, _ := f.seedMechanic(t, "m1", true)
	req := f.seedRequest(t, client.ID)

	accepted := string(models.StatusAccepted)
	got, err := f.requestSvc.Update(models.RoleMechanic, mech.ID, req.ID, UpdateInput{Status: &accepted})
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, got.Status)

	bogus := "launched"
	_, err = f.requestSvc.Update(models.RoleMechanic, mech.ID, req.ID, UpdateInput{Status: &bogus})
	require.True(t, errors.Is(err, apperr.ErrValidation))
}
