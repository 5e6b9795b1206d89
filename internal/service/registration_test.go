package service

import (
	"context"
	"testing"

	"outlethub-api/internal/model"
	"outlethub-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationService(t *testing.T, allowRegister bool) (*RegistrationService, repository.Store) {
	t.Helper()

	store := newTestStore(t)
	outletSvc := NewOutletService(store.Outlets(), newTestTokens())
	return NewRegistrationService(store.Users(), outletSvc, newTestTokens(), allowRegister), store
}

func registerInput(username string) RegisterUserInput {
	return RegisterUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "s3cret",
		City:     "Pune",
	}
}

func TestRegisterCustomer(t *testing.T) {
	svc, store := newRegistrationService(t, true)

	token, user, err := svc.Register(context.Background(), registerInput("cust"), model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "cust", user.Username)
	assert.Equal(t, model.RoleCustomer, user.Role.Name)

	claims, err := newTestTokens().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, KindUser, claims.Type)
	assert.Equal(t, user.ID, claims.ID)

	// Customers never get an outlet.
	outlets, err := store.Outlets().FindBySeller(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, outlets)

	stored, err := store.Users().FindByUsername(context.Background(), "cust")
	require.NoError(t, err)
	assert.True(t, CheckPassword("s3cret", stored.Password))
	assert.Equal(t, "local", stored.Provider)
	assert.True(t, stored.Confirmed)
}

func TestRegisterSellerProvisionsOutlet(t *testing.T) {
	svc, store := newRegistrationService(t, true)

	_, user, err := svc.Register(context.Background(), registerInput("sally"), model.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, user.Role.Name)

	outlets, err := store.Outlets().FindBySeller(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, outlets, 1)
	assert.Equal(t, "outlet_sally", outlets[0].Username)
	assert.Equal(t, "sally's Outlet", outlets[0].Name)
	// The outlet inherits the seller's own password.
	assert.True(t, CheckPassword("s3cret", outlets[0].Password))
}

func TestRegisterRejections(t *testing.T) {
	svc, _ := newRegistrationService(t, true)
	_, _, err := svc.Register(context.Background(), registerInput("taken"), model.RoleCustomer)
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		input := registerInput("other")
		input.Email = "taken@example.com"
		_, _, err := svc.Register(context.Background(), input, model.RoleCustomer)
		require.Error(t, err)

		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Contains(t, err.Error(), "'taken@example.com'")
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("duplicate username", func(t *testing.T) {
		input := registerInput("taken")
		input.Email = "fresh@example.com"
		_, _, err := svc.Register(context.Background(), input, model.RoleCustomer)
		require.Error(t, err)

		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Contains(t, err.Error(), "'taken'")
		assert.Contains(t, err.Error(), "already taken")
	})

	t.Run("missing password", func(t *testing.T) {
		input := registerInput("nopass")
		input.Password = ""
		_, _, err := svc.Register(context.Background(), input, model.RoleCustomer)
		assert.ErrorIs(t, err, ErrPasswordRequired)
	})

	t.Run("registration disabled", func(t *testing.T) {
		disabled, _ := newRegistrationService(t, false)
		_, _, err := disabled.Register(context.Background(), registerInput("late"), model.RoleCustomer)
		assert.ErrorIs(t, err, ErrRegistrationDisabled)
	})
}

func TestProvisionOutletForSeller(t *testing.T) {
	svc, store := newRegistrationService(t, true)

	_, customer, err := svc.Register(context.Background(), registerInput("plaincust"), model.RoleCustomer)
	require.NoError(t, err)
	_, seller, err := svc.Register(context.Background(), registerInput("stocked"), model.RoleSeller)
	require.NoError(t, err)

	t.Run("rejects non-sellers", func(t *testing.T) {
		_, err := svc.ProvisionOutletForSeller(context.Background(), customer.ID)
		assert.ErrorIs(t, err, ErrNotSeller)
	})

	t.Run("rejects sellers that already own an outlet", func(t *testing.T) {
		_, err := svc.ProvisionOutletForSeller(context.Background(), seller.ID)
		assert.ErrorIs(t, err, ErrAlreadyHasOutlet)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.ProvisionOutletForSeller(context.Background(), 9999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("provisions with the temporary password", func(t *testing.T) {
		// Simulate a legacy seller created before auto-provisioning.
		legacy := &model.User{Username: "legacyseller", Email: "legacy@example.com", RoleID: outletRoleID(t, store)}
		created, err := store.Users().Create(context.Background(), legacy)
		require.NoError(t, err)

		profile, err := svc.ProvisionOutletForSeller(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "outlet_legacyseller", profile.Username)

		stored, err := store.Outlets().FindByUsername(context.Background(), "outlet_legacyseller")
		require.NoError(t, err)
		assert.True(t, CheckPassword(tempOutletPassword, stored.Password))
	})
}

func TestUpdateProfile(t *testing.T) {
	svc, store := newRegistrationService(t, true)

	t.Run("seller update propagates to the default outlet", func(t *testing.T) {
		_, seller, err := svc.Register(context.Background(), registerInput("mover"), model.RoleSeller)
		require.NoError(t, err)

		city := "Surat"
		pincode := "395003"
		updated, err := svc.UpdateProfile(context.Background(), seller.ID, model.UserPatch{
			City: &city, Pincode: &pincode,
		})
		require.NoError(t, err)
		assert.Equal(t, "Surat", updated.City)
		assert.Equal(t, "395003", updated.Pincode)
		require.NotNil(t, updated.Role)
		assert.Equal(t, model.RoleSeller, updated.Role.Name)

		stored, err := store.Users().FindByID(context.Background(), seller.ID)
		require.NoError(t, err)
		assert.Equal(t, "Surat", stored.City)

		outlet, err := store.Outlets().FindByUsername(context.Background(), "outlet_mover")
		require.NoError(t, err)
		assert.Equal(t, "Surat", outlet.City)
		assert.Equal(t, "395003", outlet.Pincode)
	})

	t.Run("customer without outlets updates cleanly", func(t *testing.T) {
		_, customer, err := svc.Register(context.Background(), registerInput("homebody"), model.RoleCustomer)
		require.NoError(t, err)

		city := "Indore"
		updated, err := svc.UpdateProfile(context.Background(), customer.ID, model.UserPatch{City: &city})
		require.NoError(t, err)
		assert.Equal(t, "Indore", updated.City)
	})

	t.Run("unknown user", func(t *testing.T) {
		city := "x"
		_, err := svc.UpdateProfile(context.Background(), 9999, model.UserPatch{City: &city})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func outletRoleID(t *testing.T, store repository.Store) int64 {
	t.Helper()
	role, err := store.Users().FindRoleByName(context.Background(), model.RoleSeller)
	require.NoError(t, err)
	return role.ID
}

func TestProvisionAllSellers(t *testing.T) {
	svc, store := newRegistrationService(t, true)

	// One seller already provisioned at registration, one legacy seller without.
	_, provisioned, err := svc.Register(context.Background(), registerInput("haveone"), model.RoleSeller)
	require.NoError(t, err)
	legacy, err := store.Users().Create(context.Background(), &model.User{
		Username: "needone",
		Email:    "needone@example.com",
		RoleID:   outletRoleID(t, store),
	})
	require.NoError(t, err)

	results, err := svc.ProvisionAllSellers(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[int64]SellerProvisionResult{}
	for _, r := range results {
		byID[r.UserID] = r
	}

	skipped := byID[provisioned.ID]
	assert.True(t, skipped.Skipped)
	assert.Equal(t, "Already has outlets", skipped.Message)
	assert.Nil(t, skipped.Outlet)

	created := byID[legacy.ID]
	assert.True(t, created.Success)
	assert.Equal(t, "Outlet created successfully", created.Message)
	require.NotNil(t, created.Outlet)
	assert.Equal(t, "outlet_needone", created.Outlet.Username)
}
