// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
	"github.com/taibuivan/castly/internal/users/auth"
)

func newService(accounts *fakeAccounts, roles *fakeRoles, admins ...string) *auth.Service {
	return auth.NewService(accounts, auth.NewCredentials(accounts, roles), admins)
}

/*
TestNormalizeEmail folds case beyond ASCII and trims.
*/
func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "creator@castly.app", auth.NormalizeEmail("  Creator@Castly.APP "))
	assert.Equal(t, auth.NormalizeEmail("STRASSE@castly.app"), auth.NormalizeEmail("straße@castly.app"))
}

/*
TestService_SignUp covers role provisioning at account creation.
*/
func TestService_SignUp(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		role          string
		wantPrimary   sec.Role
		wantAvailable []string
	}{
		{"creator", "new@castly.app", "creator", sec.RoleCreator, []string{"creator"}},
		{"client", "client@castly.app", "client", sec.RoleClient, []string{"client"}},
		{"listed admin ignores requested role", "Ops@Castly.app", "client", sec.RoleAdmin, []string{"admin", "manager", "creator", "analyst", "client"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := newFakeAccounts()
			service := newService(accounts, &fakeRoles{}, "ops@castly.app")

			result, err := service.SignUp(context.Background(), auth.SignUpInput{
				Email:    tt.email,
				Password: testPassword,
				Role:     tt.role,
			})
			require.NoError(t, err)

			assert.Equal(t, auth.NormalizeEmail(tt.email), result.Account.Email)
			assert.NotEmpty(t, result.Account.ID)
			assert.NotEqual(t, testPassword, result.Account.PasswordHash)
			assert.Equal(t, tt.wantPrimary, result.Session.ActiveRole())
			assert.Equal(t, tt.wantAvailable, result.Session.AvailableRoles().Strings())
			assert.Equal(t, session.StateNormal, result.Session.State())
		})
	}
}

/*
TestService_SignUp_Rejected refuses self-selected admin, unknown roles and
duplicate emails.
*/
func TestService_SignUp_Rejected(t *testing.T) {
	accounts := newFakeAccounts()
	roles := &fakeRoles{}
	seedAccount(t, accounts, roles, "acc-1", "taken@castly.app", sec.RoleCreator, sec.RoleCreator)
	service := newService(accounts, roles)

	tests := []struct {
		name     string
		email    string
		role     string
		wantCode string
	}{
		{"self-selected admin", "sneaky@castly.app", "admin", "VALIDATION_ERROR"},
		{"unknown role", "wizard@castly.app", "wizard", "VALIDATION_ERROR"},
		{"missing role", "blank@castly.app", "", "VALIDATION_ERROR"},
		{"duplicate email", "TAKEN@castly.app", "client", "CONFLICT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SignUp(context.Background(), auth.SignUpInput{
				Email:    tt.email,
				Password: testPassword,
				Role:     tt.role,
			})

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.wantCode, appError.Code)
		})
	}

	_, err := accounts.FindByEmail(context.Background(), "sneaky@castly.app")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_SignIn verifies credentials and loads roles through the loader.
*/
func TestService_SignIn(t *testing.T) {
	accounts := newFakeAccounts()
	roles := &fakeRoles{}
	seedAccount(t, accounts, roles, "acc-1", "multi@castly.app", sec.RoleManager, sec.RoleManager, sec.RoleAnalyst)
	service := newService(accounts, roles)

	result, err := service.SignIn(context.Background(), "Multi@Castly.app", testPassword)
	require.NoError(t, err)

	assert.Equal(t, sec.RoleManager, result.Session.ActiveRole())
	assert.Equal(t, []string{"manager", "analyst"}, result.Session.AvailableRoles().Strings())
	assert.False(t, result.Session.IsImpersonating())
	assert.Equal(t, 1, roles.calls)
}

/*
TestService_SignIn_GrantReflected picks up a role set changed after sign-up.
*/
func TestService_SignIn_GrantReflected(t *testing.T) {
	accounts := newFakeAccounts()
	roles := &fakeRoles{}
	seedAccount(t, accounts, roles, "acc-1", "grow@castly.app", sec.RoleCreator, sec.RoleCreator)
	service := newService(accounts, roles)

	granted, err := sec.NewRoleSet(sec.RoleCreator, sec.RoleClient)
	require.NoError(t, err)
	roles.roles["acc-1"] = granted

	result, err := service.SignIn(context.Background(), "grow@castly.app", testPassword)
	require.NoError(t, err)
	assert.Equal(t, []string{"creator", "client"}, result.Session.AvailableRoles().Strings())

	// A stored set that lost the primary role collapses to the primary role.
	revoked, err := sec.NewRoleSet(sec.RoleClient)
	require.NoError(t, err)
	roles.roles["acc-1"] = revoked

	result, err = service.SignIn(context.Background(), "grow@castly.app", testPassword)
	require.NoError(t, err)
	assert.Equal(t, []string{"creator"}, result.Session.AvailableRoles().Strings())
}

/*
TestService_SignIn_Failures never distinguishes unknown emails from bad
passwords, and surfaces store outages as non-client errors.
*/
func TestService_SignIn_Failures(t *testing.T) {
	accounts := newFakeAccounts()
	roles := &fakeRoles{}
	seedAccount(t, accounts, roles, "acc-1", "creator@castly.app", sec.RoleCreator, sec.RoleCreator)
	service := newService(accounts, roles)

	_, wrongPassword := service.SignIn(context.Background(), "creator@castly.app", "wrong-password")
	_, unknownEmail := service.SignIn(context.Background(), "ghost@castly.app", testPassword)

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, "UNAUTHORIZED", apperr.As(wrongPassword).Code)

	// Store unavailable
	accounts.lookupErr = errors.New("connection refused")
	_, err := service.SignIn(context.Background(), "creator@castly.app", testPassword)
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))

	// Role loader unavailable
	accounts.lookupErr = nil
	roles.err = errors.New("connection refused")
	_, err = service.SignIn(context.Background(), "creator@castly.app", testPassword)
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
}

/*
TestService_CheckEmail is case-insensitive.
*/
func TestService_CheckEmail(t *testing.T) {
	accounts := newFakeAccounts()
	roles := &fakeRoles{}
	seedAccount(t, accounts, roles, "acc-1", "creator@castly.app", sec.RoleCreator, sec.RoleCreator)
	service := newService(accounts, roles)

	exists, err := service.CheckEmail(context.Background(), "CREATOR@castly.app")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.CheckEmail(context.Background(), "nobody@castly.app")
	require.NoError(t, err)
	assert.False(t, exists)
}
