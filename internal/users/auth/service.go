// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
	"github.com/taibuivan/castly/pkg/uuid"
)

// # Contracts & Types

// Service implements the sign-up and sign-in use cases.
//
// It never touches cookies: it returns the [session.Session] to persist and
// leaves the write to the handler's [session.Store].
type Service struct {
	accounts    AccountRepository
	credentials CredentialStore
	adminEmails map[string]struct{}
}

// NewService constructs a new [Service].
//
// adminEmails are provisioned as administrators (full role set) when they sign up.
func NewService(accounts AccountRepository, credentials CredentialStore, adminEmails []string) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[NormalizeEmail(email)] = struct{}{}
	}

	return &Service{
		accounts:    accounts,
		credentials: credentials,
		adminEmails: admins,
	}
}

// SignedIn is the outcome of a successful sign-up or sign-in.
type SignedIn struct {
	Account *Account
	Session session.Session
}

// # Registration Flow

// SignUpInput holds the data required to enroll a new member.
type SignUpInput struct {
	Email       string
	Password    string
	Role        string
	DisplayName string
}

/*
SignUp creates an account and the session that goes with it.

Description: The requested role becomes the primary role and the only
available role. Nobody can ask for admin: accounts listed in ADMIN_EMAILS are
provisioned as administrators with the full role set instead, whatever role
they requested.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *SignedIn: Created account and its Normal session
  - err: Validation, Conflict or storage errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*SignedIn, error) {
	email := NormalizeEmail(input.Email)

	// Resolve the role set before touching storage.
	primary, available, err := service.provisionRoles(email, input.Role)
	if err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	exists, err := service.accounts.EmailExists(context, email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_email_check_failed: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	account := &Account{
		ID:             uuid.New(),
		Email:          email,
		PasswordHash:   hashedPassword,
		DisplayName:    input.DisplayName,
		PrimaryRole:    primary,
		AvailableRoles: available,
	}

	// A concurrent sign-up with the same email surfaces here as a Conflict.
	if err := service.accounts.Create(context, account); err != nil {
		return nil, err
	}

	current, err := session.Normal(account.Email, primary, available)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_failed: %w", err)
	}

	return &SignedIn{Account: account, Session: current}, nil
}

// provisionRoles decides the primary role and role set of a new account.
func (service *Service) provisionRoles(email, requested string) (sec.Role, sec.RoleSet, error) {
	if _, ok := service.adminEmails[email]; ok {
		return sec.RoleAdmin, sec.FullRoleSet(), nil
	}

	role, err := sec.ParseRole(requested)
	if err != nil || role == sec.RoleAdmin {
		return "", sec.RoleSet{}, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldRole,
			Message: "Must be one of: manager, creator, analyst, client",
		})
	}

	available, err := sec.SingleRole(role)
	if err != nil {
		return "", sec.RoleSet{}, fmt.Errorf("auth_service_role_set_failed: %w", err)
	}

	return role, available, nil
}

// # Authentication Flow

/*
SignIn verifies credentials and builds a fresh Normal session.

Description: The available roles come from [CredentialStore.LoadAvailableRoles]
rather than the account row, so administrative grants reach the session on
the next sign-in. A stored set that no longer holds the primary role falls
back to the primary role alone.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *SignedIn: The account and its new session
  - err: Unauthorized or storage failures
*/
func (service *Service) SignIn(context context.Context, email, password string) (*SignedIn, error) {
	account, err := service.credentials.Verify(context, NormalizeEmail(email), password)
	if err != nil {
		return nil, err
	}

	available, err := service.credentials.LoadAvailableRoles(context, account.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_load_roles_failed: %w", err)
	}

	if !available.Contains(account.PrimaryRole) {
		if available, err = sec.SingleRole(account.PrimaryRole); err != nil {
			return nil, fmt.Errorf("auth_service_role_set_failed: %w", err)
		}
	}
	account.AvailableRoles = available

	current, err := session.Normal(account.Email, account.PrimaryRole, available)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_failed: %w", err)
	}

	return &SignedIn{Account: account, Session: current}, nil
}

/*
CheckEmail reports whether an email is already registered.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: True if taken
  - err: Storage failures
*/
func (service *Service) CheckEmail(context context.Context, email string) (bool, error) {
	exists, err := service.accounts.EmailExists(context, NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("auth_service_check_email_failed: %w", err)
	}
	return exists, nil
}
