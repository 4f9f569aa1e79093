// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/sec"
)

// errInvalidCredentials is shared by every failed verification so responses
// never reveal whether the email exists.
var errInvalidCredentials = apperr.Unauthorized("Invalid email or password")

// Credentials implements [CredentialStore] on top of an account repository
// and a (usually cached) role loader.
type Credentials struct {
	accounts AccountRepository
	roles    RoleLoader
}

// NewCredentials builds the credential store.
func NewCredentials(accounts AccountRepository, roles RoleLoader) *Credentials {
	return &Credentials{accounts: accounts, roles: roles}
}

/*
Verify checks a normalized email and a password.

Description: Unknown accounts still pay for one bcrypt comparison so the
response time does not reveal whether the email is registered.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Account: The verified account
  - error: apperr.Unauthorized or storage failures
*/
func (credentials *Credentials) Verify(context context.Context, email, password string) (*Account, error) {
	account, err := credentials.accounts.FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			sec.BurnPasswordCheck(password)
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("auth_credentials_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return account, nil
}

// LoadAvailableRoles implements [CredentialStore].
func (credentials *Credentials) LoadAvailableRoles(context context.Context, accountID string) (sec.RoleSet, error) {
	return credentials.roles.LoadAvailableRoles(context, accountID)
}
