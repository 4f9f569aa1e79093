// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/castly/internal/platform/sec"
)

// # Credential Contract

// CredentialStore is what the session layer needs from identity storage.
type CredentialStore interface {

	/*
		Verify checks an email/password pair.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)
		  - password: string

		Returns:
		  - *Account: The verified account
		  - error: apperr.Unauthorized on bad credentials, storage errors otherwise
	*/
	Verify(context context.Context, email, password string) (*Account, error)

	/*
		LoadAvailableRoles returns the roles an account may switch into.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - sec.RoleSet: Non-empty role set
		  - error: apperr.NotFound or storage errors
	*/
	LoadAvailableRoles(context context.Context, accountID string) (sec.RoleSet, error)
}

// RoleLoader is the read side of the role-set storage.
type RoleLoader interface {
	LoadAvailableRoles(context context.Context, accountID string) (sec.RoleSet, error)
}

// RoleCacheInvalidator drops a cached role set after the stored one changed.
type RoleCacheInvalidator interface {
	Invalidate(context context.Context, accountID string) error
}

// SessionRevoker ends every session of an email issued before at.
type SessionRevoker interface {
	Revoke(context context.Context, email string, at time.Time) error
}

// # Account Data Access

// AccountRepository defines the data access contract for accounts.
type AccountRepository interface {

	/*
		FindByEmail returns the live account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		EmailExists reports whether a live account uses the email.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - bool: True if taken
		  - error: Database failures
	*/
	EmailExists(context context.Context, email string) (bool, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: apperr.Conflict on a duplicate email, persistence failures otherwise
	*/
	Create(context context.Context, account *Account) error
}
