// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the signed-in member's own profile and the
administrative management of role sets.

# Architecture

  - Entities: reuses [auth.Account]; this package adds no new identity data.
  - Domain: profile reads and display-name edits, soft deletion, and the
    admin-only role grant that is the only writer of availableRoles.
  - Cache: every role-set change drops the cached set through
    [auth.RoleCacheInvalidator] so the next sign-in reads Postgres.
  - Sessions: deletion revokes every outstanding session through
    [auth.SessionRevoker].
*/
package account

import (
	"context"

	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/users/auth"
)

// # Field Identifiers

const (
	FieldDisplayName    = "displayName"
	FieldAvailableRoles = "availableRoles"
	FieldID             = "id"
)

// # Repository Contracts

// Repository defines the persistence contract for account management.
type Repository interface {
	/*
		FindByID retrieves a live account by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.Account: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.Account, error)

	/*
		FindByEmail retrieves a live account by its normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *auth.Account: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*auth.Account, error)

	/*
		UpdateProfile persists the mutable profile fields and refreshes UpdatedAt.

		Parameters:
		  - context: context.Context
		  - account: *auth.Account (Hydrated entity with changes)

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateProfile(context context.Context, account *auth.Account) error

	/*
		UpdateAvailableRoles replaces the stored role set.

		Parameters:
		  - context: context.Context
		  - id: string
		  - roles: sec.RoleSet (non-empty, validated)

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateAvailableRoles(context context.Context, id string, roles sec.RoleSet) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	SoftDelete(context context.Context, id string) error
}
