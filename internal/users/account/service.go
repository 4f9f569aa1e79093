// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile management and role grants.
type Service struct {
	repository Repository
	roleCache  auth.RoleCacheInvalidator
	sessions   auth.SessionRevoker
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, roleCache auth.RoleCacheInvalidator, sessions auth.SessionRevoker, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		roleCache:  roleCache,
		sessions:   sessions,
		logger:     logger,
		now:        time.Now,
	}
}

// # Profile Management

/*
GetProfile retrieves the account behind a session.

Parameters:
  - context: context.Context
  - email: string (the session principal)

Returns:
  - *auth.Account: The hydrated account
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, email string) (*auth.Account, error) {
	account, err := service.repository.FindByEmail(context, auth.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return account, nil
}

// UpdateProfileInput is the mutable subset of the profile. It has no role
// fields: role sets only change through [Service.GrantRoles].
type UpdateProfileInput struct {
	DisplayName *string
}

/*
UpdateProfile applies a partial set of changes to the caller's profile.

Parameters:
  - context: context.Context
  - email: string
  - input: UpdateProfileInput

Returns:
  - *auth.Account: The updated account
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, email string, input UpdateProfileInput) (*auth.Account, error) {
	account, err := service.repository.FindByEmail(context, auth.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	if input.DisplayName == nil {
		return account, nil
	}

	account.DisplayName = strings.TrimSpace(*input.DisplayName)
	if err := service.repository.UpdateProfile(context, account); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "account_profile_updated", slog.String("account_id", account.ID))

	return account, nil
}

/*
DeleteAccount soft-deletes the caller's account.

Description: The cached role set is dropped and every session of the
account issued so far is revoked. Either failure is logged and does not undo
the deletion. Clearing the caller's own cookies is the handler's job.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, email string) error {
	account, err := service.repository.FindByEmail(context, auth.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("account_service_delete_lookup_failed: %w", err)
	}

	if err := service.repository.SoftDelete(context, account.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.invalidate(context, account.ID)

	// Sessions held by other browsers stay signed; the marker makes them stale.
	if err := service.sessions.Revoke(context, account.Email, service.now()); err != nil {
		service.logger.ErrorContext(context, "session_revoke_failed",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
	}

	service.logger.WarnContext(context, "account_deleted", slog.String("account_id", account.ID))

	return nil
}

// # Role Administration

/*
GrantRoles replaces the available role set of an account.

Description: The set must be non-empty, contain only known tags, and keep
the account's primary role. The change reaches the member's session on
their next sign-in.

Parameters:
  - context: context.Context
  - accountID: string
  - roles: []string (raw role tags)

Returns:
  - *auth.Account: The account with its new role set
  - error: Validation, NotFound or storage failures
*/
func (service *Service) GrantRoles(context context.Context, accountID string, roles []string) (*auth.Account, error) {
	set, err := sec.ParseRoleSet(roles)
	if err != nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldAvailableRoles,
			Message: "Must be a non-empty list of: admin, manager, creator, analyst, client",
		})
	}

	account, err := service.repository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_grant_lookup_failed: %w", err)
	}

	if !set.Contains(account.PrimaryRole) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldAvailableRoles,
			Message: "Must include the primary role " + string(account.PrimaryRole),
		})
	}

	if err := service.repository.UpdateAvailableRoles(context, account.ID, set); err != nil {
		return nil, fmt.Errorf("account_service_grant_failed: %w", err)
	}
	account.AvailableRoles = set

	service.invalidate(context, account.ID)
	service.logger.InfoContext(context, "account_roles_granted",
		slog.String("account_id", account.ID),
		slog.Any("available_roles", set.Strings()),
	)

	return account, nil
}

// invalidate drops the cached role set; the cache TTL bounds staleness if it fails.
func (service *Service) invalidate(context context.Context, accountID string) {
	if err := service.roleCache.Invalidate(context, accountID); err != nil {
		service.logger.WarnContext(context, "role_cache_invalidate_failed",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
	}
}
