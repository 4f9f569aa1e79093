// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/database/schema"
	"github.com/taibuivan/castly/internal/platform/dberr"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/users/auth"
)

// # Repository Implementation

// PostgresRepository implements [Repository] on the users.account table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for account management.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByID retrieves a live account from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.Account: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		auth.AccountColumns(), schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	account, err := auth.ScanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_by_id_failed")
	}

	return account, nil
}

// FindByEmail retrieves a live account by its normalized email.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*auth.Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		auth.AccountColumns(), schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.DeletedAt,
	)

	account, err := auth.ScanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_by_email_failed")
	}

	return account, nil
}

/*
UpdateProfile syncs the display name and refreshes the updatedat timestamp.

Parameters:
  - context: context.Context
  - account: *auth.Account

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresRepository) UpdateProfile(context context.Context, account *auth.Account) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, account.ID, account.DisplayName).Scan(&account.UpdatedAt)
	return dberr.Wrap(err, "Account", "postgres_account_repo_update_failed")
}

/*
UpdateAvailableRoles replaces the availableroles array.

Parameters:
  - context: context.Context
  - id: string
  - roles: sec.RoleSet

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresRepository) UpdateAvailableRoles(context context.Context, id string, roles sec.RoleSet) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.AvailableRoles, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id, roles.Strings())
	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_repo_update_roles_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
SoftDelete sets deletedat, hiding the account from every lookup.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound if already deleted, or execution failures
*/
func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = NOW(), %s = NOW()
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.DeletedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Account", "postgres_account_repo_soft_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}
