// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/castly/internal/platform/database/schema"
	"github.com/taibuivan/castly/internal/platform/dberr"
	"github.com/taibuivan/castly/internal/platform/sec"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] and [RoleLoader] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// accountColumns is the projection shared by every account lookup.
var accountColumns = strings.Join(schema.UserAccount.Projection(), ", ")

/*
Create persists a new account into the users.account table.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: apperr.Conflict on a duplicate email, or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.UserAccount.Table, accountColumns,
	)

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		string(account.PrimaryRole),
		account.AvailableRoles.Strings(),
		account.CreatedAt,
		account.UpdatedAt,
	)

	return dberr.Wrap(err, "Account", "postgres_account_repo_create_failed")
}

/*
FindByEmail retrieves an account by its normalized email.

Description: Soft-deleted accounts are invisible.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		accountColumns, schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.DeletedAt,
	)

	account, err := ScanAccount(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_by_email_failed")
	}

	return account, nil
}

/*
EmailExists reports whether a live account already uses the email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: True when taken
  - error: Database errors
*/
func (repository *PostgresAccountRepository) EmailExists(context context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL)`,
		schema.UserAccount.Table, schema.UserAccount.Email, schema.UserAccount.DeletedAt,
	)

	var exists bool
	if err := repository.pool.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_account_repo_email_exists_failed: %w", err)
	}

	return exists, nil
}

/*
LoadAvailableRoles reads the stored role set of a live account.

Parameters:
  - context: context.Context
  - accountID: string (UUIDv7)

Returns:
  - sec.RoleSet: The stored set
  - error: apperr.NotFound, or an error if the stored set is corrupt
*/
func (repository *PostgresAccountRepository) LoadAvailableRoles(context context.Context, accountID string) (sec.RoleSet, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.AvailableRoles, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	var raw []string
	if err := repository.pool.QueryRow(context, query, accountID).Scan(&raw); err != nil {
		return sec.RoleSet{}, dberr.Wrap(err, "Account", "postgres_account_repo_load_roles_failed")
	}

	roles, err := sec.ParseRoleSet(raw)
	if err != nil {
		return sec.RoleSet{}, fmt.Errorf("postgres_account_repo_corrupt_roles: %w", err)
	}

	return roles, nil
}

// # Row Mapping

/*
ScanAccount maps one users.account row (in projection order) onto an Account.

Parameters:
  - row: pgx.Row

Returns:
  - *Account: Hydrated entity
  - error: pgx.ErrNoRows, scan errors, or a corrupt role column
*/
func ScanAccount(row pgx.Row) (*Account, error) {
	var (
		account     Account
		primaryRole string
		roles       []string
	)

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&primaryRole,
		&roles,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if account.PrimaryRole, err = sec.ParseRole(primaryRole); err != nil {
		return nil, fmt.Errorf("account %s: %w", account.ID, err)
	}
	if account.AvailableRoles, err = sec.ParseRoleSet(roles); err != nil {
		return nil, fmt.Errorf("account %s: %w", account.ID, err)
	}

	return &account, nil
}

// AccountColumns exposes the projection ScanAccount expects.
func AccountColumns() string { return accountColumns }
