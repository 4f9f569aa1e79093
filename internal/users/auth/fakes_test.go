// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/users/auth"
)

const testPassword = "correct-horse-battery"

// fakeAccounts is an in-memory AccountRepository.
type fakeAccounts struct {
	mu        sync.Mutex
	byEmail   map[string]*auth.Account
	lookupErr error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byEmail: map[string]*auth.Account{}}
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	account, ok := f.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("Account")
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccounts) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return false, f.lookupErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeAccounts) Create(_ context.Context, account *auth.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[account.Email]; ok {
		return apperr.Conflict("Account already exists")
	}
	copied := *account
	f.byEmail[account.Email] = &copied
	return nil
}

// fakeRoles is a RoleLoader that counts calls.
type fakeRoles struct {
	mu    sync.Mutex
	roles map[string]sec.RoleSet
	calls int
	err   error
}

func (f *fakeRoles) LoadAvailableRoles(_ context.Context, accountID string) (sec.RoleSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return sec.RoleSet{}, f.err
	}
	roles, ok := f.roles[accountID]
	if !ok {
		return sec.RoleSet{}, apperr.NotFound("Account")
	}
	return roles, nil
}

// seedAccount stores an account with testPassword and returns it.
func seedAccount(t *testing.T, accounts *fakeAccounts, roles *fakeRoles, id, email string, primary sec.Role, available ...sec.Role) *auth.Account {
	t.Helper()
	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	set, err := sec.NewRoleSet(available...)
	require.NoError(t, err)

	account := &auth.Account{
		ID:             id,
		Email:          email,
		PasswordHash:   hash,
		PrimaryRole:    primary,
		AvailableRoles: set,
	}
	accounts.byEmail[email] = account
	if roles.roles == nil {
		roles.roles = map[string]sec.RoleSet{}
	}
	roles.roles[id] = set
	return account
}
