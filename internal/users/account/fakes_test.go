// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/users/account"
	"github.com/taibuivan/castly/internal/users/auth"
)

const (
	creatorID = "0190a6a8-7c4e-7d2a-9b1e-3f6c2d8e4a01"
	adminID   = "0190a6a8-7c4e-7d2a-9b1e-3f6c2d8e4a02"
)

// fakeRepository is an in-memory account.Repository keyed by ID.
type fakeRepository struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
	deleted  map[string]bool
	writeErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{accounts: map[string]*auth.Account{}, deleted: map[string]bool{}}
}

func (f *fakeRepository) seed(t *testing.T, id, email string, primary sec.Role, available ...sec.Role) {
	t.Helper()
	set, err := sec.NewRoleSet(available...)
	require.NoError(t, err)
	f.accounts[id] = &auth.Account{ID: id, Email: email, PrimaryRole: primary, AvailableRoles: set}
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	found, ok := f.accounts[id]
	if !ok || f.deleted[id] {
		return nil, apperr.NotFound("Account")
	}
	copied := *found
	return &copied, nil
}

func (f *fakeRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, found := range f.accounts {
		if found.Email == email && !f.deleted[id] {
			copied := *found
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (f *fakeRepository) UpdateProfile(_ context.Context, updated *auth.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.accounts[updated.ID].DisplayName = updated.DisplayName
	return nil
}

func (f *fakeRepository) UpdateAvailableRoles(_ context.Context, id string, roles sec.RoleSet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.accounts[id].AvailableRoles = roles
	return nil
}

func (f *fakeRepository) SoftDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted[id] = true
	return nil
}

// fakeCache records invalidations.
type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
	err         error
}

func (f *fakeCache) Invalidate(_ context.Context, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, accountID)
	return f.err
}

// fakeRevoker records session revocations by email.
type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func (f *fakeRevoker) Revoke(_ context.Context, email string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[email] = at
	return f.err
}

var errDown = errors.New("connection refused")

func newService(repository *fakeRepository, cache *fakeCache) *account.Service {
	return newRevokingService(repository, cache, &fakeRevoker{})
}

func newRevokingService(repository *fakeRepository, cache *fakeCache, revoker *fakeRevoker) *account.Service {
	return account.NewService(repository, cache, revoker, slog.New(slog.DiscardHandler))
}
