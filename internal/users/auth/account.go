// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account identity and sign-in for Castly.

It defines the Account entity, the credential store contract the session
layer consumes, and the sign-up / sign-in / sign-out flows that create and
destroy sessions.

# Architecture

  - Entities: Account (identity, primary role, available role set).
  - Contracts: CredentialStore (verify, load available roles), AccountRepository.
  - Storage: PostgreSQL for accounts, Redis as a read-through cache of role sets.
  - Delivery: HTTP handlers that write the session through [session.Store].
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/taibuivan/castly/internal/platform/sec"
)

// # Domain Entities

// Account is a registered member of the Castly platform.
type Account struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName    string      `json:"displayName"`
	PrimaryRole    sec.Role    `json:"primaryRole"`
	AvailableRoles sec.RoleSet `json:"availableRoles"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// # Field Identifiers

// Field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail          = "email"
	FieldPassword       = "password"
	FieldRole           = "role"
	FieldDisplayName    = "displayName"
	FieldAccount        = "account"
	FieldActiveRole     = "activeRole"
	FieldAvailableRoles = "availableRoles"
	FieldExists         = "exists"
)

// # Normalization

// NormalizeEmail trims and case-folds an address so lookups are
// case-insensitive for every script, not only ASCII.
func NormalizeEmail(email string) string {
	// A cases.Caser is stateful and must not be shared between goroutines.
	return cases.Fold().String(strings.TrimSpace(email))
}
