// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package role exposes the role switch and impersonation reset endpoints.

# Architecture

  - Domain: the transitions themselves live in [authz.SwitchRole] and
    [authz.ResetToAdmin]; this package maps their rejections onto API errors
    and persists the result through the request's [session.Store].
  - View: Identity is the client-facing snapshot of a session.
*/
package role

import (
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
)

// # Field Identifiers

const (
	FieldNewRole = "newRole"
)

// # Views

// Identity is the client-facing view of a session.
type Identity struct {
	Email          string      `json:"email"`
	ActiveRole     sec.Role    `json:"activeRole"`
	AvailableRoles sec.RoleSet `json:"availableRoles"`
	Impersonating  bool        `json:"impersonating"`
	OriginalRole   sec.Role    `json:"originalRole,omitempty"`
}

// NewIdentity builds the view of s.
func NewIdentity(s session.Session) Identity {
	anchor, _ := s.Anchor()
	return Identity{
		Email:          s.Email(),
		ActiveRole:     s.ActiveRole(),
		AvailableRoles: s.AvailableRoles(),
		Impersonating:  s.IsImpersonating(),
		OriginalRole:   anchor,
	}
}

// SwitchResult is the body of a successful switch.
type SwitchResult struct {
	Success        bool        `json:"success"`
	NewRole        sec.Role    `json:"newRole"`
	AvailableRoles sec.RoleSet `json:"availableRoles"`
	Impersonating  bool        `json:"impersonating"`
}

// ResetResult is the body of a successful reset.
type ResetResult struct {
	Success      bool     `json:"success"`
	NewRole      sec.Role `json:"newRole"`
	PreviousRole sec.Role `json:"previousRole"`
	OriginalRole sec.Role `json:"originalRole"`
}
