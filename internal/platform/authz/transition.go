// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authz

import (
	"fmt"

	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
)

// # Rejections

// SwitchRejectedError reports a switch to a role outside the available set.
//
// Available is for display only; it must never feed back into authorization.
type SwitchRejectedError struct {
	Requested string
	Available []string
}

func (e *SwitchRejectedError) Error() string {
	return fmt.Sprintf("authz: role %q is not available", e.Requested)
}

// ResetRejectedError reports a reset on a session with no admin anchor.
type ResetRejectedError struct {
	Current  string
	Original string
}

func (e *ResetRejectedError) Error() string {
	return fmt.Sprintf("authz: session active as %q has no impersonation anchor", e.Current)
}

// # State Machine

/*
SwitchRole moves s to requested.

  - requested must be in the available set, else *SwitchRejectedError.
  - Normal with the full administrative set, switching to a non-admin role:
    Impersonating(admin, requested), whatever the current active role.
  - Impersonating, switching to a non-admin role: stays Impersonating.
  - Switching to admin from Impersonating is the same as [ResetToAdmin].
  - Anything else: Normal(requested).

The input is never modified; on error the returned session is the zero value.
*/
func SwitchRole(s session.Session, requested string) (session.Session, error) {
	available := s.AvailableRoles()

	role, err := sec.ParseRole(requested)
	if err != nil || !available.Contains(role) {
		return session.Session{}, &SwitchRejectedError{
			Requested: requested,
			Available: available.Strings(),
		}
	}

	if s.IsImpersonating() {
		if role == sec.RoleAdmin {
			return ResetToAdmin(s)
		}
		return session.Impersonating(s.Email(), role, available)
	}

	if available.IsFull() && role != sec.RoleAdmin {
		return session.Impersonating(s.Email(), role, available)
	}

	return session.Normal(s.Email(), role, available)
}

/*
ResetToAdmin returns an impersonating session to admin and clears the anchor.

It succeeds only when the anchor is admin. A session that never began
impersonating (including every non-admin account) gets *ResetRejectedError,
so calling the reset endpoint directly can never promote anyone.
*/
func ResetToAdmin(s session.Session) (session.Session, error) {
	anchor, ok := s.Anchor()
	if !ok || anchor != sec.RoleAdmin {
		return session.Session{}, &ResetRejectedError{
			Current:  string(s.ActiveRole()),
			Original: string(anchor),
		}
	}

	return session.Normal(s.Email(), sec.RoleAdmin, s.AvailableRoles())
}
