// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session models the request-scoped authorization record and its
transport in signed cookies.

# Architecture

  - Session: an immutable value whose state is either Normal(role) or
    Impersonating(admin, role). The anchor is never stored as a free-form
    field, so "anchor implies admin" holds by construction.
  - Codec: pure conversion between a Session and a set of signed,
    independently expiring fields.
  - Store: the per-request adapter (load/save/clear) that stages writes and
    flushes them once, right before the response header goes out.
*/
package session

import (
	"errors"
	"strings"

	"github.com/taibuivan/castly/internal/platform/sec"
)

// ErrInvalidSession is returned when a constructor's inputs break a session invariant.
var ErrInvalidSession = errors.New("session: invalid session")

// # Session State

// State tags which branch of the session state machine a session is in.
type State int

const (
	// StateNormal is an ordinary session with no way back to another role.
	StateNormal State = iota

	// StateImpersonating is an administrator operating as a non-admin role.
	StateImpersonating
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateImpersonating:
		return "impersonating"
	default:
		return "unknown"
	}
}

// # Session Value

// Session is the authorization record for one signed-in principal.
//
// Fields are unexported; use [Normal] or [Impersonating] to build one. The
// zero value is not a valid session.
type Session struct {
	email     string
	active    sec.Role
	available sec.RoleSet
	state     State
}

// Normal builds a session that is not impersonating anyone.
func Normal(email string, active sec.Role, available sec.RoleSet) (Session, error) {
	if err := validate(email, active, available); err != nil {
		return Session{}, err
	}
	return Session{email: email, active: active, available: available, state: StateNormal}, nil
}

// Impersonating builds a session anchored to admin while active as a
// non-admin role. The available set must be the full administrative set.
func Impersonating(email string, active sec.Role, available sec.RoleSet) (Session, error) {
	if err := validate(email, active, available); err != nil {
		return Session{}, err
	}
	if active == sec.RoleAdmin || !available.IsFull() {
		return Session{}, ErrInvalidSession
	}
	return Session{email: email, active: active, available: available, state: StateImpersonating}, nil
}

func validate(email string, active sec.Role, available sec.RoleSet) error {
	if strings.TrimSpace(email) == "" || !active.Valid() || available.IsEmpty() {
		return ErrInvalidSession
	}
	if !available.Contains(active) {
		return ErrInvalidSession
	}
	return nil
}

// Email returns the authenticated principal.
func (s Session) Email() string { return s.email }

// ActiveRole returns the role currently governing authorization.
func (s Session) ActiveRole() sec.Role { return s.active }

// AvailableRoles returns the roles this session may switch into.
func (s Session) AvailableRoles() sec.RoleSet { return s.available }

// State returns the state-machine branch.
func (s Session) State() State { return s.state }

// IsImpersonating reports whether the session carries an impersonation anchor.
func (s Session) IsImpersonating() bool { return s.state == StateImpersonating }

// Anchor returns the role a reset returns to. It is always admin when present.
func (s Session) Anchor() (sec.Role, bool) {
	if s.state == StateImpersonating {
		return sec.RoleAdmin, true
	}
	return "", false
}

// IsZero reports whether s is the zero value.
func (s Session) IsZero() bool { return s.email == "" }

// Equal reports whether two sessions are identical.
func (s Session) Equal(other Session) bool {
	return s.email == other.email &&
		s.active == other.active &&
		s.state == other.state &&
		s.available.Equal(other.available)
}
