// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz is the role authorization engine.

It owns two things:

  - [Authorize]: the per-request decision, evaluated once by the central
    gate middleware after the path has been classified.
  - [SwitchRole] and [ResetToAdmin]: the explicit transitions of the session
    state machine Normal(role) <-> Impersonating(admin, role).

Everything here is a pure function of its inputs. Sessions are values; a
rejected transition returns an error and no session, so a caller has nothing
to persist.
*/
package authz

import (
	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/route"
	"github.com/taibuivan/castly/internal/platform/session"
)

// # Decisions

// Outcome is what the gate does with a request.
type Outcome int

const (
	// Allow continues to the handler.
	Allow Outcome = iota

	// Redirect sends the client to Decision.Target.
	Redirect

	// Reject refuses the request outright.
	Reject
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Reason explains a non-Allow decision for logging.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoSession        Reason = "no_session"
	ReasonRoleNotPermitted Reason = "role_not_permitted"
	ReasonUnknownClass     Reason = "unknown_class"
)

// Decision is the result of [Authorize].
type Decision struct {
	Outcome Outcome
	Target  string
	Reason  Reason
}

// DashboardPath returns the dashboard route for a role tag.
func DashboardPath(role string) string {
	return constants.DashboardPrefix + "/" + role
}

// # Per-Request Authorization

/*
Authorize decides what happens to a classified request.

  - Public: always Allow.
  - Protected: Allow with a session, otherwise Redirect to the landing page.
  - RoleScoped: Allow iff the claimed role is permitted to the session,
    otherwise Redirect to the session's own active-role dashboard.

A Normal session is permitted its whole available set, so a multi-role
account can open any of its dashboards and a creator cannot reach another
role's dashboard by typing its URL. An impersonating session is permitted only
the role it is acting as: an admin acting as analyst who opens /dashboard/admin
is sent to /dashboard/analyst and must reset to get back.

A nil session means anonymous.
*/
func Authorize(s *session.Session, class route.Class) Decision {
	switch class.Kind {
	case route.Public:
		return Decision{Outcome: Allow}

	case route.Protected:
		if s == nil {
			return noSession()
		}
		return Decision{Outcome: Allow}

	case route.RoleScoped:
		if s == nil {
			return noSession()
		}
		if permits(*s, class.ClaimedRole) {
			return Decision{Outcome: Allow}
		}
		return Decision{
			Outcome: Redirect,
			Target:  DashboardPath(string(s.ActiveRole())),
			Reason:  ReasonRoleNotPermitted,
		}

	default:
		return Decision{Outcome: Reject, Reason: ReasonUnknownClass}
	}
}

// permits reports whether the session may open the dashboard for tag.
func permits(s session.Session, tag string) bool {
	if s.IsImpersonating() {
		return string(s.ActiveRole()) == tag
	}
	return s.AvailableRoles().ContainsTag(tag)
}

func noSession() Decision {
	return Decision{Outcome: Redirect, Target: constants.LandingPath, Reason: ReasonNoSession}
}
