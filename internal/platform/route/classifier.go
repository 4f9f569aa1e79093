// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package route classifies request paths before authorization.
//
// Every path maps to exactly one [Kind]: an explicit allow-list is Public,
// paths under the dashboard prefix are RoleScoped by the segment that follows
// it, and everything else is Protected.
package route

import (
	"path"
	"strings"

	"github.com/taibuivan/castly/internal/platform/constants"
)

// # Classes

// Kind is the static category of a request path.
type Kind int

const (
	// Protected requires a session but no particular role.
	Protected Kind = iota

	// Public needs no session.
	Public

	// RoleScoped requires the claimed role to be available to the session.
	RoleScoped
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case RoleScoped:
		return "role_scoped"
	default:
		return "unknown"
	}
}

// Class is the result of classifying a path.
type Class struct {
	Kind Kind

	// ClaimedRole is the raw path segment after the dashboard prefix.
	// It is only set for RoleScoped classes and is not validated.
	ClaimedRole string
}

// # Public Routes

// DefaultPublicRoutes lists the routes reachable without a session.
var DefaultPublicRoutes = []string{
	"/",
	"/auth",
	"/sign-in",
	"/sign-up",
	"/health",
	"/ready",
	"/auth/social-callback",
	"/api/v1/auth/sign-in",
	"/api/v1/auth/sign-up",
	"/api/v1/auth/sign-out",
	"/api/v1/auth/check-email",
	"/api/v1/auth/callback",
	"/api/v1/roles/switch",
}

// # Classifier

// Classifier is an immutable routing table.
type Classifier struct {
	public          []string
	dashboardPrefix string
}

// NewClassifier builds a classifier from an allow-list and a dashboard prefix.
// Trailing slashes are trimmed from both (except the root route).
func NewClassifier(publicRoutes []string, dashboardPrefix string) *Classifier {
	public := make([]string, 0, len(publicRoutes))
	for _, r := range publicRoutes {
		public = append(public, trimRoute(r))
	}
	return &Classifier{public: public, dashboardPrefix: trimRoute(dashboardPrefix)}
}

// Default returns the classifier for the Castly route table.
func Default() *Classifier {
	return NewClassifier(DefaultPublicRoutes, constants.DashboardPrefix)
}

// Classify maps a request path to its class. It is total and has no side
// effects.
//
// The path is cleaned first so that dot segments and doubled slashes cannot
// borrow a public prefix and then resolve elsewhere in the router.
func (c *Classifier) Classify(requestPath string) Class {
	cleaned := path.Clean("/" + requestPath)

	for _, r := range c.public {
		if matches(cleaned, r) {
			return Class{Kind: Public}
		}
	}

	if rest, ok := strings.CutPrefix(cleaned, c.dashboardPrefix+"/"); ok {
		claimed, _, _ := strings.Cut(rest, "/")
		if claimed != "" {
			return Class{Kind: RoleScoped, ClaimedRole: claimed}
		}
	}

	return Class{Kind: Protected}
}

// matches reports whether p is r or lies beneath it.
func matches(p, r string) bool {
	return p == r || strings.HasPrefix(p, r+"/")
}

func trimRoute(r string) string {
	if r == "/" {
		return r
	}
	return strings.TrimRight(r, "/")
}
