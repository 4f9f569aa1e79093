// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: Cookie names, lifetime and the landing/dashboard routes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "castly-api"
	AppVersion = "0.1.0-dev"

	// PlatformDomain is the public domain; browser origins under it pass CORS.
	PlatformDomain = "castly.app"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// SessionIssuer is the 'iss' claim of every signed session field.
	SessionIssuer = PlatformDomain

	// SessionTTL is the validity window of each session cookie, counted from its last write.
	SessionTTL = 7 * 24 * time.Hour

	// CookieUserEmail carries the authenticated principal.
	CookieUserEmail = "user_email"

	// CookieUserRole carries the active role.
	CookieUserRole = "user_role"

	// CookieAvailableRoles carries the JSON array of switchable roles.
	CookieAvailableRoles = "available_roles"

	// CookieOriginalRole carries the impersonation anchor, only while impersonating.
	CookieOriginalRole = "original_role"

	// CookiePath scopes session cookies to the whole site.
	CookiePath = "/"
)

// # Routes

const (
	// LandingPath is where anonymous traffic is sent.
	LandingPath = "/"

	// DashboardPrefix is the reserved prefix of role-scoped paths.
	DashboardPrefix = "/dashboard"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Database Schemas

const (
	SchemaUsers = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixAvailableRoles = "roles:available:"
	RedisPrefixRevokedSession = "session:revoked:"
)
