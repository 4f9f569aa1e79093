// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/authz"
	"github.com/taibuivan/castly/internal/platform/ctxutil"
	"github.com/taibuivan/castly/internal/platform/respond"
	"github.com/taibuivan/castly/internal/platform/route"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
)

// # Central Enforcement

// Gate is the single authorization point for every request.
//
// # Flow
//  1. Load the session from the per-request [session.Store].
//  2. Clean the routing path, pin it for the router, and classify it.
//  3. Ask [authz.Authorize] for a decision.
//  4. Continue with the session in context, redirect with 303, or reject.
//
// # Usage
//
// Must be registered in the router AFTER [session.Middleware].
func Gate(classifier *route.Classifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Session Resolution ─────────────────────────────────────────
			var current *session.Session
			if store := session.FromContext(request.Context()); store != nil {
				if loaded, ok := store.Load(); ok {
					current = &loaded
				}
			}

			// ── 2. Classification & Decision ──────────────────────────────────
			class := classifier.Classify(pinRoutePath(request))
			decision := authz.Authorize(current, class)

			switch decision.Outcome {
			case authz.Allow:
				ctx := request.Context()
				if current != nil {
					ctx = ctxutil.WithSession(ctx, *current)
				}
				next.ServeHTTP(writer, request.WithContext(ctx))

			case authz.Redirect:
				logRedirect(request, class, decision)
				respond.SeeOther(writer, request, decision.Target)

			default:
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "authz_rejected",
					slog.String("reason", string(decision.Reason)),
					slog.String("class", class.Kind.String()),
				)
				respond.Error(writer, request, apperr.Forbidden("Request is not permitted"))
			}
		})
	}
}

/*
pinRoutePath returns the cleaned path chi will dispatch on and stores it as
the route path, so the router matches exactly the string that was classified.

chi routes on the escaped RawPath when one is present, so an encoded slash or
dot (%2F, %2E) stays inside a single segment. Classifying the decoded Path
instead would let "/dashboard/admin/x%2F..%2F..%2Fauth" pass as "/auth".
*/
func pinRoutePath(request *http.Request) string {
	routeContext := chi.RouteContext(request.Context())

	routePath := request.URL.Path
	if request.URL.RawPath != "" {
		routePath = request.URL.RawPath
	}
	if routeContext != nil && routeContext.RoutePath != "" {
		routePath = routeContext.RoutePath
	}

	cleaned := path.Clean("/" + routePath)
	if routeContext != nil {
		routeContext.RoutePath = cleaned
	}

	return cleaned
}

// logRedirect keeps anonymous bounces at debug; a signed-in user probing
// another role's dashboard is worth an info line.
func logRedirect(request *http.Request, class route.Class, decision authz.Decision) {
	logger := ctxutil.GetLogger(request.Context())
	level := slog.LevelDebug
	if decision.Reason == authz.ReasonRoleNotPermitted {
		level = slog.LevelInfo
	}

	logger.Log(request.Context(), level, "authz_redirect",
		slog.String("reason", string(decision.Reason)),
		slog.String("claimed_role", class.ClaimedRole),
		slog.String("target", decision.Target),
	)
}

// # Route-Level Guards

// RequireActiveRole blocks requests whose session is not currently acting as role.
//
// An impersonating session never passes: its rights come from the anchor, and
// administrative writes must be made as the administrator.
//
// # Usage
//
// Must be registered in the router AFTER [Gate].
func RequireActiveRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current, ok := ctxutil.GetSession(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if current.ActiveRole() != role || current.IsImpersonating() {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
