// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/castly/internal/platform/ctxutil"
	"github.com/taibuivan/castly/internal/platform/session"
)

// SessionRevocations reports the instant before which sessions of an email
// were revoked.
type SessionRevocations interface {
	RevokedAt(context context.Context, email string) (time.Time, bool, error)
}

// # Session Revocation

// RevokedSessions clears sessions issued before their account was deleted.
//
// Deleting an account only clears the cookies of the browser that asked for
// it. Every other browser still holds a validly signed session, so each
// request compares its issue time against the revocation list and stages a
// clear when it is older. [Gate] then sees an anonymous request.
//
// A lookup error is logged and the request continues unchanged.
//
// # Usage
//
// Must be registered AFTER [session.Middleware] and BEFORE [Gate]. A nil
// revocations disables the check.
func RevokedSessions(revocations SessionRevocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if revocations == nil {
			return next
		}

		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			store := session.FromContext(request.Context())
			if store == nil {
				next.ServeHTTP(writer, request)
				return
			}

			current, ok := store.Load()
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}
			issuedAt, ok := store.IssuedAt()
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			logger := ctxutil.GetLogger(request.Context())
			revokedAt, found, err := revocations.RevokedAt(request.Context(), current.Email())
			if err != nil {
				logger.WarnContext(request.Context(), "session_revocation_check_failed", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			if found && issuedAt.Before(revokedAt) {
				if err := store.Clear(); err != nil {
					logger.ErrorContext(request.Context(), "session_clear_failed", slog.Any("error", err))
				} else {
					logger.InfoContext(request.Context(), "session_revoked",
						slog.Time("issued_at", issuedAt),
						slog.Time("revoked_at", revokedAt),
					)
				}
			}

			next.ServeHTTP(writer, request)
		})
	}
}
