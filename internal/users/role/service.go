// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/authz"
	"github.com/taibuivan/castly/internal/platform/ctxutil"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
)

// # Service Layer

// Service applies role transitions to the request's session store.
//
// It holds no state; every call works on the store it is handed.
type Service struct{}

// NewService constructs a new [Service].
func NewService() *Service {
	return &Service{}
}

/*
Switch moves the current session to requested and stages the result.

Description: On rejection nothing is staged, so the session the client holds
is left exactly as it was.

Parameters:
  - context: context.Context
  - store: session.Store
  - current: session.Session
  - requested: string (raw role tag)

Returns:
  - session.Session: The new session
  - error: apperr SWITCH_REJECTED or store failures
*/
func (service *Service) Switch(context context.Context, store session.Store, current session.Session, requested string) (session.Session, error) {
	logger := ctxutil.GetLogger(context)

	next, err := authz.SwitchRole(current, requested)
	if err != nil {
		var rejected *authz.SwitchRejectedError
		if errors.As(err, &rejected) {
			logger.InfoContext(context, "role_switch_rejected",
				slog.String("active_role", string(current.ActiveRole())),
				slog.String("requested_role", rejected.Requested),
			)
			return session.Session{}, apperr.SwitchRejected(rejected.Requested, rejected.Available)
		}
		return session.Session{}, fmt.Errorf("role_service_switch_failed: %w", err)
	}

	if err := store.Save(next); err != nil {
		return session.Session{}, fmt.Errorf("role_service_save_failed: %w", err)
	}

	logger.InfoContext(context, "role_switched",
		slog.String("from_role", string(current.ActiveRole())),
		slog.String("to_role", string(next.ActiveRole())),
		slog.Bool("impersonating", next.IsImpersonating()),
	)

	return next, nil
}

/*
Reset returns an impersonating administrator to admin and stages the result.

Parameters:
  - context: context.Context
  - store: session.Store
  - current: session.Session

Returns:
  - session.Session: The admin session
  - error: apperr RESET_REJECTED or store failures
*/
func (service *Service) Reset(context context.Context, store session.Store, current session.Session) (session.Session, error) {
	logger := ctxutil.GetLogger(context)

	next, err := authz.ResetToAdmin(current)
	if err != nil {
		var rejected *authz.ResetRejectedError
		if errors.As(err, &rejected) {
			logger.WarnContext(context, "impersonation_reset_rejected",
				slog.String("active_role", rejected.Current),
			)
			return session.Session{}, apperr.ResetRejected(rejected.Current, rejected.Original)
		}
		return session.Session{}, fmt.Errorf("role_service_reset_failed: %w", err)
	}

	if err := store.Save(next); err != nil {
		return session.Session{}, fmt.Errorf("role_service_save_failed: %w", err)
	}

	logger.InfoContext(context, "impersonation_reset",
		slog.String("from_role", string(current.ActiveRole())),
		slog.String("to_role", string(sec.RoleAdmin)),
	)

	return next, nil
}
