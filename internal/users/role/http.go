// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/castly/internal/platform/request"
	"github.com/taibuivan/castly/internal/platform/respond"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/validate"
)

// Handler implements the role endpoints.
//
// # Security
//
// The switch route is classified Public so a client can call it before the
// gate has anything to redirect to; the handler therefore checks for a
// session itself.
type Handler struct {
	roleService *Service
}

// NewHandler constructs a new role [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{roleService: service}
}

// Routes returns a [chi.Router] mounted at /api/v1/roles.
//
// # Endpoints
//   - POST /switch  : Changes the active role.
//   - POST /reset   : Ends impersonation.
//   - GET  /current : Returns the current identity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/switch", handler.switchRole)
	router.Post("/reset", handler.reset)
	router.Get("/current", handler.current)

	return router
}

type switchRequest struct {
	NewRole string `json:"newRole"`
}

/*
POST /api/v1/roles/switch.

Request:
  - body: switchRequest (NewRole)

Response:
  - 200: SwitchResult: Session cookies rewritten
  - 400: ErrInvalidJSON or a missing newRole
  - 401: ErrUnauthorized: No session
  - 403: SWITCH_REJECTED: Role not available; meta carries the permitted set
*/
func (handler *Handler) switchRole(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	store, err := requestutil.RequiredStore(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input switchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Required(FieldNewRole, input.NewRole).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	next, err := handler.roleService.Switch(request.Context(), store, current, input.NewRole)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, SwitchResult{
		Success:        true,
		NewRole:        next.ActiveRole(),
		AvailableRoles: next.AvailableRoles(),
		Impersonating:  next.IsImpersonating(),
	})
}

/*
POST /api/v1/roles/reset.

Response:
  - 200: ResetResult: Back to admin, anchor cleared
  - 403: RESET_REJECTED: Session is not impersonating
*/
func (handler *Handler) reset(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	store, err := requestutil.RequiredStore(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	next, err := handler.roleService.Reset(request.Context(), store, current)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ResetResult{
		Success:      true,
		NewRole:      next.ActiveRole(),
		PreviousRole: current.ActiveRole(),
		OriginalRole: sec.RoleAdmin,
	})
}

/*
GET /api/v1/roles/current.

Response:
  - 200: Identity
*/
func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, NewIdentity(current))
}
