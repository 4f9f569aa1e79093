// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/castly/internal/platform/middleware"
	requestutil "github.com/taibuivan/castly/internal/platform/request"
	"github.com/taibuivan/castly/internal/platform/respond"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/validate"
	"github.com/taibuivan/castly/internal/users/auth"
	"github.com/taibuivan/castly/pkg/pointer"
)

// Handler implements the HTTP layer for account management.
//
// # Security
//
// Every route is Protected, so the gate has already required a session.
// Admin routes additionally require an active, non-impersonating admin.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the self-service endpoints, mounted at /api/v1/account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getProfile)
	router.Patch("/", handler.updateProfile)
	router.Delete("/", handler.deleteAccount)

	return router
}

// AdminRoutes returns the role administration endpoints, mounted at /api/v1/admin.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireActiveRole(sec.RoleAdmin))

	router.Put("/accounts/{id}/roles", handler.grantRoles)

	return router
}

// # Profile Endpoints

/*
GET /api/v1/account.

Description: Retrieves the signed-in account.

Response:
  - 200: Account: Profile including primary and available roles
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.GetProfile(request.Context(), current.Email())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// updateProfileRequest defines the expected JSON payload for profile updates.
type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
}

/*
PATCH /api/v1/account.

Description: Applies partial updates to the signed-in account. Unknown
fields, including any attempt at availableRoles, are ignored.

Request:
  - body: updateProfileRequest (Partial JSON)

Response:
  - 200: Account: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.MaxLen(FieldDisplayName, pointer.Val(input.DisplayName), auth.MaxDisplayNameLength)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.UpdateProfile(request.Context(), current.Email(), UpdateProfileInput{
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

/*
DELETE /api/v1/account.

Description: Soft-deletes the signed-in account and clears the session.

Response:
  - 204: No Content: Account deleted, session cookies removed
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.accountService.DeleteAccount(request.Context(), current.Email()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := store.Clear(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Role Administration Endpoints

// grantRolesRequest carries the replacement role set.
type grantRolesRequest struct {
	AvailableRoles []string `json:"availableRoles"`
}

/*
PUT /api/v1/admin/accounts/{id}/roles.

Description: Replaces an account's available roles. The member sees the new
set after their next sign-in.

Request:
  - id: string (Account UUID)
  - body: grantRolesRequest

Response:
  - 200: Account: The account with its new role set
  - 400: Validation: Bad id, unknown tags, empty set or missing primary role
  - 403: ErrForbidden: Caller is not an active administrator
  - 404: ErrNotFound: Account not found
*/
func (handler *Handler) grantRoles(writer http.ResponseWriter, request *http.Request) {
	accountID := requestutil.ID(request, FieldID)

	var input grantRolesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.UUID(FieldID, accountID).Roles(FieldAvailableRoles, input.AvailableRoles)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.GrantRoles(request.Context(), accountID, input.AvailableRoles)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}
