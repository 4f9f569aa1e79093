// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/castly/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/castly/internal/platform/request"
	"github.com/taibuivan/castly/internal/platform/respond"
	"github.com/taibuivan/castly/internal/platform/session"
	"github.com/taibuivan/castly/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the sign-in lifecycle endpoints.
//
// # Scope
//
// Every route here is public; the gate lets them through without a session.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /sign-up     : Creates an account and signs it in.
//   - POST /sign-in     : Verifies credentials and writes the session.
//   - POST /sign-out    : Clears the session.
//   - POST /check-email : Reports whether an email is registered.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/sign-up", handler.signUp)
	router.Post("/sign-in", handler.signIn)
	router.Post("/sign-out", handler.signOut)
	router.Post("/check-email", handler.checkEmail)

	return router
}

// # Request Payloads

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type checkEmailRequest struct {
	Email string `json:"email"`
}

// signedInResponse is the body returned after sign-up and sign-in.
func signedInResponse(result *SignedIn) map[string]any {
	return map[string]any{
		FieldAccount:        result.Account,
		FieldActiveRole:     result.Session.ActiveRole(),
		FieldAvailableRoles: result.Session.AvailableRoles(),
	}
}

/*
SignUp creates an account and signs it in.

POST /api/v1/auth/sign-up

Request:
  - Body: signUpRequest (Email, Password, Role, DisplayName)

Response:
  - 201: Account with its active and available roles; session cookies set
  - 400: ErrInvalidJSON or validation failure (including a request for admin)
  - 409: ErrConflict: Email already exists
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	store, err := requestutil.RequiredStore(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input signUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordLength, "Password is too long").
		MaxLen(FieldDisplayName, input.DisplayName, MaxDisplayNameLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Email:       input.Email,
		Password:    input.Password,
		Role:        input.Role,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !handler.persist(writer, request, store, result.Session) {
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "account_signed_up",
		slog.String("account_id", result.Account.ID),
		slog.String("primary_role", string(result.Account.PrimaryRole)),
	)

	respond.Created(writer, signedInResponse(result))
}

/*
SignIn authenticates an account and establishes a session.

POST /api/v1/auth/sign-in

Description: On failure the session is left exactly as it was.

Request:
  - Body: signInRequest (Email, Password)

Response:
  - 200: Account with its active and available roles; session cookies set
  - 401: ErrUnauthorized: Invalid credentials
  - 500: Credential store unavailable
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	store, err := requestutil.RequiredStore(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !handler.persist(writer, request, store, result.Session) {
		return
	}

	respond.OK(writer, signedInResponse(result))
}

/*
SignOut terminates the current session.

POST /api/v1/auth/sign-out

Description: Idempotent; signing out an anonymous client still clears any
stale session cookies.

Response:
  - 204: No Content: Session cleared
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	store, err := requestutil.RequiredStore(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := store.Clear(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
CheckEmail reports whether an email is registered.

POST /api/v1/auth/check-email

Request:
  - Body: checkEmailRequest (Email)

Response:
  - 200: {"exists": bool}
  - 400: ErrInvalidJSON or an invalid email
*/
func (handler *Handler) checkEmail(writer http.ResponseWriter, request *http.Request) {
	var input checkEmailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	exists, err := handler.authService.CheckEmail(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{FieldExists: exists})
}

// persist stages s on the store, responding with an error when it cannot.
func (handler *Handler) persist(writer http.ResponseWriter, request *http.Request, store session.Store, s session.Session) bool {
	if err := store.Save(s); err != nil {
		respond.Error(writer, request, err)
		return false
	}
	return true
}
