// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dashboard serves the role dashboards and the identity endpoint.

The dashboard bodies are placeholders for the content tools that sit behind
each role; what matters here is that they only ever run for a session the
gate has already authorized for the claimed role.
*/
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/castly/internal/platform/authz"
	requestutil "github.com/taibuivan/castly/internal/platform/request"
	"github.com/taibuivan/castly/internal/platform/respond"
	"github.com/taibuivan/castly/internal/users/role"
)

// Handler implements the dashboard endpoints.
type Handler struct{}

// NewHandler constructs a new dashboard [Handler].
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns a [chi.Router] mounted at /dashboard.
//
// # Endpoints
//   - GET /         : Redirects to the active role's dashboard.
//   - GET /{role}   : The dashboard of an authorized role.
//   - GET /{role}/* : Pages beneath it.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.home)
	router.Get("/{role}", handler.dashboard)
	router.Get("/{role}/*", handler.dashboard)

	return router
}

// View is the body of a dashboard page.
type View struct {
	Dashboard string        `json:"dashboard"`
	Section   string        `json:"section,omitempty"`
	Identity  role.Identity `json:"identity"`
}

/*
GET /dashboard.

Response:
  - 303: Location /dashboard/<active role>
*/
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.SeeOther(writer, request, authz.DashboardPath(string(current.ActiveRole())))
}

/*
GET /dashboard/{role}.

Response:
  - 200: View
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, View{
		Dashboard: requestutil.Param(request, "role"),
		Section:   requestutil.Param(request, "*"),
		Identity:  role.NewIdentity(current),
	})
}

/*
Me handles GET /api/v1/me.

Response:
  - 200: role.Identity
  - 401: ErrUnauthorized: No session
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, role.NewIdentity(current))
}
