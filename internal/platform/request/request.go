// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/castly/internal/platform/apperr"
	"github.com/taibuivan/castly/internal/platform/ctxutil"
	"github.com/taibuivan/castly/internal/platform/session"
	"github.com/taibuivan/castly/internal/platform/validate"
)

var errNoSessionStore = errors.New("requestutil: session middleware not mounted")

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named UUID URL parameter from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredSession ensures the request carries a session and returns it.

Returns:
  - session.Session: The authorized session
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredSession(request *http.Request) (session.Session, error) {

	// Get the authorized session
	current, ok := ctxutil.GetSession(request.Context())

	// If the request is anonymous, return an error
	if !ok {
		return session.Session{}, apperr.Unauthorized("Authentication required")
	}

	return current, nil
}

/*
RequiredStore returns the per-request session store.

Returns:
  - session.Store: The store acquired by the session middleware
  - error: apperr.Internal if the middleware was not mounted
*/
func RequiredStore(request *http.Request) (session.Store, error) {
	store := session.FromContext(request.Context())
	if store == nil {
		return nil, apperr.Internal(errNoSessionStore)
	}
	return store, nil
}
