// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/middleware"
	"github.com/taibuivan/castly/internal/platform/route"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
	"github.com/taibuivan/castly/internal/users/account"
)

type harness struct {
	codec      *session.Codec
	router     http.Handler
	repository *fakeRepository
	cache      *fakeCache
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	signer, err := sec.NewFieldSigner("0123456789abcdef0123456789abcdef", constants.SessionIssuer)
	require.NoError(t, err)

	repository := newFakeRepository()
	repository.seed(t, creatorID, "maya@castly.app", sec.RoleCreator, sec.RoleCreator)
	repository.seed(t, adminID, "root@castly.app", sec.RoleAdmin, sec.RoleAdmin, sec.RoleManager, sec.RoleCreator, sec.RoleAnalyst, sec.RoleClient)
	cache := &fakeCache{}

	codec := session.NewCodec(signer)
	handler := account.NewHandler(newService(repository, cache))

	router := chi.NewRouter()
	router.Use(session.Middleware(codec, session.CookieOptions{}))
	router.Use(middleware.Gate(route.Default()))
	router.Mount("/api/v1/account", handler.Routes())
	router.Mount("/api/v1/admin", handler.AdminRoutes())

	return &harness{codec: codec, router: router, repository: repository, cache: cache}
}

func (h *harness) do(t *testing.T, method, target, body string, s *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, target, reader)

	if s != nil {
		fields, err := h.codec.Encode(*s, time.Now())
		require.NoError(t, err)
		for _, field := range fields {
			if !field.IsDeletion() {
				request.AddCookie(&http.Cookie{Name: field.Name, Value: field.Value})
			}
		}
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

func creatorSession(t *testing.T) *session.Session {
	t.Helper()
	set, err := sec.SingleRole(sec.RoleCreator)
	require.NoError(t, err)
	s, err := session.Normal("maya@castly.app", sec.RoleCreator, set)
	require.NoError(t, err)
	return &s
}

func adminSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Normal("root@castly.app", sec.RoleAdmin, sec.FullRoleSet())
	require.NoError(t, err)
	return &s
}

func impersonatingSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Impersonating("root@castly.app", sec.RoleManager, sec.FullRoleSet())
	require.NoError(t, err)
	return &s
}

/*
TestHandler_Profile reads and edits the signed-in account.
*/
func TestHandler_Profile(t *testing.T) {
	h := newHarness(t)

	anonymous := h.do(t, http.MethodGet, "/api/v1/account", "", nil)
	assert.Equal(t, http.StatusSeeOther, anonymous.Code)
	assert.Equal(t, "/", anonymous.Header().Get("Location"))

	profile := h.do(t, http.MethodGet, "/api/v1/account", "", creatorSession(t))
	require.Equal(t, http.StatusOK, profile.Code)
	assert.Contains(t, profile.Body.String(), `"email":"maya@castly.app"`)
	assert.Contains(t, profile.Body.String(), `"availableRoles":["creator"]`)

	// availableRoles in the payload is ignored.
	updated := h.do(t, http.MethodPatch, "/api/v1/account",
		`{"displayName":"Maya","availableRoles":["admin","creator"]}`, creatorSession(t))
	require.Equal(t, http.StatusOK, updated.Code)
	assert.Contains(t, updated.Body.String(), `"displayName":"Maya"`)
	assert.Equal(t, []string{"creator"}, h.repository.accounts[creatorID].AvailableRoles.Strings())

	tooLong := h.do(t, http.MethodPatch, "/api/v1/account",
		`{"displayName":"`+strings.Repeat("m", 81)+`"}`, creatorSession(t))
	assert.Equal(t, http.StatusBadRequest, tooLong.Code)
}

/*
TestHandler_DeleteAccount clears every session cookie.
*/
func TestHandler_DeleteAccount(t *testing.T) {
	h := newHarness(t)

	recorder := h.do(t, http.MethodDelete, "/api/v1/account", "", creatorSession(t))
	require.Equal(t, http.StatusNoContent, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 4)
	for _, cookie := range cookies {
		assert.Less(t, cookie.MaxAge, 0, cookie.Name)
	}
	assert.True(t, h.repository.deleted[creatorID])
	assert.Equal(t, []string{creatorID}, h.cache.invalidated)
}

/*
TestHandler_GrantRoles is reserved to an active, non-impersonating admin.
*/
func TestHandler_GrantRoles(t *testing.T) {
	target := "/api/v1/admin/accounts/" + creatorID + "/roles"
	body := `{"availableRoles":["creator","client"]}`

	tests := []struct {
		name     string
		session  func(t *testing.T) *session.Session
		target   string
		body     string
		wantCode int
	}{
		{"creator", creatorSession, target, body, http.StatusForbidden},
		{"impersonating admin", impersonatingSession, target, body, http.StatusForbidden},
		{"bad id", adminSession, "/api/v1/admin/accounts/not-a-uuid/roles", body, http.StatusBadRequest},
		{"empty set", adminSession, target, `{"availableRoles":[]}`, http.StatusBadRequest},
		{"unknown account", adminSession, "/api/v1/admin/accounts/0190a6a8-7c4e-7d2a-9b1e-3f6c2d8e4aff/roles", body, http.StatusNotFound},
		{"admin", adminSession, target, body, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			recorder := h.do(t, http.MethodPut, tt.target, tt.body, tt.session(t))
			assert.Equal(t, tt.wantCode, recorder.Code)

			want := []string{"creator"}
			if tt.wantCode == http.StatusOK {
				want = []string{"creator", "client"}
			}
			assert.Equal(t, want, h.repository.accounts[creatorID].AvailableRoles.Strings())

			// Administration never rewrites the caller's own session.
			assert.Empty(t, recorder.Result().Cookies())
		})
	}
}
