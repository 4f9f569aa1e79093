// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/castly/internal/dashboard"
	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/middleware"
	"github.com/taibuivan/castly/internal/platform/route"
	"github.com/taibuivan/castly/internal/platform/sec"
	"github.com/taibuivan/castly/internal/platform/session"
)

func newRouter(t *testing.T) (http.Handler, *session.Codec) {
	t.Helper()
	signer, err := sec.NewFieldSigner("0123456789abcdef0123456789abcdef", constants.SessionIssuer)
	require.NoError(t, err)
	codec := session.NewCodec(signer)

	handler := dashboard.NewHandler()
	router := chi.NewRouter()
	router.Use(session.Middleware(codec, session.CookieOptions{}))
	router.Use(middleware.Gate(route.Default()))
	router.Mount("/dashboard", handler.Routes())
	router.Get("/api/v1/me", handler.Me)

	return router, codec
}

func get(t *testing.T, router http.Handler, codec *session.Codec, target string, s *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, target, nil)
	if s != nil {
		fields, err := codec.Encode(*s, time.Now())
		require.NoError(t, err)
		for _, field := range fields {
			if !field.IsDeletion() {
				request.AddCookie(&http.Cookie{Name: field.Name, Value: field.Value})
			}
		}
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestDashboard covers the landing redirect, an authorized page and the gate
bouncing other roles.
*/
func TestDashboard(t *testing.T) {
	router, codec := newRouter(t)

	set, err := sec.NewRoleSet(sec.RoleManager, sec.RoleAnalyst)
	require.NoError(t, err)
	manager, err := session.Normal("li@castly.app", sec.RoleManager, set)
	require.NoError(t, err)

	impersonating, err := session.Impersonating("root@castly.app", sec.RoleCreator, sec.FullRoleSet())
	require.NoError(t, err)

	tests := []struct {
		name         string
		target       string
		session      *session.Session
		wantCode     int
		wantLocation string
	}{
		{"anonymous", "/dashboard/manager", nil, http.StatusSeeOther, "/"},
		{"home", "/dashboard", &manager, http.StatusSeeOther, "/dashboard/manager"},
		{"home with slash", "/dashboard/", &manager, http.StatusSeeOther, "/dashboard/manager"},
		{"own dashboard", "/dashboard/manager", &manager, http.StatusOK, ""},
		{"available role", "/dashboard/analyst/reports", &manager, http.StatusOK, ""},
		{"other role", "/dashboard/admin", &manager, http.StatusSeeOther, "/dashboard/manager"},
		{"impersonating admin", "/dashboard/admin", &impersonating, http.StatusSeeOther, "/dashboard/creator"},
		{"impersonated dashboard", "/dashboard/creator", &impersonating, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := get(t, router, codec, tt.target, tt.session)

			assert.Equal(t, tt.wantCode, recorder.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, recorder.Header().Get("Location"))
			}
		})
	}
}

/*
TestDashboard_View echoes the section and identity.
*/
func TestDashboard_View(t *testing.T) {
	router, codec := newRouter(t)

	impersonating, err := session.Impersonating("root@castly.app", sec.RoleCreator, sec.FullRoleSet())
	require.NoError(t, err)

	recorder := get(t, router, codec, "/dashboard/creator/captions", &impersonating)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data dashboard.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "creator", body.Data.Dashboard)
	assert.Equal(t, "captions", body.Data.Section)
	assert.Equal(t, "root@castly.app", body.Data.Identity.Email)
	assert.True(t, body.Data.Identity.Impersonating)
	assert.Equal(t, sec.RoleAdmin, body.Data.Identity.OriginalRole)
}

/*
TestMe returns the identity or bounces anonymous callers.
*/
func TestMe(t *testing.T) {
	router, codec := newRouter(t)

	anonymous := get(t, router, codec, "/api/v1/me", nil)
	assert.Equal(t, http.StatusSeeOther, anonymous.Code)

	admin, err := session.Normal("root@castly.app", sec.RoleAdmin, sec.FullRoleSet())
	require.NoError(t, err)

	recorder := get(t, router, codec, "/api/v1/me", &admin)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{
		"email":"root@castly.app",
		"activeRole":"admin",
		"availableRoles":["admin","manager","creator","analyst","client"],
		"impersonating":false
	}}`, recorder.Body.String())
}
