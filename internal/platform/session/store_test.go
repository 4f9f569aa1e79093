// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/sec"
)

var storeEpoch = time.Unix(1_800_000_000, 0)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	signer, err := sec.NewFieldSigner("0123456789abcdef0123456789abcdef", constants.SessionIssuer)
	require.NoError(t, err)
	return NewCodec(signer)
}

func newTestStore(t *testing.T, codec *Codec, request *http.Request) *CookieStore {
	t.Helper()
	store := NewCookieStore(codec, request, CookieOptions{Secure: true})
	store.now = func() time.Time { return storeEpoch }
	return store
}

// requestWith builds a request carrying the cookies set on a recorded response.
func requestWith(t *testing.T, recorder *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, "/dashboard/admin", nil)
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.MaxAge < 0 {
			continue
		}
		request.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return request
}

func adminSession(t *testing.T) Session {
	t.Helper()
	s, err := Normal("root@castly.app", sec.RoleAdmin, sec.FullRoleSet())
	require.NoError(t, err)
	return s
}

/*
TestCookieStore_LoadAnonymous returns no session for a bare request.
*/
func TestCookieStore_LoadAnonymous(t *testing.T) {
	store := newTestStore(t, newTestCodec(t), httptest.NewRequest(http.MethodGet, "/", nil))

	s, ok := store.Load()
	assert.False(t, ok)
	assert.True(t, s.IsZero())
}

/*
TestCookieStore_SaveFlushLoad covers the save -> flush -> next request cycle
and the transport attributes of each cookie.
*/
func TestCookieStore_SaveFlushLoad(t *testing.T) {
	codec := newTestCodec(t)
	store := newTestStore(t, codec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", nil))

	require.NoError(t, store.Save(adminSession(t)))

	// Same request sees the staged value.
	staged, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, sec.RoleAdmin, staged.ActiveRole())

	recorder := httptest.NewRecorder()
	store.Flush(recorder.Header())

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 4)
	for _, cookie := range cookies {
		assert.True(t, cookie.HttpOnly, cookie.Name)
		assert.True(t, cookie.Secure, cookie.Name)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite, cookie.Name)
		assert.Equal(t, "/", cookie.Path, cookie.Name)
		if cookie.Name == constants.CookieOriginalRole {
			assert.Less(t, cookie.MaxAge, 0)
			continue
		}
		assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge, cookie.Name)
	}

	next := newTestStore(t, codec, requestWith(t, recorder))
	loaded, ok := next.Load()
	require.True(t, ok)
	assert.True(t, adminSession(t).Equal(loaded))
}

/*
TestCookieStore_IssuedAt reads the write time from the cookies, then from a
staged save, and reports nothing after a clear.
*/
func TestCookieStore_IssuedAt(t *testing.T) {
	codec := newTestCodec(t)

	anonymous := newTestStore(t, codec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok := anonymous.IssuedAt()
	assert.False(t, ok)

	writer := newTestStore(t, codec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, writer.Save(adminSession(t)))
	recorder := httptest.NewRecorder()
	writer.Flush(recorder.Header())

	reader := newTestStore(t, codec, requestWith(t, recorder))
	reader.now = func() time.Time { return storeEpoch.Add(time.Hour) }
	issuedAt, ok := reader.IssuedAt()
	require.True(t, ok)
	assert.True(t, issuedAt.Equal(storeEpoch))

	require.NoError(t, reader.Save(adminSession(t)))
	issuedAt, ok = reader.IssuedAt()
	require.True(t, ok)
	assert.True(t, issuedAt.Equal(storeEpoch.Add(time.Hour)))

	require.NoError(t, reader.Clear())
	_, ok = reader.IssuedAt()
	assert.False(t, ok)
}

/*
TestCookieStore_FlushOnce ensures writes after the header is sent are refused
and never produce a second set of cookies.
*/
func TestCookieStore_FlushOnce(t *testing.T) {
	store := newTestStore(t, newTestCodec(t), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, store.Save(adminSession(t)))

	header := http.Header{}
	store.Flush(header)
	store.Flush(header)
	assert.Len(t, header.Values("Set-Cookie"), 4)

	assert.ErrorIs(t, store.Save(adminSession(t)), ErrAlreadyFlushed)
	assert.ErrorIs(t, store.Clear(), ErrAlreadyFlushed)
	assert.Len(t, header.Values("Set-Cookie"), 4)
}

/*
TestCookieStore_LastWriteWins keeps only the final staged state.
*/
func TestCookieStore_LastWriteWins(t *testing.T) {
	codec := newTestCodec(t)
	store := newTestStore(t, codec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NoError(t, store.Save(adminSession(t)))
	require.NoError(t, store.Clear())

	_, ok := store.Load()
	assert.False(t, ok)

	recorder := httptest.NewRecorder()
	store.Flush(recorder.Header())

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 4)
	for _, cookie := range cookies {
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	}
}

/*
TestCookieStore_NoWriteNoCookies leaves the response untouched when nothing is staged.
*/
func TestCookieStore_NoWriteNoCookies(t *testing.T) {
	store := newTestStore(t, newTestCodec(t), httptest.NewRequest(http.MethodGet, "/", nil))
	_, _ = store.Load()

	header := http.Header{}
	store.Flush(header)
	assert.Empty(t, header.Values("Set-Cookie"))
}

/*
TestMiddleware_FlushesBeforeBody verifies cookies staged by a handler are on
the response even when the handler writes a body, and that the store is
reachable from the request context.
*/
func TestMiddleware_FlushesBeforeBody(t *testing.T) {
	codec := newTestCodec(t)
	admin := adminSession(t)

	handler := Middleware(codec, CookieOptions{Secure: true})(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		store := FromContext(request.Context())
		require.NotNil(t, store)
		require.NoError(t, store.Save(admin))

		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("ok"))

		// Too late: the header is gone.
		assert.ErrorIs(t, store.Clear(), ErrAlreadyFlushed)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", nil))

	assert.Len(t, recorder.Result().Cookies(), 4)
	assert.Equal(t, "ok", recorder.Body.String())
}

/*
TestMiddleware_FlushesSilentHandler covers handlers that return without writing.
*/
func TestMiddleware_FlushesSilentHandler(t *testing.T) {
	codec := newTestCodec(t)

	handler := Middleware(codec, CookieOptions{})(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, FromContext(request.Context()).Clear())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-out", nil))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 4)
	for _, cookie := range cookies {
		assert.False(t, cookie.Secure)
	}
}
