// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/ctxkey"
)

// ErrAlreadyFlushed is returned when a write is staged after the response
// header has been sent.
var ErrAlreadyFlushed = errors.New("session: response already flushed")

// # Store Contract

// Store is the per-request session adapter.
//
// # Ordering
//
// Load reflects the incoming request until Save or Clear is called, after
// which it reflects the staged value. Staged writes reach the client exactly
// once, when the response header is finalized; the last write wins.
type Store interface {
	// Load returns the current session, or false when anonymous.
	Load() (Session, bool)

	// Save stages s, replacing every session field.
	Save(s Session) error

	// Clear stages the removal of every session field.
	Clear() error

	// IssuedAt returns when the current session was written, or false when
	// anonymous.
	IssuedAt() (time.Time, bool)
}

// CookieOptions controls transport attributes of session cookies.
type CookieOptions struct {
	// Secure restricts cookies to HTTPS.
	Secure bool
}

// # Cookie Store

// CookieStore implements [Store] on top of HTTP cookies.
//
// # Concurrency
//
// A CookieStore belongs to one request and must not be shared.
type CookieStore struct {
	codec   *Codec
	request *http.Request
	options CookieOptions
	now     func() time.Time

	loaded  bool
	current Session
	present bool
	savedAt time.Time
	pending []Field
	dirty   bool
	flushed bool
}

// NewCookieStore acquires the store for one request.
func NewCookieStore(codec *Codec, request *http.Request, options CookieOptions) *CookieStore {
	return &CookieStore{
		codec:   codec,
		request: request,
		options: options,
		now:     time.Now,
	}
}

// Load implements [Store].
func (store *CookieStore) Load() (Session, bool) {
	if !store.loaded {
		store.current, store.present = store.codec.Decode(store.lookup, store.now())
		store.loaded = true
	}
	return store.current, store.present
}

// Save implements [Store].
func (store *CookieStore) Save(s Session) error {
	if store.flushed {
		return ErrAlreadyFlushed
	}

	now := store.now()
	fields, err := store.codec.Encode(s, now)
	if err != nil {
		return err
	}

	store.savedAt = now
	store.pending = fields
	store.dirty = true
	store.current, store.present, store.loaded = s, true, true
	return nil
}

// Clear implements [Store].
func (store *CookieStore) Clear() error {
	if store.flushed {
		return ErrAlreadyFlushed
	}

	store.pending = store.codec.Deletions()
	store.dirty = true
	store.current, store.present, store.loaded = Session{}, false, true
	return nil
}

// IssuedAt implements [Store].
func (store *CookieStore) IssuedAt() (time.Time, bool) {
	if store.dirty {
		return store.savedAt, store.present
	}
	if _, ok := store.Load(); !ok {
		return time.Time{}, false
	}
	return store.codec.IssuedAt(store.lookup, store.now())
}

// Flush writes staged fields as Set-Cookie headers. Only the first call has
// any effect.
func (store *CookieStore) Flush(header http.Header) {
	if store.flushed {
		return
	}
	store.flushed = true

	if !store.dirty {
		return
	}

	for _, field := range store.pending {
		header.Add("Set-Cookie", store.cookie(field).String())
	}
}

func (store *CookieStore) cookie(field Field) *http.Cookie {
	cookie := &http.Cookie{
		Name:     field.Name,
		Value:    field.Value,
		Path:     constants.CookiePath,
		Secure:   store.options.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if field.IsDeletion() {
		cookie.MaxAge = -1
		cookie.Expires = field.ExpiresAt
		return cookie
	}

	cookie.Expires = field.ExpiresAt
	cookie.MaxAge = int(store.codec.TTL() / time.Second)
	return cookie
}

func (store *CookieStore) lookup(name string) (string, bool) {
	cookie, err := store.request.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// # Context Plumbing

// WithStore attaches store to ctx.
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, ctxkey.KeySessionStore, store)
}

// FromContext returns the request's [Store], or nil outside [Middleware].
func FromContext(ctx context.Context) Store {
	store, _ := ctx.Value(ctxkey.KeySessionStore).(Store)
	return store
}
