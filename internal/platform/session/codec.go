// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/taibuivan/castly/internal/platform/constants"
	"github.com/taibuivan/castly/internal/platform/sec"
)

// # Transport Fields

// Field is one named, independently expiring transport value.
//
// An empty Value with a past ExpiresAt instructs the transport to delete the field.
type Field struct {
	Name      string
	Value     string
	ExpiresAt time.Time
}

// IsDeletion reports whether the field removes its transport value.
func (f Field) IsDeletion() bool { return f.Value == "" }

// Lookup returns the raw transport value for a field name.
type Lookup func(name string) (string, bool)

// fieldNames lists every field the codec owns, in write order.
var fieldNames = [...]string{
	constants.CookieUserEmail,
	constants.CookieUserRole,
	constants.CookieAvailableRoles,
	constants.CookieOriginalRole,
}

// # Codec

// Codec converts sessions to and from signed transport fields.
//
// A Codec holds no mutable state and is safe for concurrent use.
type Codec struct {
	signer *sec.FieldSigner
	ttl    time.Duration
}

// NewCodec creates a [Codec] whose fields live for [constants.SessionTTL].
func NewCodec(signer *sec.FieldSigner) *Codec {
	return &Codec{signer: signer, ttl: constants.SessionTTL}
}

// TTL returns the lifetime given to every written field.
func (codec *Codec) TTL() time.Duration { return codec.ttl }

// Names returns the transport field names the codec reads and writes.
func (codec *Codec) Names() []string {
	names := make([]string, len(fieldNames))
	copy(names, fieldNames[:])
	return names
}

/*
Encode renders s as a full field set, each expiring ttl after now.

The output always covers every codec field: a Normal session emits a
deletion for the anchor field so that a stale anchor cannot survive a
role change. The only failure is a signer error.
*/
func (codec *Codec) Encode(s Session, now time.Time) ([]Field, error) {
	if s.IsZero() {
		return nil, ErrInvalidSession
	}

	rolesJSON, err := json.Marshal(s.AvailableRoles())
	if err != nil {
		return nil, fmt.Errorf("session: encode available roles: %w", err)
	}

	values := map[string]string{
		constants.CookieUserEmail:      s.Email(),
		constants.CookieUserRole:       string(s.ActiveRole()),
		constants.CookieAvailableRoles: string(rolesJSON),
	}
	if anchor, ok := s.Anchor(); ok {
		values[constants.CookieOriginalRole] = string(anchor)
	}

	expiresAt := now.Add(codec.ttl)
	fields := make([]Field, 0, len(fieldNames))

	for _, name := range fieldNames {
		raw, present := values[name]
		if !present {
			fields = append(fields, deletion(name))
			continue
		}

		signed, err := codec.signer.Sign(name, raw, now, expiresAt)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Value: signed, ExpiresAt: expiresAt})
	}

	return fields, nil
}

// Deletions returns the field set that removes every session field.
func (codec *Codec) Deletions() []Field {
	fields := make([]Field, 0, len(fieldNames))
	for _, name := range fieldNames {
		fields = append(fields, deletion(name))
	}
	return fields
}

/*
Decode rebuilds a session from transport values.

It never returns an error: a missing, expired, tampered or malformed field
yields (Session{}, false), the same result as an anonymous request. A present
but unverifiable anchor also yields false, so a damaged impersonation session
degrades to anonymous rather than to some other role.
*/
func (codec *Codec) Decode(lookup Lookup, now time.Time) (Session, bool) {
	email, ok := codec.verified(lookup, constants.CookieUserEmail, now)
	if !ok {
		return Session{}, false
	}

	rawRole, ok := codec.verified(lookup, constants.CookieUserRole, now)
	if !ok {
		return Session{}, false
	}

	rawRoles, ok := codec.verified(lookup, constants.CookieAvailableRoles, now)
	if !ok {
		return Session{}, false
	}

	active, err := sec.ParseRole(rawRole)
	if err != nil {
		return Session{}, false
	}

	var available sec.RoleSet
	if err := json.Unmarshal([]byte(rawRoles), &available); err != nil {
		return Session{}, false
	}

	impersonating := false
	if raw, present := lookup(constants.CookieOriginalRole); present && raw != "" {
		anchor, err := codec.signer.Verify(constants.CookieOriginalRole, raw, now)
		if err != nil || sec.Role(anchor) != sec.RoleAdmin {
			return Session{}, false
		}
		impersonating = true
	}

	var decoded Session
	if impersonating {
		decoded, err = Impersonating(email, active, available)
	} else {
		decoded, err = Normal(email, active, available)
	}
	if err != nil {
		return Session{}, false
	}

	return decoded, true
}

// IssuedAt reports when the session cookies were last written, read from the
// verified email field. A missing or invalid field yields false.
func (codec *Codec) IssuedAt(lookup Lookup, now time.Time) (time.Time, bool) {
	raw, present := lookup(constants.CookieUserEmail)
	if !present || raw == "" {
		return time.Time{}, false
	}
	claims, err := codec.signer.VerifyClaims(constants.CookieUserEmail, raw, now)
	if err != nil || claims.IssuedAt == nil {
		return time.Time{}, false
	}
	return claims.IssuedAt.Time, true
}

func (codec *Codec) verified(lookup Lookup, name string, now time.Time) (string, bool) {
	raw, present := lookup(name)
	if !present || raw == "" {
		return "", false
	}
	value, err := codec.signer.Verify(name, raw, now)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func deletion(name string) Field {
	return Field{Name: name, Value: "", ExpiresAt: time.Unix(0, 0)}
}
