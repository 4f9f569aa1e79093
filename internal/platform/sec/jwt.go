// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, role tags and token signing.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, field signing) from
// the domain logic. The session codec depends on it through the [FieldSigner]
// type so that cookies never carry an unsigned value.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the smallest HMAC key accepted for field signing.
const minSecretLength = 32

// ErrWeakSecret is returned when the signing key is shorter than 32 bytes.
var ErrWeakSecret = errors.New("sec: signing secret must be at least 32 bytes")

// FieldClaims is the payload of a single signed session field.
//
// # Why per-field tokens?
//
// Each session field travels in its own cookie with its own expiry. Binding
// the field name into the subject means a value lifted from one cookie can
// not be replayed into another.
type FieldClaims struct {
	jwt.RegisteredClaims

	// Value is the raw field content, kept short to fit cookie limits.
	Value string `json:"v"`
}

// FieldSigner signs and verifies session field values with HS256.
type FieldSigner struct {
	secret []byte
	issuer string
}

// NewFieldSigner creates a [FieldSigner] for the given secret and issuer.
func NewFieldSigner(secret, issuer string) (*FieldSigner, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	return &FieldSigner{secret: []byte(secret), issuer: issuer}, nil
}

// Sign produces a compact token for one field. The output is deterministic
// for identical inputs.
func (signer *FieldSigner) Sign(field, value string, issuedAt, expiresAt time.Time) (string, error) {
	claims := FieldClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   field,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Value: value,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign field %s: %w", field, err)
	}

	return signed, nil
}

// Verify checks signature, issuer, subject and expiry (relative to now) and
// returns the field value.
func (signer *FieldSigner) Verify(field, token string, now time.Time) (string, error) {
	claims, err := signer.VerifyClaims(field, token, now)
	if err != nil {
		return "", err
	}
	return claims.Value, nil
}

// VerifyClaims is [FieldSigner.Verify] returning the full claim set, so
// callers can read when the field was issued.
func (signer *FieldSigner) VerifyClaims(field, token string, now time.Time) (*FieldClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &FieldClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signer.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(signer.issuer),
		jwt.WithSubject(field),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid field %s: %w", field, err)
	}

	claims, ok := parsed.Claims.(*FieldClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("sec: invalid claims for field %s", field)
	}

	return claims, nil
}
