// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/castly/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newSigner(t *testing.T) *sec.FieldSigner {
	t.Helper()
	signer, err := sec.NewFieldSigner(testSecret, "castly.test")
	require.NoError(t, err)
	return signer
}

/*
TestNewFieldSigner_WeakSecret rejects short keys at construction.
*/
func TestNewFieldSigner_WeakSecret(t *testing.T) {
	_, err := sec.NewFieldSigner("short", "castly.test")
	assert.ErrorIs(t, err, sec.ErrWeakSecret)
}

/*
TestFieldSigner_RoundTrip signs and verifies a value within its lifetime.
*/
func TestFieldSigner_RoundTrip(t *testing.T) {
	signer := newSigner(t)
	now := time.Unix(1_800_000_000, 0)

	token, err := signer.Sign("user_role", "creator", now, now.Add(time.Hour))
	require.NoError(t, err)

	again, err := signer.Sign("user_role", "creator", now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, token, again, "signing must be deterministic")

	value, err := signer.Verify("user_role", token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "creator", value)
}

/*
TestFieldSigner_VerifyClaims exposes the issue time of a verified field.
*/
func TestFieldSigner_VerifyClaims(t *testing.T) {
	signer := newSigner(t)
	now := time.Unix(1_800_000_000, 0)

	token, err := signer.Sign("user_email", "a@b.co", now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := signer.VerifyClaims("user_email", token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", claims.Value)
	require.NotNil(t, claims.IssuedAt)
	assert.True(t, claims.IssuedAt.Time.Equal(now))

	_, err = signer.VerifyClaims("user_role", token, now)
	assert.Error(t, err)
}

/*
TestFieldSigner_Rejections covers expiry, subject swap, issuer and key mismatch.
*/
func TestFieldSigner_Rejections(t *testing.T) {
	signer := newSigner(t)
	now := time.Unix(1_800_000_000, 0)

	token, err := signer.Sign("user_role", "admin", now, now.Add(time.Hour))
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		_, err := signer.Verify("user_role", token, now.Add(2*time.Hour))
		assert.Error(t, err)
	})

	t.Run("moved_to_other_field", func(t *testing.T) {
		_, err := signer.Verify("original_role", token, now)
		assert.Error(t, err)
	})

	t.Run("other_issuer", func(t *testing.T) {
		other, err := sec.NewFieldSigner(testSecret, "elsewhere")
		require.NoError(t, err)
		_, err = other.Verify("user_role", token, now)
		assert.Error(t, err)
	})

	t.Run("other_key", func(t *testing.T) {
		other, err := sec.NewFieldSigner("ffffffffffffffffffffffffffffffff", "castly.test")
		require.NoError(t, err)
		_, err = other.Verify("user_role", token, now)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.Verify("user_role", "not-a-token", now)
		assert.Error(t, err)
	})
}
