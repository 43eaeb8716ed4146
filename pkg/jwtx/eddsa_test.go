package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, kid string) *EdDSASigner {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	s, err := NewSignerEdDSA(kid, priv)
	require.NoError(t, err)
	return s
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := NewVerifierEdDSA(keys, "socialcore")

	claims := NewAccessClaims("user-123", "alice@example.com", "socialcore", time.Minute, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "socialcore", got.Issuer)
}

func TestVerifyRejectsUnknownKid(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-a")
	other := newTestSigner(t, "key-b")

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(other))
	verifier := NewVerifierEdDSA(keys, "")

	token, err := signer.Sign(NewAccessClaims("u", "", "", time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := NewVerifierEdDSA(keys, "")

	stale := NewAccessClaims("u", "", "", time.Minute, time.Now().Add(-time.Hour))
	token, err := signer.Sign(stale)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := NewVerifierEdDSA(keys, "expected-issuer")

	token, err := signer.Sign(NewAccessClaims("u", "", "some-other-issuer", time.Minute, time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestKeySetReadiness(t *testing.T) {
	t.Parallel()

	keys := NewKeySet()
	require.False(t, keys.IsReady())

	require.NoError(t, keys.AddSigner(newTestSigner(t, "k")))
	require.True(t, keys.IsReady())
	require.Len(t, keys.PublicJWKS().Keys, 1)

	_, err := keys.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)
}
