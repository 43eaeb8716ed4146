package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/socialcore/socialcore/internal/social/domain"
	"github.com/socialcore/socialcore/internal/social/store"
	"github.com/socialcore/socialcore/pkg/cryptox"
	"github.com/socialcore/socialcore/pkg/idx"
	"github.com/socialcore/socialcore/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://auth.test"

func newTestSigner(t *testing.T) jwtx.Signer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", priv)
	require.NoError(t, err)
	return signer
}

func newTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	return &TokenService{
		Store:      st,
		Signer:     newTestSigner(t),
		Issuer:     testIssuer,
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
}

func mustSignup(t *testing.T, st store.Store, email, password string) domain.User {
	t.Helper()

	users := &UserService{Store: st}
	u, err := users.Signup(context.Background(), email, password, "Test", "User")
	require.NoError(t, err)
	return u
}

func verifyAccessToken(t *testing.T, signer jwtx.Signer, token string) jwtx.Claims {
	t.Helper()

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, testIssuer)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	return claims
}

func TestTokenServiceLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("issues a pair for valid credentials", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		u := mustSignup(t, st, "alice@example.com", "correct horse battery")

		pair, err := svc.Login(ctx, "alice@example.com", "correct horse battery", "")
		require.NoError(t, err)
		require.NotEmpty(t, pair.Refresh)
		require.NotEmpty(t, pair.Access)

		claims := verifyAccessToken(t, svc.Signer, pair.Access)
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, u.Email, claims.Email)
	})

	t.Run("email comparison ignores case", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		mustSignup(t, st, "alice@example.com", "correct horse battery")

		_, err := svc.Login(ctx, "Alice@Example.COM", "correct horse battery", "")
		require.NoError(t, err)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		mustSignup(t, st, "alice@example.com", "correct horse battery")

		_, err := svc.Login(ctx, "alice@example.com", "wrong password!", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails identically", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)

		_, err := svc.Login(ctx, "nobody@example.com", "whatever password", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("refresh token fingerprint is persisted, not the token", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		u := mustSignup(t, st, "alice@example.com", "correct horse battery")

		pair, err := svc.Login(ctx, "alice@example.com", "correct horse battery", "")
		require.NoError(t, err)

		rt, err := st.RefreshTokens().GetActiveRefreshTokenByHash(ctx, cryptox.FingerprintToken(pair.Refresh))
		require.NoError(t, err)
		require.Equal(t, u.ID, rt.UserID)
		require.NotEqual(t, pair.Refresh, rt.TokenHash)
	})
}

func TestTokenServiceLoginWithTOTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (store.Store, *TokenService, string) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		u := mustSignup(t, st, "alice@example.com", "correct horse battery")

		mfa := &MFAService{Store: st, Issuer: "SocialCore"}
		enrollment, err := mfa.EnrollTOTP(ctx, u.ID)
		require.NoError(t, err)

		code, err := totp.GenerateCode(enrollment.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, mfa.ActivateTOTP(ctx, u.ID, code))

		return st, svc, enrollment.Secret
	}

	t.Run("missing code is rejected", func(t *testing.T) {
		_, svc, _ := setup(t)

		_, err := svc.Login(ctx, "alice@example.com", "correct horse battery", "")
		require.ErrorIs(t, err, ErrMFARequired)
	})

	t.Run("bad code is rejected", func(t *testing.T) {
		_, svc, _ := setup(t)

		_, err := svc.Login(ctx, "alice@example.com", "correct horse battery", "000000")
		require.ErrorIs(t, err, ErrInvalidOTP)
	})

	t.Run("valid code issues a pair", func(t *testing.T) {
		_, svc, secret := setup(t)

		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)

		pair, err := svc.Login(ctx, "alice@example.com", "correct horse battery", code)
		require.NoError(t, err)
		require.NotEmpty(t, pair.Access)
	})
}

func TestTokenServiceRefresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rotates the refresh token", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		u := mustSignup(t, st, "alice@example.com", "correct horse battery")

		pair, err := svc.Login(ctx, "alice@example.com", "correct horse battery", "")
		require.NoError(t, err)

		next, err := svc.Refresh(ctx, pair.Refresh)
		require.NoError(t, err)
		require.NotEmpty(t, next.Access)
		require.NotEqual(t, pair.Refresh, next.Refresh)

		claims := verifyAccessToken(t, svc.Signer, next.Access)
		require.Equal(t, u.ID, claims.Subject)
	})

	t.Run("a rotated token cannot be reused", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		mustSignup(t, st, "alice@example.com", "correct horse battery")

		pair, err := svc.Login(ctx, "alice@example.com", "correct horse battery", "")
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, pair.Refresh)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, pair.Refresh)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)

		_, err := svc.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("expired tokens are rejected", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		u := mustSignup(t, st, "alice@example.com", "correct horse battery")

		opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)

		now := time.Now().UTC()
		rt := domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: cryptox.FingerprintToken(opaque),
			ExpiresAt: now.Add(-time.Hour),
			CreatedAt: now.Add(-2 * time.Hour),
			UpdatedAt: now.Add(-2 * time.Hour),
		}
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, rt))

		_, err = svc.Refresh(ctx, opaque)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("revoked tokens are rejected", func(t *testing.T) {
		st := newTestStore(t)
		svc := newTokenService(t, st)
		mustSignup(t, st, "alice@example.com", "correct horse battery")

		pair, err := svc.Login(ctx, "alice@example.com", "correct horse battery", "")
		require.NoError(t, err)

		require.NoError(t, svc.RevokeRefreshToken(ctx, pair.Refresh))

		_, err = svc.Refresh(ctx, pair.Refresh)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestMFAServiceLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mfa := &MFAService{Store: st, Issuer: "SocialCore"}
	u := mustSignup(t, st, "alice@example.com", "correct horse battery")

	// Activation before enrollment fails
	err := mfa.ActivateTOTP(ctx, u.ID, "123456")
	require.ErrorIs(t, err, ErrMFANotEnrolled)

	enrollment, err := mfa.EnrollTOTP(ctx, u.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URL, "otpauth://totp/")

	// Enrollment alone does not activate the factor
	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.HasMFA())

	// Wrong code does not activate
	err = mfa.ActivateTOTP(ctx, u.ID, "000000")
	require.ErrorIs(t, err, ErrInvalidOTP)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, mfa.ActivateTOTP(ctx, u.ID, code))

	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.HasMFA())

	// Re-enrollment while active is rejected
	_, err = mfa.EnrollTOTP(ctx, u.ID)
	require.ErrorIs(t, err, ErrMFAAlreadyEnabled)

	// Disable requires a valid current code
	err = mfa.DisableTOTP(ctx, u.ID, "000000")
	require.ErrorIs(t, err, ErrInvalidOTP)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, mfa.DisableTOTP(ctx, u.ID, code))

	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.HasMFA())
	require.Nil(t, got.MFASecret)
}
