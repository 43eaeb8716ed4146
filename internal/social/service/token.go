package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/socialcore/socialcore/internal/social/domain"
	"github.com/socialcore/socialcore/internal/social/store"
	"github.com/socialcore/socialcore/pkg/cryptox"
	"github.com/socialcore/socialcore/pkg/idx"
	"github.com/socialcore/socialcore/pkg/jwtx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrMFARequired        = errors.New("mfa_required")
	ErrInvalidOTP         = errors.New("invalid_otp")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

type TokenService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login verifies the user's credentials and issues a token pair. Users with an
// active TOTP factor must also supply a valid one-time code.
func (s *TokenService) Login(ctx context.Context, email, password, otpCode string) (domain.TokenPair, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	// 1. Look the user up; unknown emails fail the same way as bad passwords
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}
	if !u.IsActive {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	// 2. Verify the password
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login password verification failed", "user_id", u.ID)
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	// 3. Enforce the TOTP factor when enabled
	if u.HasMFA() {
		if otpCode == "" {
			return domain.TokenPair{}, ErrMFARequired
		}
		if !validTOTP(otpCode, *u.MFASecret) {
			l.Info("login TOTP verification failed", "user_id", u.ID)
			return domain.TokenPair{}, ErrInvalidOTP
		}
	}

	// 4. Issue the pair
	pair, err := s.issuePair(ctx, u, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("user logged in", "user_id", u.ID)
	return pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued in its place.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (domain.TokenPair, error) {
	now := time.Now().UTC()

	// 1. Look the persisted record up by fingerprint
	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetActiveRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}

	// 2. The query already filters revoked/expired rows; re-check anyway
	if rt.Revoked || now.After(rt.ExpiresAt) {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	// 3. The user must still exist and be active
	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}
	if !u.IsActive {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	// 4. Rotate: revoke the old token and persist the new one atomically
	accessToken, err := s.signAccess(u, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	newRT := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(newOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Lost a race with a concurrent refresh of the same token.
				return ErrInvalidRefresh
			}
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, newRT)
	}); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{Refresh: newOpaque, Access: accessToken}, nil
}

// RevokeRefreshToken revokes a single refresh token by its opaque value.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(refreshOpaque)
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
}

func (s *TokenService) issuePair(ctx context.Context, u domain.User, now time.Time) (domain.TokenPair, error) {
	accessToken, err := s.signAccess(u, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{Refresh: refreshOpaque, Access: accessToken}, nil
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Email, s.Issuer, s.AccessTTL, now)
	return s.Signer.Sign(claims)
}
