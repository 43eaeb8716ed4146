package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/socialcore/socialcore/internal/social/domain"
	"github.com/socialcore/socialcore/internal/social/store"
	"github.com/socialcore/socialcore/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrMFAAlreadyEnabled = errors.New("MFA already enabled for this user")
	ErrMFANotEnrolled    = errors.New("MFA not enrolled for this user")
)

type MFAService struct {
	Store  store.Store
	Issuer string // issuer label shown in authenticator apps
}

// EnrollTOTP generates a TOTP secret for the user and stores it without
// activating the factor. The user must verify a code before it counts at
// login.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string) (domain.MFAEnrollment, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollment{}, err
	}
	if u.HasMFA() {
		return domain.MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("generate TOTP key: %w", err)
	}

	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("store MFA secret: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: u.Email,
	}, nil
}

// ActivateTOTP verifies a code against the enrolled secret and activates the
// factor. From then on login requires a TOTP code.
func (s *MFAService) ActivateTOTP(ctx context.Context, userID, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if u.HasMFA() {
		return ErrMFAAlreadyEnabled
	}
	if !validTOTP(code, *u.MFASecret) {
		return ErrInvalidOTP
	}

	if err := s.Store.Users().EnableMFA(ctx, userID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("TOTP factor activated", "user_id", userID)
	return nil
}

// DisableTOTP removes the TOTP factor. A valid current code is required so a
// stolen session alone cannot weaken the account.
func (s *MFAService) DisableTOTP(ctx context.Context, userID, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.HasMFA() {
		return ErrMFANotEnrolled
	}
	if !validTOTP(code, *u.MFASecret) {
		return ErrInvalidOTP
	}

	if err := s.Store.Users().DisableMFA(ctx, userID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("TOTP factor disabled", "user_id", userID)
	return nil
}

func validTOTP(code, secret string) bool {
	return totp.Validate(code, secret)
}
