package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// MFAHandler manages the optional TOTP login factor.
type MFAHandler struct {
	MFAService *service.MFAService
}

type mfaCodeRequest struct {
	OTP string `json:"otp"`
}

// HandleEnroll handles POST /mfa/totp/enroll
//
//	@Summary		Enroll in TOTP
//	@Description	Generates a TOTP secret for the authenticated user. The factor stays inactive until a code is verified.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	domain.MFAEnrollment	"Secret and otpauth URL"
//	@Failure		400	{object}	ErrorResponse			"Already enabled"
//	@Failure		401	{object}	ErrorResponse			"Invalid or missing access token"
//	@Failure		500	{object}	ErrorResponse			"Internal server error"
//	@Router			/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Authentication required."})
		return
	}

	enrollment, err := h.MFAService.EnrollTOTP(ctx, userID)
	switch {
	case err == nil:
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, enrollment)
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "MFA is already enabled."})
	default:
		log.Error("TOTP enrollment failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}

// HandleVerify handles POST /mfa/totp/verify
//
//	@Summary		Verify TOTP enrollment
//	@Description	Verifies a code from the authenticator app and activates the factor. From then on login requires a code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfaCodeRequest	true	"Current TOTP code"
//	@Success		200		{object}	DetailResponse	"TOTP enabled"
//	@Failure		400		{object}	ErrorResponse	"Invalid code, not enrolled, or already enabled"
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.resolveWithCode(w, r, h.MFAService.ActivateTOTP, "TOTP enabled")
}

// HandleDisable handles DELETE /mfa/totp
//
//	@Summary		Disable TOTP
//	@Description	Removes the TOTP factor. A valid current code is required.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		mfaCodeRequest	true	"Current TOTP code"
//	@Success		200		{object}	DetailResponse	"TOTP disabled"
//	@Failure		400		{object}	ErrorResponse	"Invalid code or not enrolled"
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.resolveWithCode(w, r, h.MFAService.DisableTOTP, "TOTP disabled")
}

// resolveWithCode is shared by verify and disable: both take the current TOTP
// code and report success with a detail message.
func (h *MFAHandler) resolveWithCode(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, userID, code string) error,
	okDetail string,
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Authentication required."})
		return
	}

	var req mfaCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OTP == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	err := fn(ctx, userID, req.OTP)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, DetailResponse{Detail: okDetail})
	case errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "MFA is not enrolled."})
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "MFA is already enabled."})
	case errors.Is(err, service.ErrInvalidOTP):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid OTP code"})
	default:
		log.Error("MFA operation failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}
