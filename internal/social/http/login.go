package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// LoginHandler verifies credentials and issues token pairs.
type LoginHandler struct {
	TokenService *service.TokenService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

// ServeHTTP handles POST /login
//
//	@Summary		Log in
//	@Description	Verifies email and password (plus a TOTP code when the user has MFA enabled) and returns a refresh/access token pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest		true	"Login payload"
//	@Success		200		{object}	domain.TokenPair	"refresh and access tokens"
//	@Failure		400		{object}	ErrorResponse		"Invalid credentials or OTP"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	pair, err := h.TokenService.Login(ctx, req.Email, req.Password, req.OTP)
	switch {
	case err == nil:
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, pair)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, service.ErrMFARequired):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "OTP code required"})
	case errors.Is(err, service.ErrInvalidOTP):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid OTP code"})
	default:
		log.Error("login failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}
