package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// RefreshHandler rotates refresh tokens.
type RefreshHandler struct {
	TokenService *service.TokenService
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// ServeHTTP handles POST /token/refresh
//
//	@Summary		Refresh tokens
//	@Description	Exchanges a valid refresh token for a new pair. The presented token is revoked; reuse is rejected.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refreshRequest		true	"Refresh payload"
//	@Success		200		{object}	domain.TokenPair	"new refresh and access tokens"
//	@Failure		401		{object}	ErrorResponse		"Invalid or expired refresh token"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/token/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	pair, err := h.TokenService.Refresh(ctx, req.Refresh)
	switch {
	case err == nil:
		httpx.NoCache(w)
		httpx.WriteJSON(w, http.StatusOK, pair)
	case errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Token is invalid or expired"})
	default:
		log.Error("token refresh failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}
