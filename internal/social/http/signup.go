package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// SignupHandler creates new user accounts.
type SignupHandler struct {
	UserService *service.UserService
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ServeHTTP handles POST /signup
//
//	@Summary		Register a new user
//	@Description	Creates a user account. Email is unique, compared case-insensitively.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		signupRequest	true	"Signup payload"
//	@Success		201		{object}	DetailResponse	"User created successfully"
//	@Failure		400		{object}	ErrorResponse	"Validation failure"
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	_, err := h.UserService.Signup(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, DetailResponse{Detail: "User created successfully"})
	case errors.Is(err, service.ErrInvalidEmail):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Enter a valid email address."})
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "This password is too short. It must contain at least 8 characters."})
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "A user with this email already exists."})
	default:
		log.Error("signup failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}
