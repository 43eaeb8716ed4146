package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// FriendSendHandler creates friend requests.
type FriendSendHandler struct {
	FriendService *service.FriendService
}

type friendSendRequest struct {
	ToUser string `json:"to_user"`
}

// ServeHTTP handles POST /friend-request/send
//
//	@Summary		Send a friend request
//	@Description	Sends a pending friend request to another user. At most one pending request per (sender, recipient) pair, and at most 3 sends per minute per sender.
//	@Tags			Friends
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		friendSendRequest		true	"Recipient"
//	@Success		201		{object}	FriendRequestResponse	"Created request"
//	@Failure		400		{object}	ErrorResponse			"Self request, duplicate, unknown recipient or rate limit"
//	@Failure		401		{object}	ErrorResponse			"Invalid or missing access token"
//	@Failure		500		{object}	ErrorResponse			"Internal server error"
//	@Router			/friend-request/send [post].
func (h *FriendSendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Authentication required."})
		return
	}

	var req friendSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToUser == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	fr, err := h.FriendService.Send(ctx, userID, req.ToUser)
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusCreated, toFriendRequestResponse(fr))
	case errors.Is(err, service.ErrSelfRequest):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Cannot send a friend request to yourself."})
	case errors.Is(err, service.ErrDuplicateRequest):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Friend request already sent to this user."})
	case errors.Is(err, service.ErrUnknownRecipient):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "User does not exist."})
	case errors.Is(err, service.ErrRateLimited):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "You can only send up to 3 friend requests per minute."})
	default:
		log.Error("friend request send failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}
