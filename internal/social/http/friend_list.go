package http

import (
	"net/http"

	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// FriendListHandler lists friends or incoming pending requests.
type FriendListHandler struct {
	FriendService *service.FriendService
}

// ServeHTTP handles GET /friend-request/list
//
//	@Summary		List friends or pending requests
//	@Description	With status=accepted (the default) returns the user's friends, derived from accepted requests in either direction and deduplicated. With status=pending returns incoming pending requests with both parties' identities. An empty result is reported as 404.
//	@Tags			Friends
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string	false	"accepted or pending"	default(accepted)
//	@Success		200		{array}		UserResponse	"Friends (or PendingRequestResponse items for status=pending)"
//	@Failure		400		{object}	MessageResponse	"Invalid status parameter."
//	@Failure		401		{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		404		{object}	MessageResponse	"No friends / pending requests found."
//	@Failure		500		{object}	ErrorResponse	"Internal server error"
//	@Router			/friend-request/list [get].
func (h *FriendListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Authentication required."})
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = "accepted"
	}

	switch status {
	case "accepted":
		friends, err := h.FriendService.ListFriends(ctx, userID)
		if err != nil {
			log.Error("friend list failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
			return
		}
		if len(friends) == 0 {
			httpx.WriteJSON(w, http.StatusNotFound, MessageResponse{Message: "No friends found."})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toUserResponses(friends))

	case "pending":
		pending, err := h.FriendService.ListPending(ctx, userID)
		if err != nil {
			log.Error("pending list failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
			return
		}
		if len(pending) == 0 {
			httpx.WriteJSON(w, http.StatusNotFound, MessageResponse{Message: "No pending requests found."})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPendingRequestResponses(pending))

	default:
		httpx.WriteJSON(w, http.StatusBadRequest, MessageResponse{Message: "Invalid status parameter."})
	}
}
