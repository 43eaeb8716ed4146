package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/socialcore/socialcore/internal/social/domain"
	"github.com/socialcore/socialcore/internal/social/service"
	"github.com/socialcore/socialcore/pkg/httpx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// FriendActionHandler accepts or rejects pending friend requests.
type FriendActionHandler struct {
	FriendService *service.FriendService
}

type friendActionRequest struct {
	Status string `json:"status"`
}

// ServeHTTP handles PATCH /friend-request/action/{id}
//
//	@Summary		Accept or reject a friend request
//	@Description	Resolves a pending friend request. Only the recipient may act, and both outcomes are final. Accepts JSON or form bodies.
//	@Tags			Friends
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Friend request id"
//	@Param			request	body		friendActionRequest	true	"accepted or rejected"
//	@Success		200		{object}	MessageResponse		"Friend request accepted/rejected successfully."
//	@Failure		400		{object}	ErrorResponse		"Invalid status value"
//	@Failure		401		{object}	ErrorResponse		"Invalid or missing access token"
//	@Failure		403		{object}	ErrorResponse		"Acting user is not the recipient"
//	@Failure		404		{object}	ErrorResponse		"Not found or already acted upon"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/friend-request/action/{id} [patch].
func (h *FriendActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Authentication required."})
		return
	}

	requestID := r.PathValue("id")
	status, ok := decodeActionStatus(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body."})
		return
	}

	err := h.FriendService.Resolve(ctx, requestID, userID, domain.FriendRequestStatus(status))
	switch {
	case err == nil:
		httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Friend request " + status + " successfully."})
	case errors.Is(err, service.ErrRequestNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: "Friend request not found or already acted upon."})
	case errors.Is(err, service.ErrNotRecipient):
		httpx.WriteJSON(w, http.StatusForbidden, ErrorResponse{Error: "You do not have permission to perform this action."})
	case errors.Is(err, service.ErrInvalidStatus):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: `"` + status + `" is not a valid choice.`})
	default:
		log.Error("friend request action failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error."})
	}
}

// decodeActionStatus reads the desired status from a JSON body or, for form
// submissions, from the status form field.
func decodeActionStatus(r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", false
		}
		return r.FormValue("status"), true
	}

	var req friendActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", false
	}
	return req.Status, true
}
