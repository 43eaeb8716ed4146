package http

import (
	"time"

	"github.com/socialcore/socialcore/internal/social/domain"
)

// ErrorResponse is the generic error body: `{"error": "..."}`.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the `{"message": "..."}` body used by the friend-request
// action and list endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse is the `{"detail": "..."}` body used by signup and pagination
// errors.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// UserResponse is the public directory view of a user.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func toUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// FriendRequestResponse is a created friend request.
type FriendRequestResponse struct {
	ID        string    `json:"id"`
	FromUser  string    `json:"from_user"`
	ToUser    string    `json:"to_user"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toFriendRequestResponse(fr domain.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:        fr.ID,
		FromUser:  fr.FromUser,
		ToUser:    fr.ToUser,
		Status:    string(fr.Status),
		CreatedAt: fr.CreatedAt,
	}
}

// PendingRequestResponse is a pending friend request expanded with both
// parties' identities.
type PendingRequestResponse struct {
	ID        string       `json:"id"`
	FromUser  UserResponse `json:"from_user"`
	ToUser    UserResponse `json:"to_user"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

func toPendingRequestResponses(details []domain.FriendRequestDetail) []PendingRequestResponse {
	out := make([]PendingRequestResponse, 0, len(details))
	for _, d := range details {
		out = append(out, PendingRequestResponse{
			ID:        d.ID,
			FromUser:  toUserResponse(d.From),
			ToUser:    toUserResponse(d.To),
			Status:    string(d.Status),
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}

// PageResponse is the pagination envelope for search results.
type PageResponse struct {
	Count    int64          `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []UserResponse `json:"results"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
