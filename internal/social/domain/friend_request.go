package domain

import "time"

// FriendRequestStatus is the lifecycle state of a friend request.
// Pending is the only non-terminal state.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// Valid reports whether s is a known status value.
func (s FriendRequestStatus) Valid() bool {
	switch s {
	case FriendRequestPending, FriendRequestAccepted, FriendRequestRejected:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s FriendRequestStatus) Terminal() bool {
	return s == FriendRequestAccepted || s == FriendRequestRejected
}

// FriendRequest is a directed proposal from one user to another. Friendship
// itself is never stored; it is derived from accepted requests in either
// direction.
type FriendRequest struct {
	ID        string
	FromUser  string // sender user id
	ToUser    string // recipient user id
	Status    FriendRequestStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FriendRequestDetail is a request expanded with both parties' directory
// records, for list responses.
type FriendRequestDetail struct {
	FriendRequest

	From User
	To   User
}
