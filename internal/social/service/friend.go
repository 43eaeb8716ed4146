package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/socialcore/socialcore/internal/social/domain"
	"github.com/socialcore/socialcore/internal/social/store"
	"github.com/socialcore/socialcore/pkg/idx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

// Sliding-window send limit: at most maxSendPerWindow requests per sender in
// any sendRateWindow, counted from stored rows regardless of their current
// status.
const (
	sendRateWindow   = time.Minute
	maxSendPerWindow = 3
)

var (
	ErrSelfRequest      = errors.New("cannot send a friend request to yourself")
	ErrDuplicateRequest = errors.New("friend request already pending for this pair")
	ErrRateLimited      = errors.New("friend request rate limit exceeded")
	ErrUnknownRecipient = errors.New("recipient does not exist")
	ErrRequestNotFound  = errors.New("friend request not found or already acted upon")
	ErrNotRecipient     = errors.New("only the recipient may act on a friend request")
	ErrInvalidStatus    = errors.New("invalid friend request status")
)

// FriendService owns the friend-request lifecycle: sending with duplicate and
// rate guards, recipient-only resolution, and the derived friend list.
type FriendService struct {
	Store store.Store
}

// Send creates a pending friend request from fromUser to toUser.
//
// All checks and the insert run in one transaction so concurrent sends cannot
// slip past the duplicate or rate guard; the partial unique index on pending
// pairs backs the duplicate check at the schema level as well.
func (s *FriendService) Send(ctx context.Context, fromUser, toUser string) (domain.FriendRequest, error) {
	now := time.Now().UTC()
	l := slogx.FromContext(ctx)

	// 1. A user cannot befriend themselves
	if toUser == fromUser {
		return domain.FriendRequest{}, ErrSelfRequest
	}

	fr := domain.FriendRequest{
		ID:        idx.New().String(),
		FromUser:  fromUser,
		ToUser:    toUser,
		Status:    domain.FriendRequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. The recipient must exist
		if _, err := tx.Users().GetUserByID(ctx, toUser); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUnknownRecipient
			}
			return err
		}

		// 3. At most one pending request per ordered pair
		pending, err := tx.FriendRequests().HasPendingBetween(ctx, fromUser, toUser)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicateRequest
		}

		// 4. Sliding-window rate limit over stored rows. Resolved requests
		// still count; only time moves the window.
		sent, err := tx.FriendRequests().CountSentSince(ctx, fromUser, now.Add(-sendRateWindow))
		if err != nil {
			return err
		}
		if sent >= maxSendPerWindow {
			return ErrRateLimited
		}

		// 5. Insert. A unique-index violation means a concurrent send won
		// the race between the check above and here.
		if err := tx.FriendRequests().CreateFriendRequest(ctx, fr); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateRequest
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.FriendRequest{}, err
	}

	l.Info("friend request sent", "request_id", fr.ID, "from_user", fromUser, "to_user", toUser)
	return fr, nil
}

// Resolve moves a pending request to accepted or rejected. Only the recipient
// may resolve, and only while the request is still pending; both outcomes are
// terminal.
func (s *FriendService) Resolve(ctx context.Context, requestID, userID string, status domain.FriendRequestStatus) error {
	l := slogx.FromContext(ctx)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Load while pending; resolved or unknown ids are the same error
		fr, err := tx.FriendRequests().GetPendingByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		// 2. Recipient-only. Checked before the decision value so a sender
		// probing their own request always sees forbidden.
		if fr.ToUser != userID {
			return ErrNotRecipient
		}

		// 3. Only the two terminal states are valid targets
		if !status.Valid() || !status.Terminal() {
			return ErrInvalidStatus
		}

		// 4. Conditional update guards against a concurrent resolve that
		// committed between the read above and here.
		ok, err := tx.FriendRequests().ResolveIfPending(ctx, requestID, status)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRequestNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("friend request resolved", "request_id", requestID, "status", string(status))
	return nil
}

// ListFriends returns the users the given user is friends with. Friendship is
// derived from accepted requests in either direction and deduplicated, so two
// accepted requests between the same pair still yield one friend.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	accepted, err := s.Store.FriendRequests().ListAcceptedInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var ids []string
	for _, fr := range accepted {
		other := fr.FromUser
		if other == userID {
			other = fr.ToUser
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		ids = append(ids, other)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	return s.Store.Users().GetUsersByIDs(ctx, ids)
}

// ListPending returns the pending requests addressed to the given user,
// expanded with both parties and ordered by creation time.
func (s *FriendService) ListPending(ctx context.Context, userID string) ([]domain.FriendRequestDetail, error) {
	return s.Store.FriendRequests().ListPendingFor(ctx, userID)
}
