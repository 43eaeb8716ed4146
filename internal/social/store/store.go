package store

import (
	"context"
	"errors"
	"time"

	"github.com/socialcore/socialcore/internal/social/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and individually
// mockable.
type Store interface {
	Users() Users
	FriendRequests() FriendRequests
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit() or Rollback().
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise. Preferred over Tx for most callers.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying resources.
	Close() error

	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken, compared
	// case-insensitively.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by email, case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUsersByIDs returns the users for the given ids, in id order.
	// Missing ids are silently skipped.
	GetUsersByIDs(ctx context.Context, ids []string) ([]domain.User, error)

	// SearchUsers returns active users whose email, first name or last
	// name contains keyword (case-insensitive substring), ordered by id.
	SearchUsers(ctx context.Context, keyword string, limit, offset int) ([]domain.User, error)

	// CountSearchUsers returns the total match count for the same
	// predicate, for pagination envelopes.
	CountSearchUsers(ctx context.Context, keyword string) (int64, error)

	// UpdateMFASecret stores the TOTP secret without activating it.
	UpdateMFASecret(ctx context.Context, userID, secret string) error

	// EnableMFA stamps mfa_enabled, activating the TOTP factor.
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA clears both the secret and the enabled stamp.
	DisableMFA(ctx context.Context, userID string) error
}

type FriendRequests interface {
	// CreateFriendRequest inserts a new request. The partial unique index
	// on pending (from, to) pairs surfaces ErrAlreadyExists under races.
	CreateFriendRequest(ctx context.Context, fr domain.FriendRequest) error

	// GetPendingByID returns the request with the given id only while it
	// is still pending; resolved or unknown ids yield ErrNotFound.
	GetPendingByID(ctx context.Context, id string) (domain.FriendRequest, error)

	// HasPendingBetween reports whether a pending request exists for the
	// ordered (fromUser, toUser) pair.
	HasPendingBetween(ctx context.Context, fromUser, toUser string) (bool, error)

	// CountSentSince counts requests sent by fromUser with
	// created_at >= since, regardless of current status.
	CountSentSince(ctx context.Context, fromUser string, since time.Time) (int64, error)

	// ResolveIfPending conditionally moves a pending request to status,
	// returning false when the request was not pending anymore (or never
	// existed). This is the atomicity guard against double resolution.
	ResolveIfPending(ctx context.Context, id string, status domain.FriendRequestStatus) (bool, error)

	// ListAcceptedInvolving returns accepted requests where userID is
	// either side.
	ListAcceptedInvolving(ctx context.Context, userID string) ([]domain.FriendRequest, error)

	// ListPendingFor returns pending requests addressed to userID,
	// expanded with both parties and ordered by creation time.
	ListPendingFor(ctx context.Context, userID string) ([]domain.FriendRequestDetail, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetActiveRefreshTokenByHash returns a non-revoked, non-expired
	// token by its fingerprint.
	GetActiveRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked on and bumps updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}
