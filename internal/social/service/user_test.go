package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/socialcore/socialcore/internal/social/domain"
	"github.com/socialcore/socialcore/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestUserServiceSignup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates an active user with a hashed password", func(t *testing.T) {
		st := newTestStore(t)
		svc := &UserService{Store: st}

		u, err := svc.Signup(ctx, "alice@example.com", "correct horse battery", "Alice", "Smith")
		require.NoError(t, err)
		require.NotEmpty(t, u.ID)
		require.True(t, u.IsActive)
		require.NotEqual(t, "correct horse battery", u.PasswordHash)
		require.NoError(t, cryptox.VerifyPassword("correct horse battery", u.PasswordHash))
	})

	t.Run("normalizes the email to lowercase", func(t *testing.T) {
		st := newTestStore(t)
		svc := &UserService{Store: st}

		u, err := svc.Signup(ctx, "  Alice@Example.COM ", "correct horse battery", "Alice", "Smith")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("duplicate email is rejected regardless of case", func(t *testing.T) {
		st := newTestStore(t)
		svc := &UserService{Store: st}

		_, err := svc.Signup(ctx, "alice@example.com", "correct horse battery", "Alice", "Smith")
		require.NoError(t, err)

		_, err = svc.Signup(ctx, "ALICE@example.com", "another password!", "Alicia", "Smith")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("rejects malformed emails", func(t *testing.T) {
		st := newTestStore(t)
		svc := &UserService{Store: st}

		for _, email := range []string{"", "not-an-email", "missing@", "@domain.com"} {
			_, err := svc.Signup(ctx, email, "correct horse battery", "", "")
			require.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
		}
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		st := newTestStore(t)
		svc := &UserService{Store: st}

		_, err := svc.Signup(ctx, "alice@example.com", "short", "", "")
		require.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestUserServiceSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := func(t *testing.T) *UserService {
		st := newTestStore(t)
		svc := &UserService{Store: st}

		users := []domain.User{
			{Email: "alice.smith@example.com", FirstName: "Alice", LastName: "Smith"},
			{Email: "bob.jones@example.com", FirstName: "Bob", LastName: "Jones"},
			{Email: "carol.smithers@example.com", FirstName: "Carol", LastName: "Smithers"},
		}
		for _, u := range users {
			_, err := svc.Signup(ctx, u.Email, "correct horse battery", u.FirstName, u.LastName)
			require.NoError(t, err)
		}
		return svc
	}

	t.Run("matches email substring case-insensitively", func(t *testing.T) {
		svc := seed(t)

		results, total, err := svc.Search(ctx, "ALICE.SMITH", 10, 0)
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		require.Len(t, results, 1)
		require.Equal(t, "alice.smith@example.com", results[0].Email)
	})

	t.Run("matches first and last name", func(t *testing.T) {
		svc := seed(t)

		_, total, err := svc.Search(ctx, "bob", 10, 0)
		require.NoError(t, err)
		require.EqualValues(t, 1, total)

		results, total, err := svc.Search(ctx, "smith", 10, 0)
		require.NoError(t, err)
		require.EqualValues(t, 2, total)
		require.Len(t, results, 2)
	})

	t.Run("blank keyword matches nothing", func(t *testing.T) {
		svc := seed(t)

		results, total, err := svc.Search(ctx, "   ", 10, 0)
		require.NoError(t, err)
		require.Zero(t, total)
		require.Empty(t, results)
	})

	t.Run("no hits yields an empty page", func(t *testing.T) {
		svc := seed(t)

		results, total, err := svc.Search(ctx, "zzzzz", 10, 0)
		require.NoError(t, err)
		require.Zero(t, total)
		require.Empty(t, results)
	})

	t.Run("keyword wildcards are literal", func(t *testing.T) {
		svc := seed(t)

		results, total, err := svc.Search(ctx, "%", 10, 0)
		require.NoError(t, err)
		require.Zero(t, total)
		require.Empty(t, results)
	})

	t.Run("paginates with a stable total", func(t *testing.T) {
		st := newTestStore(t)
		svc := &UserService{Store: st}
		for i := range 25 {
			_, err := svc.Signup(ctx, fmt.Sprintf("user%02d@example.com", i), "correct horse battery", "User", "Example")
			require.NoError(t, err)
		}

		page1, total, err := svc.Search(ctx, "user", 10, 0)
		require.NoError(t, err)
		require.EqualValues(t, 25, total)
		require.Len(t, page1, 10)

		page3, total, err := svc.Search(ctx, "user", 10, 20)
		require.NoError(t, err)
		require.EqualValues(t, 25, total)
		require.Len(t, page3, 5)

		// Pages do not overlap
		seen := map[string]bool{}
		for _, u := range append(page1, page3...) {
			require.False(t, seen[u.ID])
			seen[u.ID] = true
		}
	})
}
