package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/socialcore/socialcore/internal/social/domain"
	"github.com/socialcore/socialcore/internal/social/store"
	"github.com/socialcore/socialcore/pkg/cryptox"
	"github.com/socialcore/socialcore/pkg/idx"
	"github.com/socialcore/socialcore/pkg/slogx"
)

const minPasswordLength = 8

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrWeakPassword = errors.New("password too short")
)

type UserService struct {
	Store store.Store
}

// Signup registers a new user. Email is normalized to lowercase and must be
// unique case-insensitively; the password is stored as an argon2id hash.
func (s *UserService) Signup(ctx context.Context, email, password, firstName, lastName string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Normalize and validate input
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return domain.User{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	// 2. Hash the password
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	// 3. Insert; the unique index is the authority on email collisions
	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	l.Info("user registered", "user_id", u.ID)
	return u, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// Search returns active users whose email, first name or last name contains
// keyword, plus the total match count for pagination. A blank keyword matches
// nothing.
func (s *UserService) Search(ctx context.Context, keyword string, limit, offset int) ([]domain.User, int64, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, 0, nil
	}

	total, err := s.Store.Users().CountSearchUsers(ctx, keyword)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	users, err := s.Store.Users().SearchUsers(ctx, keyword, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
