package auth

import (
	"context"
	"errors"
	"fmt"

	"tableorder/api-service/internal/store"
)

// DefaultRole is assigned to every account created through signup.
const DefaultRole = "owner"

type LoginResult struct {
	Token  string
	UserID string
	Name   string
}

// Service orchestrates signup, login, and password reset over the
// credential store. All collaborators are injected at construction.
type Service struct {
	users  store.UserStore
	hasher PasswordHasher
	codec  *TokenCodec
}

func NewService(users store.UserStore, hasher PasswordHasher, codec *TokenCodec) *Service {
	return &Service{users: users, hasher: hasher, codec: codec}
}

// Signup creates a new account. Returns store.ErrConflict when the username
// is taken; the pre-check races with concurrent signups, so the store's
// unique index is the final arbiter and surfaces the same error.
func (s *Service) Signup(ctx context.Context, username, password, name, phone string) error {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("checking username: %w", err)
	}
	if exists {
		return store.ErrConflict
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	_, err = s.users.CreateUser(ctx, store.CreateUserInput{
		Username:     username,
		PasswordHash: hashed,
		Name:         name,
		Phone:        phone,
		Role:         DefaultRole,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return store.ErrConflict
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Login verifies credentials and mints a session token. An unknown
// username and a wrong password return the identical error so callers
// cannot enumerate accounts.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, store.ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("looking up user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return LoginResult{}, store.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.UserID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issuing token: %w", err)
	}
	return LoginResult{Token: token, UserID: user.UserID, Name: user.Name}, nil
}

// ResetPassword re-hashes and stores a new password after verifying the
// current one. Previously issued tokens stay valid until they expire.
func (s *Service) ResetPassword(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrInvalidCredentials
		}
		return fmt.Errorf("looking up user: %w", err)
	}
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return store.ErrInvalidCredentials
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.users.UpdateUserPassword(ctx, user.UserID, hashed); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}
