package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

// RegisterInput carries the raw registration form fields.
type RegisterInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserService handles registration and login against the store.
type UserService struct {
	store    Store
	defaults []core.CategorySpec
}

func NewUserService(store Store) *UserService {
	return &UserService{
		store:    store,
		defaults: core.DefaultCategories,
	}
}

// Register validates the form, hashes the password and creates the user
// together with its default categories. Rule violations come back as a
// *core.ValidationError carrying every failed rule's message.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (core.User, error) {
	if msgs := auth.ValidateRegistration(in.FullName, in.Email, in.Password, in.ConfirmPassword); len(msgs) > 0 {
		return core.User{}, core.NewValidationError(msgs...)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return core.User{}, err
	}

	// Emails are unique case-insensitively and stored lower-cased.
	user, err := s.store.CreateUser(ctx, core.User{
		FullName:     in.FullName,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
	}, s.defaults)
	if err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			return core.User{}, core.NewValidationError(auth.MsgEmailTaken)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and returns the account. Unknown email and
// wrong password produce the same validation message.
func (s *UserService) Login(ctx context.Context, in LoginInput) (core.User, error) {
	if msgs := auth.ValidateLogin(in.Email, in.Password); len(msgs) > 0 {
		return core.User{}, core.NewValidationError(msgs...)
	}

	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, core.NewValidationError(auth.MsgInvalidCredentials)
		}
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return core.User{}, core.NewValidationError(auth.MsgInvalidCredentials)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return user, nil
}
