package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"shiftboard/internal/domain/user"
)

// UserStoreForLogin defines the store interface needed by Login.
type UserStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	UserID string
	Email  string
	Name   string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	UserStore UserStoreForLogin
}

// ErrInvalidCredentials is returned for every login failure so the
// response never reveals whether the email exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ExecuteLogin validates credentials and returns user info for session creation.
// PRE: Email and password provided
// POST: Returns user info on success, ErrInvalidCredentials otherwise
// INVARIANT: Failure reason is never exposed to the caller
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	normalized := user.NormalizeEmail(input.Email)
	if normalized == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := deps.UserStore.GetByEmail(ctx, normalized)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", normalized, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	// Verify password
	if err := u.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", normalized, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "email", normalized)

	return LoginResult{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	}, nil
}
