package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"shiftboard/internal/adapters/email"
	"shiftboard/internal/domain/user"
)

// UserStoreForRegister defines the store interface needed by RegisterUser.
type UserStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Save(ctx context.Context, u user.User) error
	Count(ctx context.Context) (int, error)
}

// RegisterUserInput carries input for the orchestrator.
type RegisterUserInput struct {
	Email    string
	Name     string
	Password string
	IsAdmin  bool
}

// RegisterUserDeps holds dependencies for RegisterUser.
type RegisterUserDeps struct {
	UserStore   UserStoreForRegister
	EmailSender email.Sender // optional; nil skips the welcome email
	GenerateID  func() string
	Now         func() time.Time
}

var ErrEmailAlreadyExists = errors.New("a user with this email already exists")

// ExecuteRegisterUser coordinates user registration.
// PRE: Valid email, non-empty name, password >= 8 chars
// POST: User created with hashed password; welcome email attempted
// INVARIANT: Email must be unique; stored email is normalized
func ExecuteRegisterUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (string, error) {
	u := user.User{
		ID:        deps.GenerateID(),
		Email:     user.NormalizeEmail(input.Email),
		Name:      input.Name,
		IsAdmin:   input.IsAdmin,
		CreatedAt: deps.Now(),
	}

	// Validate domain rules
	if err := u.Validate(); err != nil {
		return "", err
	}

	// Check if email already exists
	_, err := deps.UserStore.GetByEmail(ctx, u.Email)
	if err == nil {
		return "", ErrEmailAlreadyExists
	}

	// Set password (handles hashing and length validation)
	if err := u.SetPassword(input.Password); err != nil {
		return "", err
	}

	// Save to store
	if err := deps.UserStore.Save(ctx, u); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "user_registered", "email", u.Email)

	// Welcome email is best-effort: registration succeeds even when
	// the provider is down or unconfigured.
	if deps.EmailSender != nil {
		if err := deps.EmailSender.Send(ctx, welcomeEmail(u)); err != nil {
			slog.Error("welcome_email_failed", "error", err, "email", u.Email)
		}
	}

	return u.ID, nil
}

func welcomeEmail(u user.User) email.Message {
	return email.Message{
		To:      u.Email,
		Subject: "Welcome to Shiftboard",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account is ready. Log in, pick a shift and work through its checklist.</p>",
			html.EscapeString(u.Name)),
	}
}

// ExecuteSeedAdmin creates a default admin user if no users exist.
// PRE: Database is initialized
// POST: Admin user created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps RegisterUserDeps, emailAddr, password string) error {
	count, err := deps.UserStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Users already exist, skip seeding
	}

	_, err = ExecuteRegisterUser(ctx, RegisterUserInput{
		Email:    emailAddr,
		Name:     "Admin",
		Password: password,
		IsAdmin:  true,
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", emailAddr)
	return nil
}
