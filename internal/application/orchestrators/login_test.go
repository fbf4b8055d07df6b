package orchestrators

import (
	"context"
	"errors"
	"testing"

	"shiftboard/internal/domain/user"
)

func seedLoginUser(t *testing.T, store *mockUserStore, emailAddr, password string) user.User {
	t.Helper()
	u := user.User{ID: "u1", Email: emailAddr, Name: "Worker", CreatedAt: fixedTime}
	if err := u.SetPassword(password); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	store.users[u.ID] = u
	return u
}

// TestExecuteLogin_Success tests login with correct credentials.
func TestExecuteLogin_Success(t *testing.T) {
	store := newMockUserStore()
	seedLoginUser(t, store, "worker@example.com", "password123")

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email: "worker@example.com", Password: "password123",
	}, LoginDeps{UserStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.UserID != "u1" || result.Name != "Worker" {
		t.Errorf("unexpected result: %+v", result)
	}
}

// TestExecuteLogin_CaseInsensitiveEmail tests that email lookup is normalized.
func TestExecuteLogin_CaseInsensitiveEmail(t *testing.T) {
	store := newMockUserStore()
	seedLoginUser(t, store, "worker@example.com", "password123")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email: "  WORKER@Example.com ", Password: "password123",
	}, LoginDeps{UserStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestExecuteLogin_WrongPassword tests that the error does not reveal
// which part of the credentials was wrong.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	store := newMockUserStore()
	seedLoginUser(t, store, "worker@example.com", "password123")

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email: "worker@example.com", Password: "wrong-password",
	}, LoginDeps{UserStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// TestExecuteLogin_UnknownEmail tests the same generic error for unknown users.
func TestExecuteLogin_UnknownEmail(t *testing.T) {
	store := newMockUserStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email: "nobody@example.com", Password: "password123",
	}, LoginDeps{UserStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// TestExecuteLogin_EmptyInput tests that blank credentials fail fast.
func TestExecuteLogin_EmptyInput(t *testing.T) {
	store := newMockUserStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{}, LoginDeps{UserStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
