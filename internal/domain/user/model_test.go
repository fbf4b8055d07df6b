package user

import (
	"errors"
	"testing"
)

// TestNormalizeEmail verifies lower-casing and trimming.
func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Worker@Example.COM", "worker@example.com"},
		{"  worker@example.com  ", "worker@example.com"},
		{"worker@example.com", "worker@example.com"},
		{"  MIXED@Case.Org ", "mixed@case.org"},
	}
	for _, c := range cases {
		if got := NormalizeEmail(c.in); got != c.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestValidate_Valid tests a well-formed user.
func TestValidate_Valid(t *testing.T) {
	u := User{Email: "worker@example.com", Name: "Worker"}
	if err := u.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestValidate_Errors tests rejection of malformed users.
func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		u    User
		want error
	}{
		{"empty email", User{Name: "Worker"}, ErrEmptyEmail},
		{"no at sign", User{Email: "workerexample.com", Name: "Worker"}, ErrInvalidEmail},
		{"empty name", User{Email: "worker@example.com"}, ErrEmptyName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.u.Validate(); !errors.Is(err, c.want) {
				t.Errorf("Validate() = %v, want %v", err, c.want)
			}
		})
	}
}

// TestSetPassword_Valid verifies hashing and round-trip verification.
func TestSetPassword_Valid(t *testing.T) {
	u := User{Email: "worker@example.com", Name: "Worker"}
	if err := u.SetPassword("opening-shift-1"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "opening-shift-1" {
		t.Error("expected PasswordHash to be a hash, not empty or plaintext")
	}
	if err := u.CheckPassword("opening-shift-1"); err != nil {
		t.Errorf("CheckPassword with correct password failed: %v", err)
	}
	if err := u.CheckPassword("wrong-password"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("CheckPassword with wrong password = %v, want ErrWrongPassword", err)
	}
}

// TestSetPassword_TooShort verifies the minimum length rule.
func TestSetPassword_TooShort(t *testing.T) {
	u := User{}
	if err := u.SetPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("SetPassword = %v, want ErrPasswordTooShort", err)
	}
	if err := u.SetPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("SetPassword = %v, want ErrEmptyPassword", err)
	}
}

// TestCheckPassword_NoHash verifies a user without a stored hash never verifies.
func TestCheckPassword_NoHash(t *testing.T) {
	u := User{}
	if err := u.CheckPassword("anything"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("CheckPassword = %v, want ErrWrongPassword", err)
	}
}
