package orchestrators

import (
	"errors"
	"testing"
)

// TestExecuteGrantAdminAccess_Correct tests the matching passphrase.
func TestExecuteGrantAdminAccess_Correct(t *testing.T) {
	if err := ExecuteGrantAdminAccess(GrantAdminAccessInput{Passphrase: "admin123"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestExecuteGrantAdminAccess_Wrong tests rejection of everything else.
func TestExecuteGrantAdminAccess_Wrong(t *testing.T) {
	for _, phrase := range []string{"", "admin", "admin1234", "ADMIN123"} {
		if err := ExecuteGrantAdminAccess(GrantAdminAccessInput{Passphrase: phrase}); !errors.Is(err, ErrWrongPassphrase) {
			t.Errorf("passphrase %q: expected ErrWrongPassphrase, got %v", phrase, err)
		}
	}
}
