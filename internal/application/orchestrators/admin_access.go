package orchestrators

import (
	"crypto/subtle"
	"errors"
	"log/slog"
)

// adminPassphrase is the shared passphrase that unlocks the admin
// area for the current session. It is deliberately not tied to any
// user account.
const adminPassphrase = "admin123"

// GrantAdminAccessInput carries input for the orchestrator.
type GrantAdminAccessInput struct {
	Passphrase string
}

var ErrWrongPassphrase = errors.New("incorrect admin passphrase")

// ExecuteGrantAdminAccess checks the shared admin passphrase.
// PRE: A session exists for the caller
// POST: Returns nil when the passphrase matches, ErrWrongPassphrase otherwise
// INVARIANT: Comparison is constant-time
func ExecuteGrantAdminAccess(input GrantAdminAccessInput) error {
	if subtle.ConstantTimeCompare([]byte(input.Passphrase), []byte(adminPassphrase)) != 1 {
		slog.Info("auth_event", "event", "admin_access_denied")
		return ErrWrongPassphrase
	}
	slog.Info("auth_event", "event", "admin_access_granted")
	return nil
}
