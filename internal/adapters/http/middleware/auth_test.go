package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestSessionStore_CreateAndGet verifies the session round trip.
func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore()
	token, err := store.Create(Session{UserID: "u1", Email: "w@example.com", Name: "Worker"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(token))
	}

	sess, ok := store.Get(token)
	if !ok {
		t.Fatal("expected session to exist")
	}
	if sess.UserID != "u1" || !sess.IsLoggedIn() {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.AdminAccess {
		t.Error("expected no admin access by default")
	}
}

// TestSessionStore_AnonymousSession verifies sessions without a user are valid.
func TestSessionStore_AnonymousSession(t *testing.T) {
	store := NewSessionStore()
	token, err := store.Create(Session{AdminAccess: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	sess, ok := store.Get(token)
	if !ok {
		t.Fatal("expected session to exist")
	}
	if sess.IsLoggedIn() {
		t.Error("expected anonymous session")
	}
	if !sess.AdminAccess {
		t.Error("expected admin access to survive")
	}
}

// TestSessionStore_Update verifies in-place replacement.
func TestSessionStore_Update(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create(Session{UserID: "u1"})

	sess, _ := store.Get(token)
	sess.AdminAccess = true
	if !store.Update(token, sess) {
		t.Fatal("Update returned false for existing token")
	}
	updated, _ := store.Get(token)
	if !updated.AdminAccess {
		t.Error("expected AdminAccess after update")
	}

	if store.Update("unknown-token", Session{}) {
		t.Error("Update returned true for unknown token")
	}
}

// TestSessionStore_Delete verifies logout semantics.
func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create(Session{UserID: "u1"})
	store.Delete(token)
	if _, ok := store.Get(token); ok {
		t.Error("expected session to be gone")
	}
}

// TestRequireAuth_RedirectsAnonymous verifies unauthenticated requests are
// bounced to the login page.
func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}
}

// TestRequireAuth_BlocksAnonymousAdminSession verifies that admin access
// alone does not satisfy RequireAuth.
func TestRequireAuth_BlocksAnonymousAdminSession(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{AdminAccess: true}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rr.Code)
	}
}

// TestRequireAdminAccess verifies the admin gate in both directions.
func TestRequireAdminAccess(t *testing.T) {
	handler := RequireAdminAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Without the flag: redirected to the passphrase form.
	req := httptest.NewRequest("GET", "/admin", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{UserID: "u1"}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/admin-access" {
		t.Errorf("redirect location = %q, want /admin-access", loc)
	}

	// With the flag: allowed through, even anonymously.
	req = httptest.NewRequest("GET", "/admin", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{AdminAccess: true}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestAuthMiddleware_LoadsSessionFromCookie verifies cookie-to-context plumbing.
func TestAuthMiddleware_LoadsSessionFromCookie(t *testing.T) {
	store := NewSessionStore()
	token, _ := store.Create(Session{UserID: "u1", Name: "Worker"})

	var seen Session
	handler := Auth(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "shiftboard_session", Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen.UserID != "u1" {
		t.Errorf("session user = %q, want u1", seen.UserID)
	}
}
