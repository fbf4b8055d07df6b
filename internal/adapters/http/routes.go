package web

import (
	"net/http"

	"shiftboard/internal/adapters/http/middleware"
)

// registerRoutes attaches all application routes to the mux.
// Auth and admin gating happen per-route; the session itself is
// loaded by the Auth middleware around the whole mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", handleIndex)

	// Account
	mux.HandleFunc("GET /register", handleRegisterForm)
	mux.HandleFunc("POST /register", handleRegister)
	mux.HandleFunc("GET /login", handleLoginForm)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("GET /logout", handleLogout)

	// Worker area
	mux.Handle("GET /dashboard", middleware.RequireAuth(http.HandlerFunc(handleDashboard)))
	mux.Handle("GET /shifts", middleware.RequireAuth(http.HandlerFunc(handleShifts)))
	mux.Handle("GET /shift/{id}", middleware.RequireAuth(http.HandlerFunc(handleShiftDetail)))
	mux.Handle("POST /shift/{id}", middleware.RequireAuth(http.HandlerFunc(handleShiftAction)))

	// Admin area, gated by the shared passphrase rather than a login
	mux.HandleFunc("GET /admin-access", handleAdminAccessForm)
	mux.HandleFunc("POST /admin-access", handleAdminAccess)
	mux.Handle("GET /admin", middleware.RequireAdminAccess(http.HandlerFunc(handleAdmin)))
	mux.Handle("POST /admin", middleware.RequireAdminAccess(http.HandlerFunc(handleAdminCreate)))
	mux.Handle("GET /admin/edit/{id}", middleware.RequireAdminAccess(http.HandlerFunc(handleAdminEditForm)))
	mux.Handle("POST /admin/edit/{id}", middleware.RequireAdminAccess(http.HandlerFunc(handleAdminEdit)))
	mux.Handle("POST /admin/delete/{id}", middleware.RequireAdminAccess(http.HandlerFunc(handleAdminDelete)))
	mux.Handle("GET /admin/perf", middleware.RequireAdminAccess(http.HandlerFunc(handleAdminPerf)))
}
