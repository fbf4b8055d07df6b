package web

import (
	"crypto/sha256"
	"log"
	"net/http"
	"os"
	"time"

	"shiftboard/internal/adapters/email"
	"shiftboard/internal/adapters/http/middleware"
	"shiftboard/internal/adapters/http/perf"
	noteStore "shiftboard/internal/adapters/storage/note"
	progressStore "shiftboard/internal/adapters/storage/progress"
	shiftStore "shiftboard/internal/adapters/storage/shift"
	userStore "shiftboard/internal/adapters/storage/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	UserStore     userStore.Store
	ShiftStore    shiftStore.Store
	ProgressStore progressStore.Store
	NoteStore     noteStore.Store
}

// defaultSecretKey is the development fallback. Anyone running this
// outside a laptop must set SHIFTBOARD_SECRET_KEY.
const defaultSecretKey = "dev-secret-key"

// loadSecretKey derives the 32-byte CSRF key from SHIFTBOARD_SECRET_KEY.
// In production the variable MUST be set; the dev fallback only warns.
func loadSecretKey() []byte {
	secret := os.Getenv("SHIFTBOARD_SECRET_KEY")
	if secret == "" {
		if os.Getenv("SHIFTBOARD_ENV") == "production" {
			log.Fatal("SHIFTBOARD_SECRET_KEY is required in production")
		}
		log.Println("WARNING: using default secret key. Set SHIFTBOARD_SECRET_KEY for production.")
		secret = defaultSecretKey
	}
	key := sha256.Sum256([]byte(secret))
	return key[:]
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("SHIFTBOARD_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(loadSecretKey()),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
