package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "shiftboard/internal/adapters/email"
	web "shiftboard/internal/adapters/http"
	"shiftboard/internal/adapters/http/perf"
	"shiftboard/internal/adapters/storage"
	noteStore "shiftboard/internal/adapters/storage/note"
	progressStore "shiftboard/internal/adapters/storage/progress"
	shiftStore "shiftboard/internal/adapters/storage/shift"
	userStore "shiftboard/internal/adapters/storage/user"
	"shiftboard/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Local development reads config from a .env file; a missing file is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("SHIFTBOARD_DB", "shiftboard.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	// Run database migrations
	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	// Create store instances (using timed DB for query instrumentation)
	users := userStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		UserStore:     users,
		ShiftStore:    shiftStore.NewSQLiteStore(timedDB),
		ProgressStore: progressStore.NewSQLiteStore(timedDB),
		NoteStore:     noteStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin user if no users exist
	adminEmail := envOrDefault("SHIFTBOARD_ADMIN_EMAIL", "admin@example.com")
	adminPassword := envOrDefault("SHIFTBOARD_ADMIN_PASSWORD", "admin123")
	seedDeps := orchestrators.RegisterUserDeps{
		UserStore:  users,
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("SHIFTBOARD_RESEND_KEY")
	emailFrom := envOrDefault("SHIFTBOARD_EMAIL_FROM", "Shiftboard <noreply@shiftboard.local>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		log.Println("Email sender configured (noop, set SHIFTBOARD_RESEND_KEY for real delivery)")
	}

	// Create HTTP handler with middleware (pass collector for timing + perf snapshot)
	mux := web.NewMux(envOrDefault("SHIFTBOARD_STATIC_DIR", "static"), stores, collector)

	// Start server
	addr := envOrDefault("SHIFTBOARD_ADDR", ":8080")
	log.Printf("Shiftboard %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("SHIFTBOARD_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
