package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"shiftboard/internal/adapters/http/middleware"
	"shiftboard/internal/application/orchestrators"
	"shiftboard/internal/application/projections"
	noteDomain "shiftboard/internal/domain/note"
	shiftDomain "shiftboard/internal/domain/shift"
	userDomain "shiftboard/internal/domain/user"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// templatesDir is relative to the process working directory.
// Tests override it since they run from the package directory.
var templatesDir = "internal/adapters/http/templates"

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	name := ""
	loggedIn := false
	adminAccess := false
	if ok {
		name = sess.Name
		loggedIn = sess.IsLoggedIn()
		adminAccess = sess.AdminAccess
	}

	funcMap := template.FuncMap{
		"currentName":    func() string { return name },
		"isLoggedIn":     func() bool { return loggedIn },
		"hasAdminAccess": func() bool { return adminAccess },
		"csrfToken":      func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// workDeps builds the dependency set for the shift-working orchestrators.
func workDeps() orchestrators.WorkShiftDeps {
	return orchestrators.WorkShiftDeps{
		ShiftStore:    stores.ShiftStore,
		ProgressStore: stores.ProgressStore,
		NoteStore:     stores.NoteStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

// handleIndex sends visitors to the dashboard or the login form.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if middleware.IsLoggedIn(r.Context()) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegisterForm renders the registration form.
func handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "register.html", map[string]any{})
}

// handleRegister creates a user account from the registration form.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.RegisterUserInput{
		Email:    r.FormValue("email"),
		Name:     r.FormValue("name"),
		Password: r.FormValue("password"),
	}
	deps := orchestrators.RegisterUserDeps{
		UserStore:   stores.UserStore,
		EmailSender: emailSender,
		GenerateID:  generateID,
		Now:         timeNow,
	}

	_, err := orchestrators.ExecuteRegisterUser(r.Context(), input, deps)
	if err != nil {
		if isUserFacingRegisterError(err) {
			renderTemplate(w, r, "register.html", map[string]any{
				"Error": err.Error(),
				"Email": input.Email,
				"Name":  input.Name,
			})
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// isUserFacingRegisterError reports whether a registration failure should
// be shown to the visitor rather than treated as a server fault.
func isUserFacingRegisterError(err error) bool {
	return errors.Is(err, orchestrators.ErrEmailAlreadyExists) ||
		errors.Is(err, userDomain.ErrEmptyEmail) ||
		errors.Is(err, userDomain.ErrInvalidEmail) ||
		errors.Is(err, userDomain.ErrEmptyName) ||
		errors.Is(err, userDomain.ErrEmptyPassword) ||
		errors.Is(err, userDomain.ErrPasswordTooShort)
}

// handleLoginForm renders the login form.
func handleLoginForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "login.html", map[string]any{})
}

// handleLogin authenticates and starts a session.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}, orchestrators.LoginDeps{UserStore: stores.UserStore})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			renderTemplate(w, r, "login.html", map[string]any{
				"Error": "Invalid email or password",
				"Email": r.FormValue("email"),
			})
			return
		}
		internalError(w, err)
		return
	}

	// Admin access granted earlier in this browser session survives login.
	adminAccess := false
	if old, ok := middleware.GetSessionFromContext(r.Context()); ok {
		adminAccess = old.AdminAccess
		sessions.Delete(middleware.SessionToken(r))
	}

	token, err := sessions.Create(middleware.Session{
		UserID:      result.UserID,
		Email:       result.Email,
		Name:        result.Name,
		AdminAccess: adminAccess,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout ends the session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleDashboard renders the worker dashboard.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		UserID: sess.UserID,
		Name:   sess.Name,
	}, projections.GetDashboardDeps{
		ProgressStore: stores.ProgressStore,
		Now:           timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "dashboard.html", map[string]any{
		"Name":            result.Name,
		"HasCurrentShift": result.HasCurrentShift,
		"CurrentShift":    result.CurrentShift,
		"ClockTime":       result.ClockTime,
		"ClockDate":       result.ClockDate,
	})
}

// handleShifts renders the shift picker.
func handleShifts(w http.ResponseWriter, r *http.Request) {
	entries, err := projections.QueryGetShiftList(r.Context(), projections.GetShiftListDeps{
		ShiftStore: stores.ShiftStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "shifts.html", map[string]any{
		"Shifts": entries,
	})
}

func shiftDetailData(result projections.ShiftDetailResult) map[string]any {
	return map[string]any{
		"Shift":          result.Shift,
		"Steps":          result.Steps,
		"Progress":       result.Progress,
		"Started":        result.Started,
		"CompletedSteps": result.CompletedSteps,
		"TotalSteps":     result.TotalSteps,
		"AllDone":        result.AllDone,
		"Notes":          result.Notes,
	}
}

// handleShiftDetail renders one shift's checklist and notes.
func handleShiftDetail(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetShiftDetail(r.Context(), projections.GetShiftDetailQuery{
		ShiftID: r.PathValue("id"),
		UserID:  sess.UserID,
	}, detailDeps())
	if err != nil {
		if errors.Is(err, shiftDomain.ErrNotFound) {
			http.Redirect(w, r, "/shifts", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "shift_detail.html", shiftDetailData(result))
}

func detailDeps() projections.GetShiftDetailDeps {
	return projections.GetShiftDetailDeps{
		ShiftStore:    stores.ShiftStore,
		ProgressStore: stores.ProgressStore,
		NoteStore:     stores.NoteStore,
	}
}

// handleShiftAction dispatches the checklist form buttons. Each button
// posts an `action` value back to the same URL, mirroring one form per page.
func handleShiftAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	shiftID := r.PathValue("id")
	action := r.FormValue("action")
	ctx := r.Context()

	switch {
	case action == "select_shift":
		err := orchestrators.ExecuteSelectShift(ctx, orchestrators.SelectShiftInput{
			UserID: sess.UserID, ShiftID: shiftID,
		}, workDeps())
		if err != nil {
			if errors.Is(err, shiftDomain.ErrNotFound) {
				http.Redirect(w, r, "/shifts", http.StatusSeeOther)
				return
			}
			internalError(w, err)
			return
		}

	case strings.HasPrefix(action, "toggle_"):
		err := orchestrators.ExecuteToggleStep(ctx, orchestrators.ToggleStepInput{
			UserID:  sess.UserID,
			ShiftID: shiftID,
			StepID:  strings.TrimPrefix(action, "toggle_"),
		}, workDeps())
		if err != nil {
			internalError(w, err)
			return
		}

	case action == "complete_shift":
		err := orchestrators.ExecuteCompleteShift(ctx, orchestrators.CompleteShiftInput{
			UserID: sess.UserID, ShiftID: shiftID,
		}, workDeps())
		if err != nil {
			internalError(w, err)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return

	case action == "add_note":
		_, err := orchestrators.ExecuteAddNote(ctx, orchestrators.AddNoteInput{
			UserID:  sess.UserID,
			ShiftID: shiftID,
			Content: r.FormValue("content"),
		}, workDeps())
		if err != nil {
			if errors.Is(err, noteDomain.ErrEmptyContent) {
				result, derr := projections.QueryGetShiftDetail(ctx, projections.GetShiftDetailQuery{
					ShiftID: shiftID, UserID: sess.UserID,
				}, detailDeps())
				if derr != nil {
					internalError(w, derr)
					return
				}
				data := shiftDetailData(result)
				data["Error"] = "Note cannot be empty"
				renderTemplate(w, r, "shift_detail.html", data)
				return
			}
			internalError(w, err)
			return
		}

	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, "/shift/"+shiftID, http.StatusSeeOther)
}
