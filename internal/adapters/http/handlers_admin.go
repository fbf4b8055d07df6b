package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shiftboard/internal/adapters/http/middleware"
	"shiftboard/internal/application/orchestrators"
	"shiftboard/internal/application/projections"
	shiftDomain "shiftboard/internal/domain/shift"
)

// handleAdminAccessForm renders the passphrase prompt.
func handleAdminAccessForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "admin_access.html", map[string]any{})
}

// handleAdminAccess checks the passphrase and marks the session.
// The admin area works without a user login, so a session is created
// on the spot when the visitor has none.
func handleAdminAccess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteGrantAdminAccess(orchestrators.GrantAdminAccessInput{
		Passphrase: r.FormValue("passphrase"),
	})
	if err != nil {
		renderTemplate(w, r, "admin_access.html", map[string]any{
			"Error": "Incorrect passphrase",
		})
		return
	}

	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		sess.AdminAccess = true
		sessions.Update(middleware.SessionToken(r), sess)
	} else {
		token, cerr := sessions.Create(middleware.Session{AdminAccess: true})
		if cerr != nil {
			internalError(w, cerr)
			return
		}
		middleware.SetSessionCookie(w, token)
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdmin renders the admin overview: existing shifts plus the create form.
func handleAdmin(w http.ResponseWriter, r *http.Request) {
	entries, err := projections.QueryGetShiftList(r.Context(), projections.GetShiftListDeps{
		ShiftStore: stores.ShiftStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	renderTemplate(w, r, "admin.html", map[string]any{
		"Shifts": entries,
	})
}

func manageDeps() orchestrators.ManageShiftDeps {
	return orchestrators.ManageShiftDeps{
		ShiftStore:    stores.ShiftStore,
		ProgressStore: stores.ProgressStore,
		NoteStore:     stores.NoteStore,
		GenerateID:    generateID,
		Now:           timeNow,
	}
}

// handleAdminCreate creates a shift template from the admin form.
func handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.CreateShiftInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		StepsText:   r.FormValue("steps"),
	}

	_, err := orchestrators.ExecuteCreateShift(r.Context(), input, manageDeps())
	if err != nil {
		if errors.Is(err, shiftDomain.ErrEmptyTitle) {
			entries, lerr := projections.QueryGetShiftList(r.Context(), projections.GetShiftListDeps{
				ShiftStore: stores.ShiftStore,
			})
			if lerr != nil {
				internalError(w, lerr)
				return
			}
			renderTemplate(w, r, "admin.html", map[string]any{
				"Shifts":      entries,
				"Error":       "Title cannot be empty",
				"Title":       input.Title,
				"Description": input.Description,
				"StepsText":   input.StepsText,
			})
			return
		}
		internalError(w, err)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminEditForm renders the edit form for one shift.
func handleAdminEditForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	s, err := stores.ShiftStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		internalError(w, err)
		return
	}
	steps, err := stores.ShiftStore.ListSteps(ctx, id)
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "admin_edit.html", map[string]any{
		"Shift":     s,
		"StepsText": shiftDomain.JoinStepLines(steps),
	})
}

// handleAdminEdit applies the edit form, replacing steps wholesale.
func handleAdminEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.EditShiftInput{
		ShiftID:     r.PathValue("id"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		StepsText:   r.FormValue("steps"),
	}

	err := orchestrators.ExecuteEditShift(r.Context(), input, manageDeps())
	if err != nil {
		switch {
		case errors.Is(err, shiftDomain.ErrNotFound):
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
		case errors.Is(err, shiftDomain.ErrEmptyTitle):
			s, gerr := stores.ShiftStore.GetByID(r.Context(), input.ShiftID)
			if gerr != nil {
				internalError(w, gerr)
				return
			}
			renderTemplate(w, r, "admin_edit.html", map[string]any{
				"Shift":     s,
				"StepsText": input.StepsText,
				"Error":     "Title cannot be empty",
			})
		default:
			internalError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminDelete removes a shift with its steps, progress and notes.
func handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteShift(r.Context(), orchestrators.DeleteShiftInput{
		ShiftID: r.PathValue("id"),
	}, manageDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminPerf returns a JSON snapshot of recent request and query timings.
// Query params: minutes (window, default 60), top (slowest paths, default 10).
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}

	minutes := 60
	if v := r.URL.Query().Get("minutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minutes = n
		}
	}
	topN := 10
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			topN = n
		}
	}

	snapshot := perfCollector.Snapshot(timeNow().Add(-time.Duration(minutes)*time.Minute), topN)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}
