package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/feedback-board/internal/authz"
	"github.com/crucial707/feedback-board/internal/middleware"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/crucial707/feedback-board/internal/session"
	"github.com/go-chi/chi/v5"
)

// ==========================
// User Handler
// ==========================
type UserHandler struct {
	Users    *repo.UserRepo
	Feedback *repo.FeedbackRepo
	Sessions *session.Manager
}

// ==========================
// Home
// ==========================
// Authenticated users land on their profile; everyone else on the
// registration page.
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	if username, ok := middleware.SessionUser(r.Context()); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/register", http.StatusFound)
}

// ==========================
// Profile
// ==========================
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "username")
	sessionUser, _ := middleware.SessionUser(r.Context())

	if !authz.CanViewProfile(sessionUser, target) {
		Denied(w, r, sessionUser)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), target)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			RenderError(w, r, http.StatusNotFound)
			return
		}
		slog.Error("profile lookup", "username", target, "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	feedback, err := h.Feedback.ListByUser(r.Context(), target)
	if err != nil {
		slog.Error("list feedback", "username", target, "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	Render(w, r, http.StatusOK, "profile.html", map[string]interface{}{
		"User":     user,
		"Feedback": feedback,
		"IsOwner":  sessionUser == target,
	})
}

// ==========================
// Delete User
// ==========================
// Cascade-deletes the account and all its feedback, then clears the session.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "username")
	sessionUser, _ := middleware.SessionUser(r.Context())

	if !authz.CanDeleteUser(sessionUser, target) {
		Denied(w, r, sessionUser)
		return
	}

	if err := h.Users.Delete(r.Context(), target); err != nil {
		slog.Error("delete user", "username", target, "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	h.Sessions.Clear(w)
	SetFlash(w, "success", "Account deleted.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Denied reports an authorization failure: anonymous users are sent to the
// login page, authenticated non-owners back home, both with a notice.
func Denied(w http.ResponseWriter, r *http.Request, sessionUser string) {
	SetFlash(w, "danger", "You do not have permission to do that.")
	if sessionUser == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
