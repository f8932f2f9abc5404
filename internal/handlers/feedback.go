package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/crucial707/feedback-board/internal/authz"
	"github.com/crucial707/feedback-board/internal/middleware"
	"github.com/crucial707/feedback-board/internal/models"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/go-chi/chi/v5"
)

// ==========================
// Feedback Handler
// ==========================
type FeedbackHandler struct {
	Feedback *repo.FeedbackRepo
}

// ==========================
// Add Feedback
// ==========================

func (h *FeedbackHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "username")
	sessionUser, _ := middleware.SessionUser(r.Context())

	if !authz.CanCreateFeedback(sessionUser, target) {
		Denied(w, r, sessionUser)
		return
	}

	Render(w, r, http.StatusOK, "feedback_form.html", map[string]interface{}{
		"FormAction":  "/users/" + target + "/feedback/add",
		"SubmitLabel": "Add feedback",
	})
}

func (h *FeedbackHandler) AddSubmit(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "username")
	sessionUser, _ := middleware.SessionUser(r.Context())

	if !authz.CanCreateFeedback(sessionUser, target) {
		Denied(w, r, sessionUser)
		return
	}

	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	rerender := func(fields map[string]string) {
		Render(w, r, http.StatusOK, "feedback_form.html", map[string]interface{}{
			"Fields":      fields,
			"Title":       title,
			"Content":     content,
			"FormAction":  "/users/" + target + "/feedback/add",
			"SubmitLabel": "Add feedback",
		})
	}

	if fields := feedbackFieldErrors(title, content, true); len(fields) > 0 {
		rerender(fields)
		return
	}

	_, err := h.Feedback.Create(r.Context(), title, content, target)
	if err != nil {
		// The owner can only vanish here if the account was deleted while
		// this request was in flight; the FK rejects the orphan row.
		if errors.Is(err, repo.ErrForeignKey) {
			slog.Warn("feedback create for missing user", "username", target)
			RenderError(w, r, http.StatusNotFound)
			return
		}
		slog.Error("create feedback", "username", target, "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	SetFlash(w, "success", "Feedback added.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// feedbackFieldErrors validates the feedback form. On the add form both
// fields are required; on the update form they are optional (empty means
// leave unchanged) but the title limit still applies.
func feedbackFieldErrors(title, content string, required bool) map[string]string {
	fields := make(map[string]string)
	if required && title == "" {
		fields["title"] = "required"
	}
	if required && content == "" {
		fields["content"] = "required"
	}
	if len(title) > models.MaxTitleLen {
		fields["title"] = fmt.Sprintf("must not exceed %d characters", models.MaxTitleLen)
	}
	return fields
}

// ==========================
// Update Feedback (partial)
// ==========================

func (h *FeedbackHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	fb, ok := h.load(w, r)
	if !ok {
		return
	}

	Render(w, r, http.StatusOK, "feedback_form.html", map[string]interface{}{
		"Title":       fb.Title,
		"Content":     fb.Content,
		"FormAction":  fmt.Sprintf("/feedback/%d/update", fb.ID),
		"SubmitLabel": "Save changes",
		"Partial":     true,
	})
}

func (h *FeedbackHandler) UpdateSubmit(w http.ResponseWriter, r *http.Request) {
	fb, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	content := strings.TrimSpace(r.FormValue("content"))

	if fields := feedbackFieldErrors(title, content, false); len(fields) > 0 {
		Render(w, r, http.StatusOK, "feedback_form.html", map[string]interface{}{
			"Fields":      fields,
			"Title":       title,
			"Content":     content,
			"FormAction":  fmt.Sprintf("/feedback/%d/update", fb.ID),
			"SubmitLabel": "Save changes",
			"Partial":     true,
		})
		return
	}

	// Empty fields are left untouched; both empty is a no-op.
	if _, err := h.Feedback.Update(r.Context(), fb.ID, title, content); err != nil {
		slog.Error("update feedback", "id", fb.ID, "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	SetFlash(w, "success", "Feedback updated.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// ==========================
// Delete Feedback
// ==========================

func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fb, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.Feedback.Delete(r.Context(), fb.ID); err != nil {
		slog.Error("delete feedback", "id", fb.ID, "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	SetFlash(w, "success", "Feedback deleted.")
	http.Redirect(w, r, "/", http.StatusFound)
}

// load fetches the feedback row from the id URL param and enforces the
// ownership rule. It writes the response itself on failure: 404 for a bad or
// unknown id, denial redirect for a non-owner.
func (h *FeedbackHandler) load(w http.ResponseWriter, r *http.Request) (*models.Feedback, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, r, http.StatusNotFound)
		return nil, false
	}

	fb, err := h.Feedback.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			RenderError(w, r, http.StatusNotFound)
			return nil, false
		}
		slog.Error("get feedback", "id", id, "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return nil, false
	}

	sessionUser, _ := middleware.SessionUser(r.Context())
	if !authz.CanModifyFeedback(sessionUser, fb.Username) {
		Denied(w, r, sessionUser)
		return nil, false
	}

	return fb, true
}
