package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/feedback-board/internal/auth"
	"github.com/crucial707/feedback-board/internal/metrics"
	"github.com/crucial707/feedback-board/internal/middleware"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/crucial707/feedback-board/internal/session"
	"github.com/go-playground/validator/v10"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users    *repo.UserRepo
	Sessions *session.Manager
}

// ==========================
// Register
// ==========================

type registerInput struct {
	Username        string `validate:"required,max=20"`
	Email           string `validate:"required,email,max=50"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	FirstName       string `validate:"required,max=30"`
	LastName        string `validate:"required,max=30"`
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if username, ok := middleware.SessionUser(r.Context()); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusFound)
		return
	}
	Render(w, r, http.StatusOK, "register.html", nil)
}

func (h *AuthHandler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if username, ok := middleware.SessionUser(r.Context()); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest)
		return
	}

	input := registerInput{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		FirstName:       strings.TrimSpace(r.FormValue("first_name")),
		LastName:        strings.TrimSpace(r.FormValue("last_name")),
	}

	rerender := func(fields map[string]string) {
		Render(w, r, http.StatusOK, "register.html", map[string]interface{}{
			"Fields": fields,
			"Input":  input,
		})
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		rerender(registerFieldErrors(err))
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		slog.Error("hash password", "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	_, err = h.Users.Create(r.Context(), input.Username, hash, input.Email, input.FirstName, input.LastName)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			rerender(map[string]string{"username": "username or email already taken"})
			return
		}
		slog.Error("create user", "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	SetFlash(w, "success", "Account created. Please log in.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// registerFieldErrors turns validator errors into form field messages.
func registerFieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["form"] = "invalid input"
		return fields
	}
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = "required"
		case "max":
			fields[name] = fmt.Sprintf("must not exceed %s characters", fe.Param())
		case "email":
			fields[name] = "must be a valid email address"
		case "eqfield":
			fields[name] = "password fields must match"
		default:
			fields[name] = "invalid"
		}
	}
	return fields
}

// ==========================
// Login
// ==========================

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if username, ok := middleware.SessionUser(r.Context()); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusFound)
		return
	}
	Render(w, r, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if username, ok := middleware.SessionUser(r.Context()); ok {
		http.Redirect(w, r, "/users/"+username, http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		RenderError(w, r, http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	// One generic message for every failure mode; do not reveal whether the
	// username exists.
	fail := func() {
		metrics.IncLogins("failure")
		Render(w, r, http.StatusOK, "login.html", map[string]interface{}{
			"Error":    "Invalid username or password.",
			"Username": username,
		})
	}

	if username == "" || password == "" {
		fail()
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			slog.Error("login lookup", "error", err)
			RenderError(w, r, http.StatusInternalServerError)
			return
		}
		fail()
		return
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		fail()
		return
	}

	if err := h.Sessions.Issue(w, user.Username); err != nil {
		slog.Error("issue session", "error", err)
		RenderError(w, r, http.StatusInternalServerError)
		return
	}

	metrics.IncLogins("success")
	SetFlash(w, "success", "Logged in as "+user.Username+".")
	http.Redirect(w, r, "/users/"+user.Username, http.StatusFound)
}

// ==========================
// Logout
// ==========================

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
