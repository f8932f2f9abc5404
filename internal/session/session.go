package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "feedback_session"

var errInvalidToken = errors.New("invalid session token")

// Manager issues and verifies the signed session cookie. Sessions are
// stateless: the cookie carries an HS256 token with the username and expiry,
// so each client holds its own session and no server-side state is shared.
type Manager struct {
	Secret []byte
	TTL    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{Secret: []byte(secret), TTL: ttl}
}

// Issue binds username to the client by setting the session cookie.
func (m *Manager) Issue(w http.ResponseWriter, username string) error {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(m.TTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear removes the session cookie unconditionally.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1})
}

// Username returns the authenticated username from the request's session
// cookie. ok is false for anonymous requests and for expired or tampered
// tokens.
func (m *Manager) Username(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	username, err := m.parse(c.Value)
	if err != nil {
		return "", false
	}
	return username, true
}

func (m *Manager) parse(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return "", errInvalidToken
	}
	return username, nil
}
