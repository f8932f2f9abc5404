package models

// Column limits enforced by the schema. Handler validation mirrors them so
// oversized input is rejected before it reaches Postgres.
const (
	MaxUsernameLen = 20
	MaxEmailLen    = 50
	MaxNameLen     = 30
	MaxTitleLen    = 100
)

type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// FullName returns the display name shown on the profile page.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
