package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/feedback-board/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================
// Returns ErrDuplicate when the username or email is already taken.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, email, firstName, lastName string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING username, password_hash, email, first_name, last_name
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username, passwordHash, email, firstName, lastName).
		Scan(&user.Username, &user.PasswordHash, &user.Email, &user.FirstName, &user.LastName)

	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, password_hash, email, first_name, last_name
		FROM users
		WHERE username = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.Username, &user.PasswordHash, &user.Email, &user.FirstName, &user.LastName)

	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// ==========================
// Delete User (cascade)
// ==========================
// Removes the user and all feedback they own in one transaction, so no
// orphaned feedback survives even under concurrent writes. Deleting a user
// that does not exist is a no-op.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM feedback WHERE username = $1`, username); err != nil {
		return mapError(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		return mapError(err)
	}

	return tx.Commit()
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT username, password_hash, email, first_name, last_name
		FROM users ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Email, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// ==========================
// Count Users
// ==========================
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
