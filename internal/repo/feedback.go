package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/feedback-board/internal/models"
)

// ==========================
// FeedbackRepo
// ==========================
type FeedbackRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{DB: db}
}

// ==========================
// Create Feedback
// ==========================
// Returns ErrForeignKey when the owning user does not exist.
func (r *FeedbackRepo) Create(ctx context.Context, title, content, username string) (*models.Feedback, error) {
	query := `
		INSERT INTO feedback (title, content, username)
		VALUES ($1, $2, $3)
		RETURNING id, title, content, username
	`

	fb := &models.Feedback{}

	err := r.DB.QueryRowContext(ctx, query, title, content, username).
		Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username)

	if err != nil {
		return nil, mapError(err)
	}

	return fb, nil
}

// ==========================
// Get By ID
// ==========================
func (r *FeedbackRepo) GetByID(ctx context.Context, id int) (*models.Feedback, error) {
	query := `
		SELECT id, title, content, username
		FROM feedback
		WHERE id = $1
	`

	fb := &models.Feedback{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username)

	if err != nil {
		return nil, mapError(err)
	}

	return fb, nil
}

// ==========================
// List By User
// ==========================
// Rows come back in insertion order (serial id).
func (r *FeedbackRepo) ListByUser(ctx context.Context, username string) ([]models.Feedback, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, content, username
		FROM feedback
		WHERE username = $1
		ORDER BY id
	`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Feedback
	for rows.Next() {
		var fb models.Feedback
		if err := rows.Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username); err != nil {
			return nil, err
		}
		items = append(items, fb)
	}

	return items, rows.Err()
}

// ==========================
// Update Feedback (partial)
// ==========================
// Empty title or content leaves that column untouched. When both are empty
// the row is not written at all and the current record is returned.
func (r *FeedbackRepo) Update(ctx context.Context, id int, title, content string) (*models.Feedback, error) {
	if title == "" && content == "" {
		return r.GetByID(ctx, id)
	}

	query := `
		UPDATE feedback
		SET title   = COALESCE(NULLIF($1, ''), title),
		    content = COALESCE(NULLIF($2, ''), content)
		WHERE id = $3
		RETURNING id, title, content, username
	`

	fb := &models.Feedback{}

	err := r.DB.QueryRowContext(ctx, query, title, content, id).
		Scan(&fb.ID, &fb.Title, &fb.Content, &fb.Username)

	if err != nil {
		return nil, mapError(err)
	}

	return fb, nil
}

// ==========================
// Delete Feedback
// ==========================
// Deleting a row that does not exist is a no-op.
func (r *FeedbackRepo) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	return err
}

// ==========================
// Count Orphans
// ==========================
// Counts feedback rows whose owner no longer exists. The FK cascade keeps
// this at zero; a nonzero count is an internal-consistency fault.
func (r *FeedbackRepo) CountOrphans(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM feedback f
		LEFT JOIN users u ON u.username = f.username
		WHERE u.username IS NULL
	`).Scan(&n)
	return n, err
}
