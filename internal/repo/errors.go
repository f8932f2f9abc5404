package repo

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by the repositories. Handlers branch on these with
// errors.Is instead of inspecting driver errors.
var (
	// ErrDuplicate reports a unique-constraint conflict (username or email taken).
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("not found")
	// ErrForeignKey reports a referential-integrity violation (owner does not exist).
	ErrForeignKey = errors.New("foreign key violation")
)

// Postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError translates driver errors into the repo sentinels. Unknown errors
// pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		}
	}
	return err
}
