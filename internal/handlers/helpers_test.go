package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/feedback-board/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// sqlmockDB bundles the mock database handle with its expectation recorder.
type sqlmockDB struct {
	DB   *sql.DB
	Mock sqlmock.Sqlmock
}

func (d *sqlmockDB) Close() { _ = d.DB.Close() }

func newMockDB(t *testing.T) *sqlmockDB {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return &sqlmockDB{DB: db, Mock: mock}
}

func errNoRows() error { return sql.ErrNoRows }

// requestWithChiURLParams builds a request with chi URL params injected, so
// handlers can be exercised without a full router.
func requestWithChiURLParams(method, path string, form url.Values, params map[string]string) *http.Request {
	var r *http.Request
	if form != nil {
		r = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}

// asUser marks the request as authenticated, the way the session middleware
// would after verifying the cookie.
func asUser(r *http.Request, username string) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), username))
}

// sessionCookie returns the session cookie set on the response, if any.
func sessionCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
