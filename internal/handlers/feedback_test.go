package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/feedback-board/internal/repo"
	"github.com/lib/pq"
)

func newFeedbackHandler(db *sqlmockDB) *FeedbackHandler {
	return &FeedbackHandler{Feedback: repo.NewFeedbackRepo(db.DB)}
}

func expectFeedbackByID(db *sqlmockDB, id int, title, content, owner string) {
	db.Mock.ExpectQuery(`SELECT id, title, content, username`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "username"}).
			AddRow(id, title, content, owner))
}

func TestAddSubmit_Success(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	db.Mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs("t", "c", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "username"}).
			AddRow(1, "t", "c", "bob"))

	h := newFeedbackHandler(db)
	form := url.Values{"title": {"t"}, "content": {"c"}}
	req := asUser(requestWithChiURLParams("POST", "/users/bob/feedback/add", form, map[string]string{"username": "bob"}), "bob")
	rr := httptest.NewRecorder()
	h.AddSubmit(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d %q, want 302 /", rr.Code, rr.Header().Get("Location"))
	}
	if err := db.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAddSubmit_AnonymousDenied(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	h := newFeedbackHandler(db)
	form := url.Values{"title": {"t"}, "content": {"c"}}
	req := requestWithChiURLParams("POST", "/users/bob/feedback/add", form, map[string]string{"username": "bob"})
	rr := httptest.NewRecorder()
	h.AddSubmit(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login" {
		t.Errorf("got %d %q, want 302 /login", rr.Code, rr.Header().Get("Location"))
	}
}

func TestAddSubmit_NonOwnerDenied(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	h := newFeedbackHandler(db)
	form := url.Values{"title": {"t"}, "content": {"c"}}
	req := asUser(requestWithChiURLParams("POST", "/users/alice/feedback/add", form, map[string]string{"username": "alice"}), "bob")
	rr := httptest.NewRecorder()
	h.AddSubmit(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d %q, want 302 /", rr.Code, rr.Header().Get("Location"))
	}
	if err := db.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAddSubmit_ValidationErrors(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	h := newFeedbackHandler(db)
	form := url.Values{"title": {""}, "content": {""}}
	req := asUser(requestWithChiURLParams("POST", "/users/bob/feedback/add", form, map[string]string{"username": "bob"}), "bob")
	rr := httptest.NewRecorder()
	h.AddSubmit(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (form re-display)", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "required") {
		t.Errorf("expected required-field messages in page")
	}
}

func TestAddSubmit_OwnerDeletedMidFlight(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	db.Mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs("t", "c", "bob").
		WillReturnError(&pq.Error{Code: "23503"})

	h := newFeedbackHandler(db)
	form := url.Values{"title": {"t"}, "content": {"c"}}
	req := asUser(requestWithChiURLParams("POST", "/users/bob/feedback/add", form, map[string]string{"username": "bob"}), "bob")
	rr := httptest.NewRecorder()
	h.AddSubmit(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404 when the owner no longer exists", rr.Code)
	}
}

func TestUpdateSubmit_PartialTitleOnly(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	expectFeedbackByID(db, 1, "old", "keep me", "bob")
	db.Mock.ExpectQuery(`UPDATE feedback`).
		WithArgs("new title", "", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "username"}).
			AddRow(1, "new title", "keep me", "bob"))

	h := newFeedbackHandler(db)
	form := url.Values{"title": {"new title"}, "content": {""}}
	req := asUser(requestWithChiURLParams("POST", "/feedback/1/update", form, map[string]string{"id": "1"}), "bob")
	rr := httptest.NewRecorder()
	h.UpdateSubmit(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d %q, want 302 /", rr.Code, rr.Header().Get("Location"))
	}
	if err := db.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUpdateSubmit_BothEmptyIsNoop(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	// Ownership lookup, then the empty update reads the row back; no UPDATE runs.
	expectFeedbackByID(db, 1, "title", "content", "bob")
	expectFeedbackByID(db, 1, "title", "content", "bob")

	h := newFeedbackHandler(db)
	form := url.Values{"title": {""}, "content": {""}}
	req := asUser(requestWithChiURLParams("POST", "/feedback/1/update", form, map[string]string{"id": "1"}), "bob")
	rr := httptest.NewRecorder()
	h.UpdateSubmit(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d %q, want 302 /", rr.Code, rr.Header().Get("Location"))
	}
	if err := db.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUpdateSubmit_NonOwnerDenied(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	// bob tries to edit carol's feedback; the row is read but never written.
	expectFeedbackByID(db, 7, "carols", "entry", "carol")

	h := newFeedbackHandler(db)
	form := url.Values{"title": {"hijack"}, "content": {"attempt"}}
	req := asUser(requestWithChiURLParams("POST", "/feedback/7/update", form, map[string]string{"id": "7"}), "bob")
	rr := httptest.NewRecorder()
	h.UpdateSubmit(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d %q, want 302 / (denial)", rr.Code, rr.Header().Get("Location"))
	}
	if err := db.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUpdateSubmit_NotFound(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	db.Mock.ExpectQuery(`SELECT id, title, content, username`).
		WithArgs(999).
		WillReturnError(errNoRows())

	h := newFeedbackHandler(db)
	form := url.Values{"title": {"t"}, "content": {"c"}}
	req := asUser(requestWithChiURLParams("POST", "/feedback/999/update", form, map[string]string{"id": "999"}), "bob")
	rr := httptest.NewRecorder()
	h.UpdateSubmit(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestUpdateSubmit_InvalidID(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	h := newFeedbackHandler(db)
	req := asUser(requestWithChiURLParams("POST", "/feedback/abc/update", url.Values{}, map[string]string{"id": "abc"}), "bob")
	rr := httptest.NewRecorder()
	h.UpdateSubmit(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestDelete_Owner(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	expectFeedbackByID(db, 1, "t", "c", "bob")
	db.Mock.ExpectExec(`DELETE FROM feedback WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := newFeedbackHandler(db)
	req := asUser(requestWithChiURLParams("POST", "/feedback/1/delete", url.Values{}, map[string]string{"id": "1"}), "bob")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d %q, want 302 /", rr.Code, rr.Header().Get("Location"))
	}
	if err := db.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestDelete_NonOwnerDenied(t *testing.T) {
	db := newMockDB(t)
	defer db.Close()

	expectFeedbackByID(db, 1, "t", "c", "carol")

	h := newFeedbackHandler(db)
	req := asUser(requestWithChiURLParams("POST", "/feedback/1/delete", url.Values{}, map[string]string{"id": "1"}), "bob")
	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Errorf("got %d %q, want 302 / (denial)", rr.Code, rr.Header().Get("Location"))
	}
	if err := db.Mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
