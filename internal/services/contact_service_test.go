package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"agenda/internal/apperrors"
)

func newContactServiceWithMock(t *testing.T) (*ContactService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewContactService(db), mock, db
}

const insertContactQ = "INSERT INTO contacts (user_id, name, number, email, notes) VALUES ($1, $2, $3, $4, $5) RETURNING id"

func TestAdd_Success(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(insertContactQ)).
		WithArgs(1, "Bob", "123", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	c, err := svc.Add(context.Background(), 1, "Bob", "123", nil, nil)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if c.ID != 10 || c.UserID != 1 || c.Name != "Bob" || c.Number != "123" {
		t.Fatalf("unexpected contact: %+v", c)
	}
}

func TestAdd_MissingFields(t *testing.T) {
	svc, _, db := newContactServiceWithMock(t)
	defer db.Close()

	if _, err := svc.Add(context.Background(), 1, "", "123", nil, nil); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("missing name: want ErrValidation, got %v", err)
	}
	if _, err := svc.Add(context.Background(), 1, "Bob", "", nil, nil); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("missing number: want ErrValidation, got %v", err)
	}
}

// The same number twice for one owner violates the (user_id, number)
// constraint; the same number under another owner inserts fine.
func TestAdd_DuplicateNumberPerOwner(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(insertContactQ)).
		WithArgs(1, "Bob again", "123", nil, nil).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "contacts_user_id_number_key"})

	_, err := svc.Add(context.Background(), 1, "Bob again", "123", nil, nil)
	if !errors.Is(err, apperrors.ErrDuplicate) {
		t.Fatalf("same owner: want ErrDuplicate, got %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(insertContactQ)).
		WithArgs(2, "Bob", "123", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	if _, err := svc.Add(context.Background(), 2, "Bob", "123", nil, nil); err != nil {
		t.Fatalf("other owner: unexpected error %v", err)
	}
}

func TestList_NoSearch(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, number, email, notes FROM contacts WHERE user_id = $1 ORDER BY name ASC")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number", "email", "notes"}).
			AddRow(10, "Alice", "111", nil, nil).
			AddRow(11, "Bob", "123", "bob@x.com", "gym"))

	contacts, err := svc.List(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(contacts) != 2 || contacts[0].Name != "Alice" || contacts[1].Name != "Bob" {
		t.Fatalf("unexpected contacts: %+v", contacts)
	}
}

func TestList_SearchFiltersNameOrNumber(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	q := "SELECT id, name, number, email, notes FROM contacts WHERE user_id = $1" +
		" AND (name ILIKE '%' || $2 || '%' OR number ILIKE '%' || $2 || '%') ORDER BY name ASC"
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs(1, "bo").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number", "email", "notes"}).
			AddRow(11, "Bob", "123", nil, nil))

	contacts, err := svc.List(context.Background(), 1, "bo")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(contacts) != 1 || contacts[0].Name != "Bob" {
		t.Fatalf("unexpected contacts: %+v", contacts)
	}
}

const getContactQ = "SELECT id, name, number, email, notes FROM contacts WHERE id = $1 AND user_id = $2"

func TestGet_Success(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(getContactQ)).
		WithArgs(10, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "number", "email", "notes"}).
			AddRow(10, "Alice", "111", nil, nil))

	c, err := svc.Get(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if c.ID != 10 || c.Name != "Alice" {
		t.Fatalf("unexpected contact: %+v", c)
	}
}

// A contact owned by someone else produces the same ErrNotFound as a contact
// that does not exist; the owner scope is part of the lookup itself.
func TestGet_OtherOwnersContactIsNotFound(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(getContactQ)).
		WithArgs(10, 2).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Get(context.Background(), 2, 10)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

const updateContactQ = "UPDATE contacts SET name = $1, number = $2, email = $3, notes = $4 WHERE id = $5 AND user_id = $6"

func TestUpdate_Success(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	notes := "work"
	mock.ExpectExec(regexp.QuoteMeta(updateContactQ)).
		WithArgs("Bob", "456", nil, "work", 10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, err := svc.Update(context.Background(), 1, 10, "Bob", "456", nil, &notes)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if c.ID != 10 || c.Number != "456" || c.Notes == nil || *c.Notes != "work" {
		t.Fatalf("unexpected contact: %+v", c)
	}
}

func TestUpdate_MissingFields(t *testing.T) {
	svc, _, db := newContactServiceWithMock(t)
	defer db.Close()

	_, err := svc.Update(context.Background(), 1, 10, "Bob", "", nil, nil)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestUpdate_DuplicateNumber(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(updateContactQ)).
		WithArgs("Bob", "111", nil, nil, 10, 1).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "contacts_user_id_number_key"})

	_, err := svc.Update(context.Background(), 1, 10, "Bob", "111", nil, nil)
	if !errors.Is(err, apperrors.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestUpdate_NotOwned(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(updateContactQ)).
		WithArgs("Bob", "456", nil, nil, 10, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Update(context.Background(), 2, 10, "Bob", "456", nil, nil)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

const deleteContactQ = "DELETE FROM contacts WHERE id = $1 AND user_id = $2"

func TestDelete_Success(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(deleteContactQ)).
		WithArgs(10, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Delete(context.Background(), 1, 10); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotOwned(t *testing.T) {
	svc, mock, db := newContactServiceWithMock(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(deleteContactQ)).
		WithArgs(10, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), 2, 10)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
