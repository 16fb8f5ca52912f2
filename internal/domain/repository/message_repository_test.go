package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupMessageMock(t *testing.T) (MessageRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPgMessageRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func messageRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "username", "message", "created_at"}).
		AddRow(int64(4), "alice", "hello @bob!", created).
		AddRow(int64(5), "bob", "hi back", created)
}

func TestListAll(t *testing.T) {
	repo, mock, cleanup := setupMessageMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.id > $1`)).
		WithArgs(int64(3), 10).
		WillReturnRows(messageRows(t))

	messages, err := repo.ListAll(context.Background(), 10, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ID != 4 || messages[0].Username != "alice" || messages[0].Text != "hello @bob!" {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[1].ID != 5 {
		t.Errorf("expected ascending id order, got %+v", messages)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListByUser(t *testing.T) {
	repo, mock, cleanup := setupMessageMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.user_id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(messageRows(t))

	messages, err := repo.ListByUser(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(messages))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestListTagged(t *testing.T) {
	repo, mock, cleanup := setupMessageMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.message ILIKE $1`)).
		WithArgs("%@bob%").
		WillReturnRows(messageRows(t))

	messages, err := repo.ListTagged(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(messages))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// LIKE metacharacters in a username must not widen the tag pattern.
func TestListTagged_EscapesPatternCharacters(t *testing.T) {
	repo, mock, cleanup := setupMessageMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.message ILIKE $1`)).
		WithArgs(`%@b\_b\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "message", "created_at"}))

	if _, err := repo.ListTagged(context.Background(), "b_b%"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateMessage(t *testing.T) {
	repo, mock, cleanup := setupMessageMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO messages (user_id, message)`)).
		WithArgs(int64(1), "hi").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := repo.Create(context.Background(), 1, "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPurgeAll(t *testing.T) {
	repo, mock, cleanup := setupMessageMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM messages`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.PurgeAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
