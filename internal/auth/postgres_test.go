package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockStore(t *testing.T) (*PGStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewPGStore(db), mock, func() { db.Close() }
}

func TestPGStoreCreate(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("insert into users").
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", "hashed", true, false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	u := &User{Username: "alice", Email: "alice@example.com", PasswordHash: "hashed", IsActive: true}
	if err := store.Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if !u.CreatedAt.Equal(now) {
		t.Fatalf("unexpected created_at: %v", u.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreCreateDuplicateEmail(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery("insert into users").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "users_email_key"})

	u := &User{Username: "alice", Email: "alice@example.com", PasswordHash: "hashed", IsActive: true}
	err := store.Create(context.Background(), u)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestPGStoreFindByIDNotFound(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery("select (.+) from users where id=").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreFindByEmailWithSecret(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "username", "email", "password_changed_at", "last_login_at",
		"is_active", "is_verified", "created_at", "updated_at", "password_hash",
	}).AddRow("u1", "alice", "alice@example.com", nil, nil, true, false, now, now, "hashed")

	mock.ExpectQuery("select (.+), password_hash from users where email=").
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	u, err := store.FindByEmailWithSecret(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmailWithSecret: %v", err)
	}
	if u.PasswordHash != "hashed" {
		t.Fatalf("expected hash to be loaded, got %q", u.PasswordHash)
	}
	if u.PasswordChangedAt != nil {
		t.Fatalf("expected nil password_changed_at, got %v", u.PasswordChangedAt)
	}
}

func TestPGStoreUpdateDuplicateEmail(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery("update users set").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	email := "taken@example.com"
	_, err := store.Update(context.Background(), "u1", UserUpdate{Email: &email})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestPGStoreDeleteNotFound(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec("delete from users").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreTouchLastLogin(t *testing.T) {
	store, mock, done := newMockStore(t)
	defer done()

	at := time.Now().UTC()
	mock.ExpectExec("update users set last_login_at=").
		WithArgs("u1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.TouchLastLogin(context.Background(), "u1", at); err != nil {
		t.Fatalf("TouchLastLogin: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
