package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user/entity"
)

func newMockRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(sqlx.NewDb(db, "postgres")), mock
}

func userRows() *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow("42", "A", "a@x.com", "$2a$hash", "customer", now, now)
}

func TestCreate(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, name, email, password_hash, role)")).
		WithArgs("42", "A", "a@x.com", "$2a$hash", "customer").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Create(context.Background(), &entity.User{ID: "42", Name: "A", Email: "a@x.com", PasswordHash: "$2a$hash", Role: "customer"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	err := r.Create(context.Background(), &entity.User{ID: "1", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateOtherError(t *testing.T) {
	r, mock := newMockRepo(t)
	boom := errors.New("conn reset")
	mock.ExpectExec("INSERT INTO users").WillReturnError(boom)

	err := r.Create(context.Background(), &entity.User{ID: "1", Email: "a@x.com"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetByEmail(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=$1")).
		WithArgs("a@x.com").
		WillReturnRows(userRows())

	u, err := r.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "42", u.ID)
	assert.Equal(t, "$2a$hash", u.PasswordHash)
	assert.Equal(t, "customer", u.Role)
}

func TestGetByEmailNotFound(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := r.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID(t *testing.T) {
	r, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=$1")).
		WithArgs("42").
		WillReturnRows(userRows())

	u, err := r.GetByID(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, entity.PublicUser{ID: "42", Name: "A", Email: "a@x.com", Role: "customer"}, u.Public())
}
