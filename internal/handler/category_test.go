package handler

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/record-store/internal/repository"
)

func newCategoryHandler(t *testing.T) (*CategoryHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCategoryHandler(repository.NewCategoryRepo(db)), mock
}

func TestCreateCategorySlugifiesName(t *testing.T) {
	t.Parallel()
	h, mock := newCategoryHandler(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE name = ?")).
		WithArgs("Modern Jazz").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO categories (name, slug) VALUES (?, ?)")).
		WithArgs("Modern Jazz", "modern-jazz").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at, updated_at FROM categories")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	rec, payload := postJSON(t, h.CreateCategory, "/v1/categories", `{"name":"Modern Jazz"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "modern-jazz", payload["slug"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	t.Parallel()
	h, mock := newCategoryHandler(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE name = ?")).
		WithArgs("Rock").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}).
			AddRow(1, "Rock", "rock", now, now))

	rec, payload := postJSON(t, h.CreateCategory, "/v1/categories", `{"name":"Rock"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "category already exists", payload["error"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryMissingName(t *testing.T) {
	t.Parallel()
	h, _ := newCategoryHandler(t)

	rec, payload := postJSON(t, h.CreateCategory, "/v1/categories", `{"name":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "name is required", payload["error"])
}
