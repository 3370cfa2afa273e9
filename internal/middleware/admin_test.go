package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/record-store/internal/repository"
)

const userByIDQuery = "SELECT id,name,dob,gender,contact,email,address,username,password_digest,role,answer_digest,created_at,updated_at FROM users WHERE id=? LIMIT 1"

func userRow(id uint64, role int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "dob", "gender", "contact", "email", "address",
		"username", "password_digest", "role", "answer_digest", "created_at", "updated_at",
	}).AddRow(id, "Ada", "1990-01-01", "f", "555-0100", "ada@example.com", "1 Main St",
		"ada", "aa:bb", role, "cc:dd", now, now)
}

// invokeAdmin runs RequireAdmin with a context already carrying uid (as
// JWTAuth would have left it) and a mocked user store.
func invokeAdmin(t *testing.T, uid any, prep func(sqlmock.Sqlmock)) int {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	if prep != nil {
		prep(mock)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != nil {
		c.Set("user_id", uid)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, RequireAdmin(repository.NewUserRepo(db))(next)(c))
	require.NoError(t, mock.ExpectationsWereMet())
	return rec.Code
}

func TestRequireAdminNoSubject(t *testing.T) {
	t.Parallel()

	// JWTAuth never ran, nothing in the context.
	require.Equal(t, http.StatusUnauthorized, invokeAdmin(t, nil, nil))
}

func TestRequireAdminAdmits(t *testing.T) {
	t.Parallel()

	code := invokeAdmin(t, uint64(1), func(m sqlmock.Sqlmock) {
		m.ExpectQuery(userByIDQuery).WithArgs(uint64(1)).WillReturnRows(userRow(1, 1))
	})
	require.Equal(t, http.StatusOK, code)
}

func TestRequireAdminRejectsStandardUser(t *testing.T) {
	t.Parallel()

	code := invokeAdmin(t, uint64(2), func(m sqlmock.Sqlmock) {
		m.ExpectQuery(userByIDQuery).WithArgs(uint64(2)).WillReturnRows(userRow(2, 0))
	})
	require.Equal(t, http.StatusForbidden, code)
}

func TestRequireAdminOrphanedToken(t *testing.T) {
	t.Parallel()

	// Valid token, but its subject was deleted: treat like a bad credential.
	code := invokeAdmin(t, uint64(3), func(m sqlmock.Sqlmock) {
		m.ExpectQuery(userByIDQuery).WithArgs(uint64(3)).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	})
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRequireAdminLookupFailure(t *testing.T) {
	t.Parallel()

	code := invokeAdmin(t, uint64(4), func(m sqlmock.Sqlmock) {
		m.ExpectQuery(userByIDQuery).WithArgs(uint64(4)).WillReturnError(errors.New("connection reset"))
	})
	require.Equal(t, http.StatusInternalServerError, code)
}
