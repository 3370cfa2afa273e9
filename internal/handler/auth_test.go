package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/record-store/internal/config"
	"github.com/iliyamo/record-store/internal/repository"
	"github.com/iliyamo/record-store/internal/utils"
)

var testCfg = config.Config{JWTSecret: "handler-test-secret", TokenTTLHours: 168}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAuthHandler(testCfg, repository.NewUserRepo(db)), mock
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func userRowWithDigest(t *testing.T, id uint64, email, password string) *sqlmock.Rows {
	t.Helper()
	digest, err := utils.HashPassword(password)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "dob", "gender", "contact", "email", "address",
		"username", "password_digest", "role", "answer_digest", "created_at", "updated_at",
	}).AddRow(id, "Ada", "1990-01-01", "f", "555-0100", email, "1 Main St",
		"ada", digest, 0, digest, now, now)
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, payload := postJSON(t, h.Login, "/v1/auth/login",
		`{"email":"ghost@example.com","password":"whatever"}`)

	// Unknown email is distinguishable from a wrong password.
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, false, payload["success"])
	require.Equal(t, "email is not registered", payload["message"])
	require.NotContains(t, payload, "token")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ada@example.com").
		WillReturnRows(userRowWithDigest(t, 1, "ada@example.com", "right-password"))

	rec, payload := postJSON(t, h.Login, "/v1/auth/login",
		`{"email":"ada@example.com","password":"wrong-password"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, payload["success"])
	require.Equal(t, "invalid password", payload["message"])
	require.NotContains(t, payload, "token")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	t.Parallel()
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ada@example.com").
		WillReturnRows(userRowWithDigest(t, 7, "ada@example.com", "right-password"))

	rec, payload := postJSON(t, h.Login, "/v1/auth/login",
		`{"email":"Ada@Example.com","password":"right-password"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, payload["success"])

	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	uid, err := utils.ParseAccessToken(testCfg.JWTSecret, token)
	require.NoError(t, err)
	require.Equal(t, uint64(7), uid)

	// The response exposes only the public projection, never a digest.
	user, _ := payload["user"].(map[string]any)
	require.NotNil(t, user)
	require.NotContains(t, user, "password_digest")
	require.NotContains(t, user, "PasswordDigest")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterShortPassword(t *testing.T) {
	t.Parallel()
	h, _ := newAuthHandler(t)

	rec, payload := postJSON(t, h.Register, "/v1/auth/register",
		`{"name":"Ada","email":"ada@example.com","username":"ada","password":"12345","answer":"first record"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, false, payload["success"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ada@example.com").
		WillReturnRows(userRowWithDigest(t, 1, "ada@example.com", "pw-irrelevant"))

	rec, payload := postJSON(t, h.Register, "/v1/auth/register",
		`{"name":"Ada","email":"ada@example.com","username":"ada2","password":"longenough","answer":"first record"}`)

	// Duplicate registration reports through the success flag, not an error
	// status.
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, payload["success"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordWrongAnswer(t *testing.T) {
	t.Parallel()
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ada@example.com").
		WillReturnRows(userRowWithDigest(t, 1, "ada@example.com", "stored-answer"))

	rec, payload := postJSON(t, h.ForgotPassword, "/v1/auth/forgot-password",
		`{"email":"ada@example.com","newPassword":"brand-new-pw","answer":"not the answer"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, false, payload["success"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordResets(t *testing.T) {
	t.Parallel()
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
		WithArgs("ada@example.com").
		WillReturnRows(userRowWithDigest(t, 1, "ada@example.com", "stored-answer"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_digest=?")).
		WithArgs(sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, payload := postJSON(t, h.ForgotPassword, "/v1/auth/forgot-password",
		`{"email":"ada@example.com","newPassword":"brand-new-pw","answer":"stored-answer"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, payload["success"])
	require.NoError(t, mock.ExpectationsWereMet())
}
