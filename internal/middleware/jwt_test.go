package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/record-store/internal/utils"
)

const jwtTestSecret = "middleware-test-secret"

// invoke runs the JWTAuth middleware against a request carrying the given
// Authorization header and reports the observed status plus whatever ended
// up in the context under "user_id".
func invokeJWT(t *testing.T, authHeader string) (int, any) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured any
	next := func(c echo.Context) error {
		captured = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	}
	err := JWTAuth(jwtTestSecret)(next)(c)
	require.NoError(t, err)
	return rec.Code, captured
}

func TestJWTAuthMissingHeader(t *testing.T) {
	t.Parallel()

	code, uid := invokeJWT(t, "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Nil(t, uid)
}

func TestJWTAuthNotBearer(t *testing.T) {
	t.Parallel()

	code, uid := invokeJWT(t, "Basic dXNlcjpwYXNz")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Nil(t, uid)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	t.Parallel()

	code, uid := invokeJWT(t, "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Nil(t, uid)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	t.Parallel()

	access, err := utils.NewAccessToken("some other secret", 9, 1)
	require.NoError(t, err)

	code, uid := invokeJWT(t, "Bearer "+access.Token)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Nil(t, uid)
}

func TestJWTAuthValidToken(t *testing.T) {
	t.Parallel()

	access, err := utils.NewAccessToken(jwtTestSecret, 9, 1)
	require.NoError(t, err)

	code, uid := invokeJWT(t, "Bearer "+access.Token)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, uint64(9), uid)
}
