package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/record-store/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject into the request context under "user_id".
// The provided secret must match the one used when issuing tokens.
//
// Every failure path terminates the request with a 401 before the next
// handler runs: a request with a missing, malformed, expired or
// wrongly-signed token must never reach a handler that assumes an
// authenticated principal. The sub-reason is logged but not returned.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            uid, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                c.Logger().Debugf("token rejected: %v", err)
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Only the principal identifier is trusted from the token.
            // Role and other mutable attributes are looked up fresh by
            // RequireAdmin where needed.
            c.Set("user_id", uid)
            return next(c)
        }
    }
}
