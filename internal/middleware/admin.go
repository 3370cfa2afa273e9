package middleware // middleware provides shared request processing for handlers

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/record-store/internal/repository"
)

// RequireAdmin returns a middleware that enforces administrator access.
// It assumes JWTAuth has already run and stored the authenticated user's
// ID in the context. The user record is re-fetched on every request and
// the role flag checked against the store, never against the token:
// demoting an administrator takes effect on their very next request even
// though their token remains valid.
func RequireAdmin(users *repository.UserRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            uid, ok := c.Get("user_id").(uint64)
            if !ok || uid == 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }

            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()

            u, err := users.GetByID(ctx, uid)
            if err != nil {
                // A token whose subject no longer resolves to a principal is
                // an orphaned credential, not a server error.
                if errors.Is(err, repository.ErrUserNotFound) {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role lookup failed"})
            }
            if u.Role == 0 {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
