package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/handler"
	"github.com/iliyamo/record-store/internal/middleware"
)

// RegisterAuth registers all authentication related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.  The limiter guards the
// credential endpoints against brute force; it may be nil in tests.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, o *handler.OrderHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	// Operations that do not require an existing session: register, login
	// and the security-question password reset.
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/forgot-password", a.ForgotPassword)

	// Routes below require a valid access token.  The JWTAuth middleware
	// runs before every handler registered on this group and stores the
	// subject id in the request context.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Probe used by the storefront to check whether a stored token is
	// still accepted.
	auth.GET("/auth/user-auth", a.UserAuth)
	// Returns the authenticated user's own profile.
	auth.GET("/me", a.Me)

	// Orders belong to the signed-in user; creation and listing both sit
	// behind the token gate.
	auth.POST("/orders", o.CreateOrder)
	auth.GET("/orders", o.ListMyOrders)
}
