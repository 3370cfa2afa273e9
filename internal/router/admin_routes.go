package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/handler"
	"github.com/iliyamo/record-store/internal/middleware"
	"github.com/iliyamo/record-store/internal/repository"
)

// RegisterAdmin registers every endpoint that requires the admin role.  The
// group first authenticates the token, then re-reads the caller's role from
// the database; a token alone never proves admin standing.
func RegisterAdmin(
	e *echo.Echo,
	a *handler.AuthHandler,
	u *handler.UserHandler,
	cat *handler.CategoryHandler,
	p *handler.ProductHandler,
	o *handler.OrderHandler,
	sub *handler.SubscriberHandler,
	jwtSecret string,
	users *repository.UserRepo,
) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireAdmin(users))

	// Probe used by the storefront to decide whether to render the admin
	// dashboard.
	g.GET("/auth/admin-auth", a.AdminAuth)

	// User management.
	g.GET("/users", u.ListUsers)
	g.GET("/users/:id", u.GetUser)
	g.PATCH("/users/:id", u.UpdateUser)
	g.DELETE("/users/:id", u.DeleteUser)

	// Catalog writes.  Reads stay public; only mutation needs the role.
	g.POST("/categories", cat.CreateCategory)
	g.PUT("/categories/:id", cat.UpdateCategory)
	g.DELETE("/categories/:id", cat.DeleteCategory)
	g.POST("/products", p.CreateProduct)
	g.PUT("/products/:id", p.UpdateProduct)
	g.DELETE("/products/:id", p.DeleteProduct)

	// Order administration.
	g.GET("/admin/orders", o.ListAllOrders)
	g.PATCH("/admin/orders/:id/status", o.UpdateOrderStatus)

	// Newsletter audience.
	g.GET("/subscribers", sub.ListSubscribers)
}
