package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/handler"
)

// RegisterCatalog registers the unauthenticated storefront endpoints. These
// return sanitized catalog data for guests; no JWT or role middleware is
// applied. The optional cache middleware is threaded in by the caller so
// repeated browse requests can be served from Redis.
func RegisterCatalog(e *echo.Echo, p *handler.ProductHandler, cat *handler.CategoryHandler, sub *handler.SubscriberHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}

	// Category browsing.
	g.GET("/categories", cat.ListCategories)
	g.GET("/categories/:slug", cat.GetCategory)

	// Product browsing.  Static segments (count, page, search, related,
	// category, filter) are registered alongside the :slug detail route;
	// Echo resolves static children before the param child.
	g.GET("/products", p.ListProducts)
	g.GET("/products/count", p.CountProducts)
	g.GET("/products/page/:page", p.ListProductPage)
	g.GET("/products/search/:keyword", p.SearchProducts)
	g.GET("/products/related/:pid/:cid", p.RelatedProducts)
	g.GET("/products/category/:slug", p.ProductsByCategory)
	g.GET("/products/:slug", p.GetProduct)
	g.POST("/products/filter", p.FilterProducts)

	// Newsletter signup stays outside the cache group: it is a write and
	// its response carries the freshly created subscriber.
	e.POST("/v1/subscribers", sub.Subscribe)
}
