package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/repository"
)

// Storefront paging constants: the landing page shows the newest dozen
// records, paged browsing walks four at a time, related suggestions cap at
// three.
const (
	latestLimit  = 12
	pageSize     = 4
	relatedLimit = 3
)

// ProductHandler bundles the repositories needed by catalog endpoints.
type ProductHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
}

func NewProductHandler(p *repository.ProductRepo, c *repository.CategoryRepo) *ProductHandler {
	return &ProductHandler{Products: p, Categories: c}
}

type productReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  uint64 `json:"price_cents"`
	CategoryID  uint64 `json:"category_id"`
	Quantity    uint32 `json:"quantity"`
	Artists     string `json:"artists"`
	Shipping    bool   `json:"shipping"`
}

// validate reports the first missing required field, mirroring the
// storefront's field-by-field error messages.
func (r *productReq) validate() string {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return "name is required"
	case strings.TrimSpace(r.Description) == "":
		return "description is required"
	case r.PriceCents == 0:
		return "price is required"
	case r.CategoryID == 0:
		return "category is required"
	case r.Quantity == 0:
		return "quantity is required"
	case strings.TrimSpace(r.Artists) == "":
		return "artists is required"
	}
	return ""
}

// CreateProduct handles POST /v1/products (admin).
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()
	if _, err := h.Categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "category does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	p := &repository.Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
		Quantity:    req.Quantity,
		Artists:     req.Artists,
		Shipping:    req.Shipping,
	}
	if err := h.Products.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "product already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create product"})
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct handles PUT /v1/products/:id (admin).
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx := c.Request().Context()
	if _, err := h.Categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "category does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	p := &repository.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		CategoryID:  req.CategoryID,
		Quantity:    req.Quantity,
		Artists:     req.Artists,
		Shipping:    req.Shipping,
	}
	if err := h.Products.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, map[string]string{"error": "product already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	updated, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct handles DELETE /v1/products/:id (admin).
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Products.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProducts handles GET /v1/products and returns the newest records.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	items, err := h.Products.ListLatest(c.Request().Context(), latestLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"count": len(items), "items": items})
}

// GetProduct handles GET /v1/products/:slug.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	p, err := h.Products.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// CountProducts handles GET /v1/products/count.
func (h *ProductHandler) CountProducts(c echo.Context) error {
	total, err := h.Products.Count(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"total": total})
}

// ListProductPage handles GET /v1/products/page/:page.
func (h *ProductHandler) ListProductPage(c echo.Context) error {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		page = 1
	}
	items, err := h.Products.ListPage(c.Request().Context(), page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"page": page, "items": items})
}

// SearchProducts handles GET /v1/products/search/:keyword.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	keyword := strings.TrimSpace(c.Param("keyword"))
	if keyword == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "keyword is required"})
	}
	items, err := h.Products.Search(c.Request().Context(), keyword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// FilterProducts handles POST /v1/products/filter with optional category ids
// and an inclusive price range in cents.
func (h *ProductHandler) FilterProducts(c echo.Context) error {
	var body struct {
		Categories []uint64 `json:"categories"`
		PriceMin   *uint64  `json:"price_min"`
		PriceMax   *uint64  `json:"price_max"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	items, err := h.Products.Filter(c.Request().Context(), repository.ProductFilter{
		CategoryIDs: body.Categories,
		MinCents:    body.PriceMin,
		MaxCents:    body.PriceMax,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// RelatedProducts handles GET /v1/products/related/:pid/:cid.
func (h *ProductHandler) RelatedProducts(c echo.Context) error {
	pid, err := parseID(c, "pid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid product id"})
	}
	cid, err := parseID(c, "cid")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid category id"})
	}
	items, err := h.Products.Related(c.Request().Context(), pid, cid, relatedLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// ProductsByCategory handles GET /v1/products/category/:slug.
func (h *ProductHandler) ProductsByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	cat, err := h.Categories.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	items, err := h.Products.ListByCategory(ctx, cat.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"category": cat, "items": items})
}
