package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gosimple/slug"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/repository"
)

// CategoryHandler bundles the category repository for catalog endpoints.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewCategoryHandler(r *repository.CategoryRepo) *CategoryHandler {
	return &CategoryHandler{Categories: r}
}

// CreateCategory handles POST /v1/categories (admin).
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Categories.GetByName(ctx, name); err == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "category already exists"})
	} else if !errors.Is(err, repository.ErrCategoryNotFound) {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	cat := &repository.Category{Name: name, Slug: slug.Make(name)}
	if err := h.Categories.Create(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create category"})
	}
	return c.JSON(http.StatusCreated, cat)
}

// ListCategories handles GET /v1/categories.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	items, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// GetCategory handles GET /v1/categories/:slug.
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	cat, err := h.Categories.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, cat)
}

// UpdateCategory handles PUT /v1/categories/:id (admin). Renaming refreshes
// the slug as well, keeping public URLs consistent with the name.
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	ctx := c.Request().Context()
	if err := h.Categories.Update(ctx, id, name, slug.Make(name)); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "category not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, map[string]string{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	updated, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteCategory handles DELETE /v1/categories/:id (admin).
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
