package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/repository"
)

// UserHandler bundles dependencies for the admin user-management endpoints.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

// fullUser is the admin projection of a principal: profile fields included,
// digests still withheld.
type fullUser struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	DOB       string    `json:"dob"`
	Gender    string    `json:"gender"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Username  string    `json:"username"`
	Role      int       `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func adminUser(u repository.User) fullUser {
	return fullUser{
		ID: u.ID, Name: u.Name, DOB: u.DOB, Gender: u.Gender, Contact: u.Contact,
		Email: u.Email, Address: u.Address, Username: u.Username, Role: u.Role,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

// ListUsers handles GET /v1/users (admin).
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]fullUser, 0, len(users))
	for _, u := range users {
		out = append(out, adminUser(u))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": out})
}

// GetUser handles GET /v1/users/:id (admin).
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, adminUser(u))
}

// UpdateUser handles PATCH /v1/users/:id (admin). Omitted fields keep their
// current value. Role is settable here and only here: this route sits
// behind the admin guard, which is the trusted administrative path for
// role elevation.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Name    *string `json:"name"`
		DOB     *string `json:"dob"`
		Gender  *string `json:"gender"`
		Contact *string `json:"contact"`
		Address *string `json:"address"`
		Role    *int    `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	if body.Name != nil {
		u.Name = *body.Name
	}
	if body.DOB != nil {
		u.DOB = *body.DOB
	}
	if body.Gender != nil {
		u.Gender = *body.Gender
	}
	if body.Contact != nil {
		u.Contact = *body.Contact
	}
	if body.Address != nil {
		u.Address = *body.Address
	}
	if err := h.Users.UpdateProfile(ctx, id, u.Name, u.DOB, u.Gender, u.Contact, u.Address); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "contact already in use"})
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	if body.Role != nil && *body.Role != u.Role {
		if err := h.Users.UpdateRole(ctx, id, *body.Role); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
		}
		u.Role = *body.Role
	}
	return c.JSON(http.StatusOK, adminUser(u))
}

// DeleteUser handles DELETE /v1/users/:id (admin). Tokens already issued to
// the deleted user become orphaned; the guards reject them on the next
// request because the subject no longer resolves.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
