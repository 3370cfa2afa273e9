package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/config"
	"github.com/iliyamo/record-store/internal/repository"
	"github.com/iliyamo/record-store/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
	Contact  string `json:"contact"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password"`
	Answer   string `json:"answer"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotPasswordReq struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
	Answer      string `json:"answer"`
}

// userPart is the public projection of a principal. Digests never leave the
// repository layer through this type.
type userPart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Username string `json:"username"`
	Role     int    `json:"role"`
}

func publicUser(u repository.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Contact: u.Contact, Username: u.Username, Role: u.Role}
}

// Register creates a new user account. Duplicate email/username is reported
// with a success-flagged body rather than an error status, matching the
// storefront contract. Passwords shorter than six characters are rejected
// before any hashing work is done.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Name == "" || req.Email == "" || req.Username == "" || req.Password == "" || req.Answer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "name, email, username, password and answer are required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "already registered, please login"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "registration failed"})
	}
	if _, err := h.Users.GetByUsername(ctx, req.Username); err == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "username already taken, try a different one"})
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "registration failed"})
	}

	u := repository.User{
		Name:     req.Name,
		DOB:      req.DOB,
		Gender:   req.Gender,
		Contact:  req.Contact,
		Email:    req.Email,
		Address:  req.Address,
		Username: req.Username,
	}
	uid, err := h.Users.Create(ctx, &u, req.Password, req.Answer)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost the race against a concurrent registration; the unique
			// index is the arbiter, not the pre-checks above.
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "already registered, please login"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "registration failed"})
	}
	u.ID = uid

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "registered successfully",
		"user":    publicUser(u),
	})
}

// Login verifies credentials and returns a signed token. Per the storefront
// contract an unknown email and a wrong password are distinguishable to the
// caller; neither response carries a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid email or password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "email is not registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "login failed"})
	}
	if !utils.VerifyPassword(req.Password, u.PasswordDigest) {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "invalid password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "login failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "login successful",
		"user":    publicUser(u),
		"token":   access.Token,
		"expires": access.Exp,
	})
}

// ForgotPassword resets a password after the stored security answer matches.
// The answer is verified against its digest the same way passwords are.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.NewPassword == "" || req.Answer == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email, newPassword and answer are required"})
	}
	if len(req.NewPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "something went wrong"})
	}
	if !utils.VerifyPassword(req.Answer, u.AnswerDigest) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "incorrect answer"})
	}
	if err := h.Users.UpdatePasswordDigest(ctx, u.ID, req.NewPassword); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "something went wrong"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "password reset successfully"})
}

// UserAuth is the probe endpoint clients use to check that their token is
// still accepted. Reaching it at all means JWTAuth admitted the request.
func (h *AuthHandler) UserAuth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// AdminAuth is the admin probe; RequireAdmin has already re-checked the role.
func (h *AuthHandler) AdminAuth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Me returns the authenticated user's public profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, publicUser(u))
}
