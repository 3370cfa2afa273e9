package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/queue"
	"github.com/iliyamo/record-store/internal/repository"
	queue_publisher "github.com/iliyamo/record-store/internal/service"
)

// SubscriberHandler bundles dependencies for newsletter endpoints.
type SubscriberHandler struct {
	Subscribers *repository.SubscriberRepo
}

func NewSubscriberHandler(r *repository.SubscriberRepo) *SubscriberHandler {
	return &SubscriberHandler{Subscribers: r}
}

// Subscribe handles POST /v1/subscribers. The welcome mail is dispatched
// asynchronously over the broker; a broker outage never fails the
// subscription itself.
func (h *SubscriberHandler) Subscribe(c echo.Context) error {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Name == "" || body.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "name and email are required"})
	}

	s := &repository.Subscriber{Name: body.Name, Email: body.Email}
	if err := h.Subscribers.Create(c.Request().Context(), s); err != nil {
		if errors.Is(err, repository.ErrSubscriberExists) {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "already subscribed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "subscription failed"})
	}

	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishSubscriberJoined(pubCtx, queue.SubscriberJoinedEvent{
		SubscriberID: s.ID,
		Name:         s.Name,
		Email:        s.Email,
		JoinedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"success":    true,
		"message":    "subscribed successfully",
		"subscriber": s,
	})
}

// ListSubscribers handles GET /v1/subscribers (admin).
func (h *SubscriberHandler) ListSubscribers(c echo.Context) error {
	items, err := h.Subscribers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
