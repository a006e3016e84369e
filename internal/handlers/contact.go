package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/glowshop/backend/internal/models"
	"github.com/glowshop/backend/internal/mykafka"
)

type ContactHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// Create appends a contact message. There is no update or delete path.
func (h *ContactHandler) Create(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	msg := models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name and message are required")
	}

	if err := h.DB.Create(&msg).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publishEvent(c, h.Producer, "contact_events", map[string]any{
		"type":      "contact_message_created",
		"messageID": msg.ID,
		"email":     msg.Email,
	})

	return c.JSON(http.StatusCreated, msg)
}

func (h *ContactHandler) List(c echo.Context) error {
	var messages []models.ContactMessage
	if err := h.DB.Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}
