package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/glowshop/backend/internal/models"
	"github.com/glowshop/backend/internal/storage"
)

const heroID = 1

type HeroHandler struct {
	DB    *gorm.DB
	Store *storage.DiskStore
}

// GetActive returns the hero banner for the storefront, 404 when there is
// none or it is switched off.
func (h *HeroHandler) GetActive(c echo.Context) error {
	var hero models.Hero
	if err := h.DB.First(&hero, heroID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no active hero")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !hero.IsActive {
		return echo.NewHTTPError(http.StatusNotFound, "no active hero")
	}
	return c.JSON(http.StatusOK, hero)
}

func (h *HeroHandler) Upsert(c echo.Context) error {
	var req struct {
		Title      string `json:"title"`
		Subtitle   string `json:"subtitle"`
		ButtonText string `json:"button_text"`
		ButtonLink string `json:"button_link"`
		ImageURL   string `json:"image_url"`
		IsActive   bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	hero := models.Hero{
		ID:         heroID,
		Title:      strings.TrimSpace(req.Title),
		Subtitle:   strings.TrimSpace(req.Subtitle),
		ButtonText: strings.TrimSpace(req.ButtonText),
		ButtonLink: strings.TrimSpace(req.ButtonLink),
		ImageURL:   strings.TrimSpace(req.ImageURL),
		IsActive:   req.IsActive,
	}

	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&hero).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, hero)
}

func (h *HeroHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	imageURL, err := h.Store.SaveHeroImage(file.Filename, src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"image_url": imageURL})
}
