package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bundb "github.com/padraicbc/yachtclub/db"
	"github.com/padraicbc/yachtclub/models"
)

type yachtClassRequest struct {
	Name        string   `json:"name" validate:"required,max=50"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Handicap    *float64 `json:"handicap" validate:"omitempty,min=0"`
}

// YachtClasses lists the racing classes.
func (h *Handler) YachtClasses(c echo.Context) error {
	classes, err := h.store.ListYachtClasses(c.Request().Context())
	if err != nil {
		return err
	}
	return sendData(c, classes)
}

// CreateYachtClass adds a racing class.
func (h *Handler) CreateYachtClass(c echo.Context) error {
	var req yachtClassRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	class := &models.YachtClass{Name: req.Name, Description: req.Description, Handicap: req.Handicap}
	if err := h.store.CreateYachtClass(c.Request().Context(), class); err != nil {
		if bundb.IsUniqueViolation(err) {
			return echo.NewHTTPError(http.StatusConflict, "Yacht class already exists")
		}
		return err
	}
	return sendCreated(c, class, "Yacht class created successfully")
}
