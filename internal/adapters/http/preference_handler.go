package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// PreferenceHandler serves the theme preference
type PreferenceHandler struct {
	preferenceService ports.PreferenceService
	logger            *logger.Logger
}

// NewPreferenceHandler creates a new preference handler
func NewPreferenceHandler(preferenceService ports.PreferenceService, logger *logger.Logger) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
		logger:            logger,
	}
}

// GetTheme godoc
// @Summary Get the theme
// @Tags preferences
// @Produce json
// @Success 200 {object} ThemeResponse
// @Router /theme [get]
func (h *PreferenceHandler) GetTheme(c echo.Context) error {
	theme, err := h.preferenceService.GetTheme(c.Request().Context())
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, ThemeResponse{Theme: theme})
}

// SetTheme godoc
// @Summary Change the theme
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body ports.SetThemeRequest true "light, dark or auto"
// @Success 200 {object} ThemeResponse
// @Failure 400 {object} ErrorResponse
// @Router /theme [put]
func (h *PreferenceHandler) SetTheme(c echo.Context) error {
	var req ports.SetThemeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return ToHTTPError(err)
	}

	theme, err := h.preferenceService.SetTheme(c.Request().Context(), req.Theme)
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, ThemeResponse{Theme: theme})
}
