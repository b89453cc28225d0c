package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// maxImportBytes bounds the body accepted by the import endpoint
const maxImportBytes = 10 << 20

// DataHandler serves snapshot export and import
type DataHandler struct {
	dataService ports.DataService
	logger      *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(dataService ports.DataService, logger *logger.Logger) *DataHandler {
	return &DataHandler{
		dataService: dataService,
		logger:      logger,
	}
}

// Export godoc
// @Summary Download the whole state
// @Tags data
// @Produce json
// @Success 200 {object} entities.PersistedState
// @Router /data/export [get]
func (h *DataHandler) Export(c echo.Context) error {
	data, err := h.dataService.Export(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Export failed", "error", err)
		return ToHTTPError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="todoplus-export.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// Import godoc
// @Summary Replace the whole state
// @Description The payload is validated first. A rejected payload leaves the stored state untouched.
// @Tags data
// @Accept json
// @Produce json
// @Param request body entities.PersistedState true "Exported state"
// @Success 200 {object} entities.PersistedState
// @Failure 400 {object} ErrorResponse
// @Router /data/import [post]
func (h *DataHandler) Import(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes+1))
	if err != nil {
		return badRequest("Unable to read request body")
	}
	if len(body) > maxImportBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "payload_too_large",
			Message: "Import payload exceeds 10 MiB",
		})
	}

	state, err := h.dataService.Import(c.Request().Context(), body)
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, state)
}
