package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todoplus/internal/application/schema"
	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// Response types

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

type TodoListResponse struct {
	Todos []entities.Task `json:"todos"`
}

type SelectedProjectResponse struct {
	ProjectID string `json:"projectId"`
}

type ThemeResponse struct {
	Theme entities.Theme `json:"theme"`
}

// domainStatus maps sentinel errors to HTTP status codes. The sentinel text doubles as the error code.
var domainStatus = []struct {
	err    error
	status int
}{
	{entities.ErrTitleRequired, http.StatusBadRequest},
	{entities.ErrIDRequired, http.StatusBadRequest},
	{entities.ErrProjectNameRequired, http.StatusBadRequest},
	{entities.ErrProjectIDRequired, http.StatusBadRequest},
	{entities.ErrInvalidPriority, http.StatusBadRequest},
	{entities.ErrInvalidTheme, http.StatusBadRequest},
	{entities.ErrInvalidFilter, http.StatusBadRequest},
	{entities.ErrTaskNotFound, http.StatusNotFound},
	{entities.ErrProjectReserved, http.StatusConflict},
}

// ToHTTPError converts a use-case error into an *echo.HTTPError carrying an ErrorResponse.
// Errors that are not part of the domain vocabulary become a 500 with the cause kept internal.
func ToHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
			Error:   entities.ErrInvalidState.Error(),
			Message: ve.Message,
			Path:    ve.Path,
		})
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: fieldErrs.Error(),
		})
	}

	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.status, ErrorResponse{
				Error:   m.err.Error(),
				Message: err.Error(),
			})
		}
	}

	return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}).SetInternal(err)
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// Handlers groups every handler the router mounts
type Handlers struct {
	Todos       *TodoHandler
	Projects    *ProjectHandler
	Preferences *PreferenceHandler
	Data        *DataHandler
}

// Services are the use cases the handlers delegate to
type Services struct {
	Tasks       ports.TaskService
	Projects    ports.ProjectService
	Preferences ports.PreferenceService
	Data        ports.DataService
	Clock       ports.Clock
}

// NewHandlers builds every handler over svcs
func NewHandlers(svcs Services, logger *logger.Logger) *Handlers {
	return &Handlers{
		Todos:       NewTodoHandler(svcs.Tasks, svcs.Projects, svcs.Clock, logger),
		Projects:    NewProjectHandler(svcs.Projects, logger),
		Preferences: NewPreferenceHandler(svcs.Preferences, logger),
		Data:        NewDataHandler(svcs.Data, logger),
	}
}
