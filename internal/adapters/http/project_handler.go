package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService ports.ProjectService
	logger         *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ports.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ListProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {array} entities.Project
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.LoadProjects(c.Request().Context())
	if err != nil {
		h.logger.Errorw("List projects failed", "error", err)
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, projects)
}

// CreateProject godoc
// @Summary Create a new project
// @Description Create a new project with the provided details
// @Tags projects
// @Accept json
// @Produce json
// @Param request body ports.AddProjectRequest true "Project data"
// @Success 201 {object} entities.Project
// @Failure 400 {object} ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req ports.AddProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return ToHTTPError(err)
	}

	project, err := h.projectService.AddProject(c.Request().Context(), req)
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, project)
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Tasks of the project move to the inbox. The reserved ids all and inbox are rejected.
// @Tags projects
// @Param id path string true "Project ID"
// @Success 204
// @Failure 409 {object} ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	if err := h.projectService.RemoveProject(c.Request().Context(), c.Param("id")); err != nil {
		return ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSelectedProject godoc
// @Summary Get the selected project scope
// @Tags projects
// @Produce json
// @Success 200 {object} SelectedProjectResponse
// @Router /projects/selected [get]
func (h *ProjectHandler) GetSelectedProject(c echo.Context) error {
	id, err := h.projectService.GetSelectedProjectID(c.Request().Context())
	if err != nil {
		return ToHTTPError(err)
	}
	return c.JSON(http.StatusOK, SelectedProjectResponse{ProjectID: id})
}

// SelectProject godoc
// @Summary Change the selected project scope
// @Tags projects
// @Accept json
// @Produce json
// @Param request body ports.SelectProjectRequest true "Project to select"
// @Success 200 {object} SelectedProjectResponse
// @Failure 400 {object} ErrorResponse
// @Router /projects/selected [put]
func (h *ProjectHandler) SelectProject(c echo.Context) error {
	var req ports.SelectProjectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}

	id, err := h.projectService.SelectProject(c.Request().Context(), req.ProjectID)
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, SelectedProjectResponse{ProjectID: id})
}
