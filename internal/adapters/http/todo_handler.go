package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/todoplus/internal/application/viewmodel"
	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// TodoHandler handles task-related requests
type TodoHandler struct {
	taskService    ports.TaskService
	projectService ports.ProjectService
	clock          ports.Clock
	logger         *logger.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(taskService ports.TaskService, projectService ports.ProjectService, clock ports.Clock, logger *logger.Logger) *TodoHandler {
	return &TodoHandler{
		taskService:    taskService,
		projectService: projectService,
		clock:          clock,
		logger:         logger,
	}
}

// ListTodos godoc
// @Summary List tasks
// @Description Filtered, project-scoped task list with counters. Without a project parameter the persisted selection is used.
// @Tags todos
// @Produce json
// @Param filter query string false "all, active, completed or overdue"
// @Param project query string false "project id or all"
// @Success 200 {object} ports.TaskView
// @Failure 400 {object} ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) ListTodos(c echo.Context) error {
	ctx := c.Request().Context()

	filter := entities.FilterMode(c.QueryParam("filter"))
	if filter == "" {
		filter = entities.FilterAll
	}

	projectID := c.QueryParam("project")
	if projectID == "" {
		selected, err := h.projectService.GetSelectedProjectID(ctx)
		if err != nil {
			return ToHTTPError(err)
		}
		projectID = selected
	}

	tasks, err := h.taskService.LoadTodos(ctx)
	if err != nil {
		h.logger.Errorw("List todos failed", "error", err)
		return ToHTTPError(err)
	}

	model := viewmodel.NewTaskModel(h.clock)
	model.SetTasks(tasks)
	model.SetProject(projectID)
	if err := model.SetFilter(filter); err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, model.Derived())
}

// CreateTodo godoc
// @Summary Create a task
// @Tags todos
// @Accept json
// @Produce json
// @Param request body ports.AddTodoRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	var req ports.AddTodoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}

	task, err := h.taskService.AddTodo(c.Request().Context(), req)
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTodo godoc
// @Summary Patch a task
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body entities.TaskChanges true "Fields to change"
// @Success 200 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /todos/{id} [patch]
func (h *TodoHandler) UpdateTodo(c echo.Context) error {
	var changes entities.TaskChanges
	if err := c.Bind(&changes); err != nil {
		return badRequest("Invalid request format")
	}

	task, err := h.taskService.UpdateTodo(c.Request().Context(), ports.UpdateTodoRequest{
		ID:      c.Param("id"),
		Changes: changes,
	})
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTodo godoc
// @Summary Delete a task
// @Description Succeeds whether or not the task exists.
// @Tags todos
// @Param id path string true "Task ID"
// @Success 204
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	if err := h.taskService.RemoveTodo(c.Request().Context(), c.Param("id")); err != nil {
		return ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleAll godoc
// @Summary Complete or reopen every task
// @Tags todos
// @Accept json
// @Produce json
// @Param request body ports.ToggleAllRequest false "Explicit target state"
// @Success 200 {object} TodoListResponse
// @Router /todos/toggle-all [post]
func (h *TodoHandler) ToggleAll(c echo.Context) error {
	var req ports.ToggleAllRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("Invalid request format")
	}

	tasks, err := h.taskService.ToggleAll(c.Request().Context(), req)
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, TodoListResponse{Todos: tasks})
}

// ClearCompleted godoc
// @Summary Remove completed tasks
// @Tags todos
// @Produce json
// @Success 200 {object} TodoListResponse
// @Router /todos/clear-completed [post]
func (h *TodoHandler) ClearCompleted(c echo.Context) error {
	tasks, err := h.taskService.ClearCompleted(c.Request().Context())
	if err != nil {
		return ToHTTPError(err)
	}

	return c.JSON(http.StatusOK, TodoListResponse{Todos: tasks})
}
