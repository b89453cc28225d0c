package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	taskRepo ports.TaskRepository
	ids      ports.IDGenerator
	clock    ports.Clock
	validate *validator.Validate
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, ids ports.IDGenerator, clock ports.Clock, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		ids:      ids,
		clock:    clock,
		validate: validator.New(),
		logger:   logger.WithComponent("task_service"),
	}
}

// LoadTodos returns every task in stored order
func (s *TaskService) LoadTodos(ctx context.Context) ([]entities.Task, error) {
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return tasks, nil
}

// AddTodo creates a task with a fresh id. An empty project id files the task under the inbox.
func (s *TaskService) AddTodo(ctx context.Context, req ports.AddTodoRequest) (*entities.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, entities.ErrTitleRequired
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, entities.ErrInvalidPriority
	}

	projectID := normalizeProjectID(req.ProjectID)

	now := s.now()
	task := entities.Task{
		ID:        s.ids.NextID(),
		Title:     title,
		ProjectID: projectID,
		Priority:  req.Priority,
		DueDate:   req.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Add(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.LogStateChange("task_added", map[string]interface{}{
		"task_id":    task.ID,
		"project_id": task.ProjectID,
	})

	return &task, nil
}

// UpdateTodo merges req.Changes into the task with req.ID
func (s *TaskService) UpdateTodo(ctx context.Context, req ports.UpdateTodoRequest) (*entities.Task, error) {
	if req.ID == "" {
		return nil, entities.ErrIDRequired
	}

	changes := req.Changes
	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, entities.ErrTitleRequired
		}
		changes.Title = &title
	}
	if changes.ProjectID != nil {
		projectID := normalizeProjectID(*changes.ProjectID)
		changes.ProjectID = &projectID
	}
	if changes.Priority != nil && !changes.Priority.IsValid() {
		return nil, entities.ErrInvalidPriority
	}

	updated, found, err := s.taskRepo.Update(ctx, entities.TaskEdit{
		ID:        req.ID,
		Changes:   changes,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", entities.ErrTaskNotFound, req.ID)
	}

	s.logger.LogStateChange("task_updated", map[string]interface{}{"task_id": updated.ID})

	return updated, nil
}

// RemoveTodo deletes the task with id. Removing an absent task succeeds.
func (s *TaskService) RemoveTodo(ctx context.Context, id string) error {
	if id == "" {
		return entities.ErrIDRequired
	}

	if err := s.taskRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}

	s.logger.LogStateChange("task_removed", map[string]interface{}{"task_id": id})

	return nil
}

// ToggleAll sets every task's completed flag to the same value. Without an explicit
// value, everything is completed unless the list is non-empty and already all done.
func (s *TaskService) ToggleAll(ctx context.Context, req ports.ToggleAllRequest) ([]entities.Task, error) {
	now := s.now()
	var completed bool

	tasks, err := s.taskRepo.Rewrite(ctx, func(tasks []entities.Task) []entities.Task {
		if req.Completed != nil {
			completed = *req.Completed
		} else {
			completed = !allCompleted(tasks)
		}
		for i := range tasks {
			tasks[i].Completed = completed
			tasks[i].UpdatedAt = now
		}
		return tasks
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle tasks: %w", err)
	}

	s.logger.LogStateChange("tasks_toggled", map[string]interface{}{
		"completed": completed,
		"count":     len(tasks),
	})

	return tasks, nil
}

// ClearCompleted drops completed tasks and returns the remainder in stored order
func (s *TaskService) ClearCompleted(ctx context.Context) ([]entities.Task, error) {
	removed := 0

	tasks, err := s.taskRepo.Rewrite(ctx, func(tasks []entities.Task) []entities.Task {
		kept := make([]entities.Task, 0, len(tasks))
		for _, task := range tasks {
			if !task.Completed {
				kept = append(kept, task)
			}
		}
		removed = len(tasks) - len(kept)
		return kept
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clear completed tasks: %w", err)
	}

	s.logger.LogStateChange("completed_cleared", map[string]interface{}{"removed": removed})

	return tasks, nil
}

func (s *TaskService) now() string {
	return entities.FormatTimestamp(s.clock.Now())
}

// normalizeProjectID files tasks without a project under the inbox
func normalizeProjectID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.ProjectInbox
	}
	return id
}

func allCompleted(tasks []entities.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, task := range tasks {
		if !task.Completed {
			return false
		}
	}
	return true
}
