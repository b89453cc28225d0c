package ports

import (
	"context"

	"github.com/taskmaster/todoplus/internal/domain/entities"
)

// TaskService interface for task management operations
type TaskService interface {
	LoadTodos(ctx context.Context) ([]entities.Task, error)
	AddTodo(ctx context.Context, req AddTodoRequest) (*entities.Task, error)
	UpdateTodo(ctx context.Context, req UpdateTodoRequest) (*entities.Task, error)
	RemoveTodo(ctx context.Context, id string) error
	ToggleAll(ctx context.Context, req ToggleAllRequest) ([]entities.Task, error)
	ClearCompleted(ctx context.Context) ([]entities.Task, error)
}

// ProjectService interface for project management operations
type ProjectService interface {
	LoadProjects(ctx context.Context) ([]entities.Project, error)
	AddProject(ctx context.Context, req AddProjectRequest) (*entities.Project, error)
	RemoveProject(ctx context.Context, id string) error
	SelectProject(ctx context.Context, id string) (string, error)
	GetSelectedProjectID(ctx context.Context) (string, error)
}

// PreferenceService interface for theme selection
type PreferenceService interface {
	GetTheme(ctx context.Context) (entities.Theme, error)
	SetTheme(ctx context.Context, theme entities.Theme) (entities.Theme, error)
}

// DataService interface for snapshot export and import
type DataService interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (*entities.PersistedState, error)
}

// Request/Response Types

// Task related types
type AddTodoRequest struct {
	Title     string            `json:"title"`
	ProjectID string            `json:"projectId"`
	Priority  entities.Priority `json:"priority" validate:"required,oneof=low medium high"`
	DueDate   string            `json:"dueDate,omitempty"`
}

type UpdateTodoRequest struct {
	ID      string               `json:"id"`
	Changes entities.TaskChanges `json:"changes"`
}

// ToggleAllRequest leaves Completed nil to flip based on the current list.
type ToggleAllRequest struct {
	Completed *bool `json:"completed,omitempty"`
}

// Project related types
type AddProjectRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty" validate:"omitempty,max=32"`
	Icon  string `json:"icon,omitempty" validate:"omitempty,max=32"`
}

type SelectProjectRequest struct {
	ProjectID string `json:"projectId"`
}

// Preference related types
type SetThemeRequest struct {
	Theme entities.Theme `json:"theme" validate:"required,oneof=light dark auto"`
}

// TaskView is the derived view returned to presentation collaborators
type TaskView struct {
	Todos          []entities.Task     `json:"todos"`
	Filter         entities.FilterMode `json:"filter"`
	ProjectID      string              `json:"projectId"`
	ActiveCount    int                 `json:"activeCount"`
	CompletedCount int                 `json:"completedCount"`
	AllCompleted   bool                `json:"allCompleted"`
}
