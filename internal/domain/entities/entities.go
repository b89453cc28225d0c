package entities

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrTitleRequired       = errors.New("title_required")
	ErrIDRequired          = errors.New("id_required")
	ErrProjectNameRequired = errors.New("project_name_required")
	ErrProjectIDRequired   = errors.New("project_id_required")
	ErrTaskNotFound        = errors.New("task_not_found")
	ErrInvalidPriority     = errors.New("invalid_priority")
	ErrInvalidTheme        = errors.New("invalid_theme")
	ErrInvalidFilter       = errors.New("invalid_filter")
	ErrProjectReserved     = errors.New("project_reserved")
	ErrInvalidState        = errors.New("invalid_state")
)

// Reserved project identifiers. Neither is ever stored as a Project.
const (
	ProjectAll   = "all"
	ProjectInbox = "inbox"
)

// StateVersion is the schema version written into every persisted snapshot.
const StateVersion = "1"

// TimestampLayout renders UTC instants the way the stored snapshots expect them,
// with millisecond precision and a literal Z suffix.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Enums and types
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
	FilterOverdue   FilterMode = "overdue"
)

// Task represents a single todo item
type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	ProjectID string   `json:"projectId"`
	Priority  Priority `json:"priority"`
	DueDate   string   `json:"dueDate,omitempty"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// TaskChanges is a partial edit of a task. Nil fields are left untouched.
// ID and CreatedAt are deliberately absent.
type TaskChanges struct {
	Title     *string   `json:"title,omitempty"`
	Completed *bool     `json:"completed,omitempty"`
	ProjectID *string   `json:"projectId,omitempty"`
	Priority  *Priority `json:"priority,omitempty"`
	DueDate   *string   `json:"dueDate,omitempty"`
}

// TaskEdit is a patch addressed to one task, as applied by the repository.
type TaskEdit struct {
	ID        string
	Changes   TaskChanges
	UpdatedAt string
}

// Project represents a named grouping of tasks
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// PersistedState is the whole application snapshot, stored and exported as one JSON object
type PersistedState struct {
	Version           string    `json:"version"`
	Todos             []Task    `json:"todos"`
	Projects          []Project `json:"projects"`
	Theme             Theme     `json:"theme"`
	SelectedProjectID string    `json:"selectedProjectId"`
	ExportedAt        string    `json:"exportedAt,omitempty"`
}

// NewPersistedState returns the state synthesized when nothing usable is stored.
func NewPersistedState(selectedProjectID string) *PersistedState {
	if selectedProjectID == "" {
		selectedProjectID = ProjectAll
	}
	return &PersistedState{
		Version:           StateVersion,
		Todos:             []Task{},
		Projects:          []Project{},
		Theme:             ThemeAuto,
		SelectedProjectID: selectedProjectID,
	}
}

// Clone returns a deep copy so callers can patch it without aliasing stored slices.
func (s *PersistedState) Clone() *PersistedState {
	out := *s
	out.Todos = append([]Task(nil), s.Todos...)
	out.Projects = append([]Project(nil), s.Projects...)
	if out.Todos == nil {
		out.Todos = []Task{}
	}
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	return &out
}

// Business logic methods for Priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	default:
		return false
	}
}

func (f FilterMode) IsValid() bool {
	switch f {
	case FilterAll, FilterActive, FilterCompleted, FilterOverdue:
		return true
	default:
		return false
	}
}

// IsReservedProjectID reports whether id is one of the sentinel project ids.
func IsReservedProjectID(id string) bool {
	return id == ProjectAll || id == ProjectInbox
}

// Business logic methods for Task

// Apply merges changes into the task and stamps updatedAt. ID and CreatedAt are preserved.
func (t Task) Apply(changes TaskChanges, updatedAt string) Task {
	if changes.Title != nil {
		t.Title = *changes.Title
	}
	if changes.Completed != nil {
		t.Completed = *changes.Completed
	}
	if changes.ProjectID != nil {
		t.ProjectID = *changes.ProjectID
	}
	if changes.Priority != nil {
		t.Priority = *changes.Priority
	}
	if changes.DueDate != nil {
		t.DueDate = *changes.DueDate
	}
	t.UpdatedAt = updatedAt
	return t
}

// dueLayouts are tried in order when interpreting a due date.
var dueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Due parses the task's due date. ok is false when the task has none or it is not a date.
func (t Task) Due() (due time.Time, ok bool) {
	raw := strings.TrimSpace(t.DueDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// IsOverdue reports whether the task is open and its due date lies strictly before now.
// Missing or unparseable due dates are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	return due.Before(now)
}

// FormatTimestamp renders t in the persisted timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
