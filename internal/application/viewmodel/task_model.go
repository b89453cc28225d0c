// Package viewmodel holds the in-memory task list a presentation layer renders from,
// together with the filter and project scope that shape it.
package viewmodel

import (
	"fmt"
	"sync"

	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/ports"
)

// TaskModel is safe for concurrent use. It performs no I/O.
type TaskModel struct {
	mu        sync.RWMutex
	tasks     []entities.Task
	filter    entities.FilterMode
	projectID string
	clock     ports.Clock
}

// NewTaskModel creates an empty model showing all tasks of all projects
func NewTaskModel(clock ports.Clock) *TaskModel {
	return &TaskModel{
		tasks:     []entities.Task{},
		filter:    entities.FilterAll,
		projectID: entities.ProjectAll,
		clock:     clock,
	}
}

func (m *TaskModel) SetTasks(tasks []entities.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append([]entities.Task{}, tasks...)
}

// ReplaceAll is SetTasks under the name the bulk use cases report through.
func (m *TaskModel) ReplaceAll(tasks []entities.Task) {
	m.SetTasks(tasks)
}

func (m *TaskModel) Add(task entities.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Update applies changes to the task with id, keeping its updatedAt. Unknown ids are ignored.
func (m *TaskModel) Update(id string, changes entities.TaskChanges) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i] = m.tasks[i].Apply(changes, m.tasks[i].UpdatedAt)
		}
	}
}

func (m *TaskModel) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]entities.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	m.tasks = kept
}

func (m *TaskModel) SetFilter(filter entities.FilterMode) error {
	if !filter.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrInvalidFilter, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.filter = filter
	return nil
}

// SetProject restricts the model to one project. "all" or an empty id lifts the restriction.
func (m *TaskModel) SetProject(projectID string) {
	if projectID == "" {
		projectID = entities.ProjectAll
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.projectID = projectID
}

func (m *TaskModel) Filter() entities.FilterMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// Tasks returns a copy of every task held, ignoring filter and project scope.
func (m *TaskModel) Tasks() []entities.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entities.Task{}, m.tasks...)
}

// Filtered returns the project-scoped tasks that match the current filter, in stored order.
func (m *TaskModel) Filtered() []entities.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filtered(m.scoped())
}

// Derived computes the counters over the project-scoped list along with the filtered tasks.
func (m *TaskModel) Derived() ports.TaskView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scoped := m.scoped()
	active := 0
	for _, task := range scoped {
		if !task.Completed {
			active++
		}
	}
	completed := len(scoped) - active

	return ports.TaskView{
		Todos:          m.filtered(scoped),
		Filter:         m.filter,
		ProjectID:      m.projectID,
		ActiveCount:    active,
		CompletedCount: completed,
		AllCompleted:   len(scoped) > 0 && completed == len(scoped),
	}
}

func (m *TaskModel) scoped() []entities.Task {
	if m.projectID == entities.ProjectAll {
		return m.tasks
	}

	out := make([]entities.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if task.ProjectID == m.projectID {
			out = append(out, task)
		}
	}
	return out
}

func (m *TaskModel) filtered(tasks []entities.Task) []entities.Task {
	out := make([]entities.Task, 0, len(tasks))

	switch m.filter {
	case entities.FilterActive:
		for _, task := range tasks {
			if !task.Completed {
				out = append(out, task)
			}
		}
	case entities.FilterCompleted:
		for _, task := range tasks {
			if task.Completed {
				out = append(out, task)
			}
		}
	case entities.FilterOverdue:
		now := m.clock.Now()
		for _, task := range tasks {
			if task.IsOverdue(now) {
				out = append(out, task)
			}
		}
	default:
		out = append(out, tasks...)
	}

	return out
}
