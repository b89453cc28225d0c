package ports

import (
	"context"
	"time"

	"github.com/taskmaster/todoplus/internal/domain/entities"
)

// KeyValueStore is the persistence primitive underneath the state gateway
type KeyValueStore interface {
	// GetItem returns found=false when the key has never been written.
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
	Close() error
}

// StateGateway reads and writes the whole persisted snapshot
type StateGateway interface {
	Read(ctx context.Context) (*entities.PersistedState, error)
	Write(ctx context.Context, state *entities.PersistedState) error
	// Update runs a read-modify-write cycle that no other writer can interleave with.
	// fn may run more than once, each time on a freshly read snapshot.
	Update(ctx context.Context, fn func(state *entities.PersistedState) error) error
	// DefaultProjectID is the selection a fresh state starts with
	DefaultProjectID() string
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	List(ctx context.Context) ([]entities.Task, error)
	Add(ctx context.Context, task entities.Task) error
	// Update reports found=false without error when no task has edit.ID.
	Update(ctx context.Context, edit entities.TaskEdit) (*entities.Task, bool, error)
	Remove(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, tasks []entities.Task) error
	// Rewrite replaces the list with fn's result in a single write and returns it.
	Rewrite(ctx context.Context, fn func(tasks []entities.Task) []entities.Task) ([]entities.Task, error)
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	List(ctx context.Context) ([]entities.Project, error)
	Add(ctx context.Context, project entities.Project) error
	// Remove drops the project and moves its tasks to reassignTo, stamping them with updatedAt.
	Remove(ctx context.Context, id, reassignTo, updatedAt string) error
	GetSelectedProjectID(ctx context.Context) (string, error)
	SetSelectedProjectID(ctx context.Context, id string) error
}

// PreferenceRepository defines the interface for UI preference storage
type PreferenceRepository interface {
	GetTheme(ctx context.Context) (entities.Theme, error)
	SetTheme(ctx context.Context, theme entities.Theme) error
}

// IDGenerator produces identifiers unique within the task and project namespace
type IDGenerator interface {
	NextID() string
}

// Clock supplies the current instant to the use cases
type Clock interface {
	Now() time.Time
}
