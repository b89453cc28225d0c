package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/ports"
)

// errNoMatch aborts a gateway update without writing
var errNoMatch = errors.New("no matching task")

// TaskRepositoryImpl implements the TaskRepository interface on top of the state gateway
type TaskRepositoryImpl struct {
	gateway ports.StateGateway
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(gateway ports.StateGateway) ports.TaskRepository {
	return &TaskRepositoryImpl{gateway: gateway}
}

func (r *TaskRepositoryImpl) List(ctx context.Context) ([]entities.Task, error) {
	state, err := r.gateway.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return state.Todos, nil
}

func (r *TaskRepositoryImpl) Add(ctx context.Context, task entities.Task) error {
	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		state.Todos = append(state.Todos, task)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, edit entities.TaskEdit) (*entities.Task, bool, error) {
	var updated *entities.Task

	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		for i := range state.Todos {
			if state.Todos[i].ID != edit.ID {
				continue
			}
			state.Todos[i] = state.Todos[i].Apply(edit.Changes, edit.UpdatedAt)
			task := state.Todos[i]
			updated = &task
			return nil
		}
		return errNoMatch
	})
	if errors.Is(err, errNoMatch) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("update task: %w", err)
	}

	return updated, updated != nil, nil
}

func (r *TaskRepositoryImpl) Remove(ctx context.Context, id string) error {
	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		kept := state.Todos[:0]
		for _, task := range state.Todos {
			if task.ID != id {
				kept = append(kept, task)
			}
		}
		state.Todos = kept
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) ReplaceAll(ctx context.Context, tasks []entities.Task) error {
	replacement := append([]entities.Task{}, tasks...)

	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		state.Todos = replacement
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace tasks: %w", err)
	}
	return nil
}

func (r *TaskRepositoryImpl) Rewrite(ctx context.Context, fn func(tasks []entities.Task) []entities.Task) ([]entities.Task, error) {
	var result []entities.Task

	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		result = fn(append([]entities.Task{}, state.Todos...))
		if result == nil {
			result = []entities.Task{}
		}
		state.Todos = result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite tasks: %w", err)
	}

	return append([]entities.Task{}, result...), nil
}
