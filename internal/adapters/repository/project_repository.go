package repository

import (
	"context"
	"fmt"

	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/ports"
)

// ProjectRepositoryImpl implements the ProjectRepository interface on top of the state gateway
type ProjectRepositoryImpl struct {
	gateway ports.StateGateway
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(gateway ports.StateGateway) ports.ProjectRepository {
	return &ProjectRepositoryImpl{gateway: gateway}
}

func (r *ProjectRepositoryImpl) List(ctx context.Context) ([]entities.Project, error) {
	state, err := r.gateway.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return state.Projects, nil
}

func (r *ProjectRepositoryImpl) Add(ctx context.Context, project entities.Project) error {
	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		state.Projects = append(state.Projects, project)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add project: %w", err)
	}
	return nil
}

func (r *ProjectRepositoryImpl) Remove(ctx context.Context, id, reassignTo, updatedAt string) error {
	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		kept := state.Projects[:0]
		for _, project := range state.Projects {
			if project.ID != id {
				kept = append(kept, project)
			}
		}
		state.Projects = kept

		for i := range state.Todos {
			if state.Todos[i].ProjectID == id {
				state.Todos[i].ProjectID = reassignTo
				state.Todos[i].UpdatedAt = updatedAt
			}
		}

		if state.SelectedProjectID == id {
			state.SelectedProjectID = r.gateway.DefaultProjectID()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove project: %w", err)
	}
	return nil
}

func (r *ProjectRepositoryImpl) GetSelectedProjectID(ctx context.Context) (string, error) {
	state, err := r.gateway.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("get selected project: %w", err)
	}
	return state.SelectedProjectID, nil
}

func (r *ProjectRepositoryImpl) SetSelectedProjectID(ctx context.Context, id string) error {
	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		state.SelectedProjectID = id
		return nil
	})
	if err != nil {
		return fmt.Errorf("set selected project: %w", err)
	}
	return nil
}

// PreferenceRepositoryImpl implements the PreferenceRepository interface
type PreferenceRepositoryImpl struct {
	gateway ports.StateGateway
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(gateway ports.StateGateway) ports.PreferenceRepository {
	return &PreferenceRepositoryImpl{gateway: gateway}
}

func (r *PreferenceRepositoryImpl) GetTheme(ctx context.Context) (entities.Theme, error) {
	state, err := r.gateway.Read(ctx)
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	return state.Theme, nil
}

func (r *PreferenceRepositoryImpl) SetTheme(ctx context.Context, theme entities.Theme) error {
	err := r.gateway.Update(ctx, func(state *entities.PersistedState) error {
		state.Theme = theme
		return nil
	})
	if err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}
