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

// ProjectService handles project-related operations
type ProjectService struct {
	projectRepo ports.ProjectRepository
	ids         ports.IDGenerator
	clock       ports.Clock
	validate    *validator.Validate
	logger      *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo ports.ProjectRepository, ids ports.IDGenerator, clock ports.Clock, logger *logger.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		ids:         ids,
		clock:       clock,
		validate:    validator.New(),
		logger:      logger.WithComponent("project_service"),
	}
}

// LoadProjects returns the stored projects
func (s *ProjectService) LoadProjects(ctx context.Context) ([]entities.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return projects, nil
}

// AddProject creates a project with a trimmed name and a fresh id
func (s *ProjectService) AddProject(ctx context.Context, req ports.AddProjectRequest) (*entities.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, entities.ErrProjectNameRequired
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	project := entities.Project{
		ID:    s.ids.NextID(),
		Name:  name,
		Color: req.Color,
		Icon:  req.Icon,
	}

	if err := s.projectRepo.Add(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.LogStateChange("project_added", map[string]interface{}{
		"project_id": project.ID,
		"name":       project.Name,
	})

	return &project, nil
}

// RemoveProject deletes a project, moving its tasks to the inbox
func (s *ProjectService) RemoveProject(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.ErrProjectIDRequired
	}
	if entities.IsReservedProjectID(id) {
		return fmt.Errorf("%w: %s", entities.ErrProjectReserved, id)
	}

	updatedAt := entities.FormatTimestamp(s.clock.Now())
	if err := s.projectRepo.Remove(ctx, id, entities.ProjectInbox, updatedAt); err != nil {
		return fmt.Errorf("failed to remove project: %w", err)
	}

	s.logger.LogStateChange("project_removed", map[string]interface{}{"project_id": id})

	return nil
}

// SelectProject persists the selected project scope. Ids that match no project are accepted.
func (s *ProjectService) SelectProject(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", entities.ErrProjectIDRequired
	}

	if err := s.projectRepo.SetSelectedProjectID(ctx, id); err != nil {
		return "", fmt.Errorf("failed to select project: %w", err)
	}

	s.logger.LogStateChange("project_selected", map[string]interface{}{"project_id": id})

	return id, nil
}

// GetSelectedProjectID returns the persisted project scope
func (s *ProjectService) GetSelectedProjectID(ctx context.Context) (string, error) {
	id, err := s.projectRepo.GetSelectedProjectID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get selected project: %w", err)
	}
	return id, nil
}
