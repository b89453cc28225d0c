package services

import (
	"context"
	"fmt"

	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// PreferenceService handles UI preferences
type PreferenceService struct {
	prefRepo ports.PreferenceRepository
	logger   *logger.Logger
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(prefRepo ports.PreferenceRepository, logger *logger.Logger) *PreferenceService {
	return &PreferenceService{
		prefRepo: prefRepo,
		logger:   logger.WithComponent("preference_service"),
	}
}

func (s *PreferenceService) GetTheme(ctx context.Context) (entities.Theme, error) {
	theme, err := s.prefRepo.GetTheme(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get theme: %w", err)
	}
	return theme, nil
}

func (s *PreferenceService) SetTheme(ctx context.Context, theme entities.Theme) (entities.Theme, error) {
	if !theme.IsValid() {
		return "", fmt.Errorf("%w: %q", entities.ErrInvalidTheme, theme)
	}

	if err := s.prefRepo.SetTheme(ctx, theme); err != nil {
		return "", fmt.Errorf("failed to set theme: %w", err)
	}

	s.logger.LogStateChange("theme_changed", map[string]interface{}{"theme": theme})

	return theme, nil
}
