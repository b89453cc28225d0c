package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taskmaster/todoplus/internal/application/schema"
	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/ports"
)

// DataService exports and imports whole snapshots
type DataService struct {
	gateway ports.StateGateway
	clock   ports.Clock
	logger  *logger.Logger
}

// NewDataService creates a new data service
func NewDataService(gateway ports.StateGateway, clock ports.Clock, logger *logger.Logger) *DataService {
	return &DataService{
		gateway: gateway,
		clock:   clock,
		logger:  logger.WithComponent("data_service"),
	}
}

// Export renders the current state as indented JSON stamped with exportedAt
func (s *DataService) Export(ctx context.Context) ([]byte, error) {
	state, err := s.gateway.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	snapshot := state.Clone()
	snapshot.ExportedAt = entities.FormatTimestamp(s.clock.Now())

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}

	s.logger.Infow("State exported", "todos", len(snapshot.Todos), "projects", len(snapshot.Projects))

	return data, nil
}

// Import validates data and, only if it is valid, replaces the stored state with it.
// A rejected payload leaves storage untouched and returns a *schema.ValidationError.
func (s *DataService) Import(ctx context.Context, data []byte) (*entities.PersistedState, error) {
	state, err := schema.Parse(data)
	if err != nil {
		s.logger.Warnw("Import rejected", "error", err)
		return nil, err
	}

	state.ExportedAt = ""

	if err := s.gateway.Write(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to write imported state: %w", err)
	}

	s.logger.LogStateChange("state_imported", map[string]interface{}{
		"todos":    len(state.Todos),
		"projects": len(state.Projects),
	})

	return state, nil
}
