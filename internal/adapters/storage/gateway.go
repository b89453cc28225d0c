package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/logger"
	"github.com/taskmaster/todoplus/internal/infrastructure/metrics"
	"github.com/taskmaster/todoplus/internal/ports"
)

// Locker is implemented by stores that can keep writers in other processes out
// while Gateway.Update runs its read-modify-write.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func() error, err error)
}

// Swapper is implemented by stores that can replace a value only while it still
// holds what was read. oldFound=false means the key must still be absent.
type Swapper interface {
	CompareAndSwap(ctx context.Context, key, old string, oldFound bool, value string) (bool, error)
}

// ErrWriteConflict is returned when other writers changed the state on every attempt of an update
var ErrWriteConflict = errors.New("state changed concurrently")

const maxSwapAttempts = 10

// Gateway stores the whole PersistedState as one JSON blob under a single key.
// Writes are serialized by mu within the process and by the store's Locker or
// Swapper across processes. Readers never block on either.
type Gateway struct {
	kv               ports.KeyValueStore
	key              string
	defaultProjectID string
	logger           *logger.Logger
	metrics          *metrics.Storage

	mu sync.Mutex
}

// GatewayOptions configures NewGateway. Zero values fall back to defaults.
type GatewayOptions struct {
	Key              string
	DefaultProjectID string
	Logger           *logger.Logger
	Metrics          *metrics.Storage
}

// NewGateway creates a gateway over kv
func NewGateway(kv ports.KeyValueStore, opts GatewayOptions) *Gateway {
	if opts.Key == "" {
		opts.Key = "todomvc-plus"
	}
	if opts.DefaultProjectID == "" {
		opts.DefaultProjectID = entities.ProjectAll
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Gateway{
		kv:               kv,
		key:              opts.Key,
		defaultProjectID: opts.DefaultProjectID,
		logger:           opts.Logger.WithComponent("state_gateway"),
		metrics:          opts.Metrics,
	}
}

// DefaultProjectID is the selection used when none is stored
func (g *Gateway) DefaultProjectID() string {
	return g.defaultProjectID
}

// Read returns the stored snapshot. A missing or unparseable blob yields defaults, never an error.
func (g *Gateway) Read(ctx context.Context) (*entities.PersistedState, error) {
	state, _, _, err := g.load(ctx)
	return state, err
}

// load reads the snapshot along with the raw blob it came from
func (g *Gateway) load(ctx context.Context) (*entities.PersistedState, string, bool, error) {
	start := time.Now()
	raw, found, err := g.kv.GetItem(ctx, g.key)
	g.logger.LogStorageOperation("get", g.key, len(raw), msSince(start), err)
	if err != nil {
		g.metrics.ObserveFailure("get")
		return nil, "", false, fmt.Errorf("read state: %w", err)
	}
	g.metrics.ObserveRead()

	if !found || raw == "" {
		g.metrics.ObserveDegradedRead("missing")
		return entities.NewPersistedState(g.defaultProjectID), raw, found, nil
	}

	return g.decode(raw), raw, found, nil
}

// decode parses the blob one top-level field at a time, so a malformed value
// only costs that field. Only a blob that is not a JSON object falls back to defaults wholesale.
func (g *Gateway) decode(raw string) *entities.PersistedState {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		g.metrics.ObserveDegradedRead("corrupt")
		g.logger.Warnw("Stored state is corrupt, falling back to defaults", "key", g.key, "error", err)
		return entities.NewPersistedState(g.defaultProjectID)
	}

	state := &entities.PersistedState{}
	var rejected []string

	scalar := func(name string, dst interface{}) {
		if data, ok := fields[name]; ok {
			if err := json.Unmarshal(data, dst); err != nil {
				rejected = append(rejected, name)
			}
		}
	}
	scalar("version", &state.Version)
	scalar("theme", &state.Theme)
	scalar("selectedProjectId", &state.SelectedProjectID)
	scalar("exportedAt", &state.ExportedAt)

	if state.Theme != "" && !state.Theme.IsValid() {
		rejected = append(rejected, "theme")
		state.Theme = ""
	}

	var ok bool
	if state.Todos, ok = decodeTasks(fields["todos"]); !ok {
		rejected = append(rejected, "todos")
	}
	if state.Projects, ok = decodeProjects(fields["projects"]); !ok {
		rejected = append(rejected, "projects")
	}

	if len(rejected) > 0 {
		g.metrics.ObserveDegradedRead("partial")
		g.logger.Warnw("Stored state has malformed fields, using defaults for them",
			"key", g.key, "fields", rejected)
	}

	return g.withDefaults(state)
}

// decodeTasks keeps every element that decodes into a task with an id.
// A value with a mistyped field is kept with that field zeroed.
func decodeTasks(data json.RawMessage) ([]entities.Task, bool) {
	elems, ok := splitList(data)
	tasks := make([]entities.Task, 0, len(elems))
	for _, elem := range elems {
		var task entities.Task
		if err := json.Unmarshal(elem, &task); !partial(err) || task.ID == "" {
			ok = false
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, ok
}

func decodeProjects(data json.RawMessage) ([]entities.Project, bool) {
	elems, ok := splitList(data)
	projects := make([]entities.Project, 0, len(elems))
	for _, elem := range elems {
		var project entities.Project
		if err := json.Unmarshal(elem, &project); !partial(err) || project.ID == "" {
			ok = false
			continue
		}
		projects = append(projects, project)
	}
	return projects, ok
}

func splitList(data json.RawMessage) ([]json.RawMessage, bool) {
	if len(data) == 0 {
		return nil, true
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, false
	}
	return elems, true
}

// partial reports whether decoding finished, possibly skipping mistyped fields
func partial(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return err == nil || errors.As(err, &typeErr)
}

// Write overwrites the stored blob with state
func (g *Gateway) Write(ctx context.Context, state *entities.PersistedState) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	unlock, err := g.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return g.write(ctx, state)
}

// Update reads the snapshot, lets fn patch it and writes it back while holding the write lock.
// If fn returns an error nothing is written. On stores that implement Swapper, fn runs again
// on a fresh snapshot whenever another process wrote in between.
func (g *Gateway) Update(ctx context.Context, fn func(state *entities.PersistedState) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	unlock, err := g.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	swapper, ok := g.kv.(Swapper)
	if !ok {
		state, _, _, err := g.load(ctx)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}
		return g.write(ctx, state)
	}

	for attempt := 1; attempt <= maxSwapAttempts; attempt++ {
		state, raw, found, err := g.load(ctx)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}

		data, err := g.encode(state)
		if err != nil {
			return err
		}

		start := time.Now()
		swapped, err := swapper.CompareAndSwap(ctx, g.key, raw, found, string(data))
		g.logger.LogStorageOperation("swap", g.key, len(data), msSince(start), err)
		if err != nil {
			g.metrics.ObserveFailure("set")
			return fmt.Errorf("write state: %w", err)
		}
		if swapped {
			g.metrics.ObserveWrite(len(data))
			return nil
		}

		g.metrics.ObserveConflict()
		g.logger.Debugw("State changed during update, retrying", "key", g.key, "attempt", attempt)
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: gave up after %d attempts", ErrWriteConflict, maxSwapAttempts)
}

// lock takes the store's cross-process lock when it has one
func (g *Gateway) lock(ctx context.Context) (func(), error) {
	locker, ok := g.kv.(Locker)
	if !ok {
		return func() {}, nil
	}

	unlock, err := locker.Lock(ctx, g.key)
	if err != nil {
		g.metrics.ObserveFailure("lock")
		return nil, fmt.Errorf("lock state: %w", err)
	}

	return func() {
		if err := unlock(); err != nil {
			g.logger.Warnw("Failed to release state lock", "key", g.key, "error", err)
		}
	}, nil
}

func (g *Gateway) encode(state *entities.PersistedState) ([]byte, error) {
	data, err := json.Marshal(g.withDefaults(state.Clone()))
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

func (g *Gateway) write(ctx context.Context, state *entities.PersistedState) error {
	data, err := g.encode(state)
	if err != nil {
		return err
	}

	start := time.Now()
	err = g.kv.SetItem(ctx, g.key, string(data))
	g.logger.LogStorageOperation("set", g.key, len(data), msSince(start), err)
	if err != nil {
		g.metrics.ObserveFailure("set")
		return fmt.Errorf("write state: %w", err)
	}
	g.metrics.ObserveWrite(len(data))

	return nil
}

// withDefaults fills whatever a partially written blob left out
func (g *Gateway) withDefaults(state *entities.PersistedState) *entities.PersistedState {
	if state.Version == "" {
		state.Version = entities.StateVersion
	}
	if state.Todos == nil {
		state.Todos = []entities.Task{}
	}
	if state.Projects == nil {
		state.Projects = []entities.Project{}
	}
	if state.Theme == "" {
		state.Theme = entities.ThemeAuto
	}
	if state.SelectedProjectID == "" {
		state.SelectedProjectID = g.defaultProjectID
	}
	return state
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
