package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskmaster/todoplus/internal/domain/entities"
	"github.com/taskmaster/todoplus/internal/infrastructure/metrics"
)

func sampleState() *entities.PersistedState {
	return &entities.PersistedState{
		Version: "1",
		Todos: []entities.Task{{
			ID:        "t1",
			Title:     "Buy milk",
			ProjectID: "p1",
			Priority:  entities.PriorityMedium,
			DueDate:   "2020-01-03T00:00:00.000Z",
			CreatedAt: "2020-01-01T00:00:00.000Z",
			UpdatedAt: "2020-01-01T00:00:00.000Z",
		}},
		Projects:          []entities.Project{{ID: "p1", Name: "Home", Color: "green"}},
		Theme:             entities.ThemeDark,
		SelectedProjectID: "p1",
	}
}

func TestGatewayReadMissingReturnsDefaults(t *testing.T) {
	gw := NewGateway(NewMemoryStore(), GatewayOptions{})

	state, err := gw.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := entities.NewPersistedState("all")
	if !reflect.DeepEqual(want, state) {
		t.Fatalf("unexpected defaults\nwant=%+v\ngot=%+v", want, state)
	}
}

func TestGatewayReadCorruptReturnsDefaults(t *testing.T) {
	kv := NewMemoryStore()
	_ = kv.SetItem(context.Background(), "todomvc-plus", "{not json")
	reg := prometheus.NewRegistry()
	gw := NewGateway(kv, GatewayOptions{DefaultProjectID: "inbox", Metrics: metrics.NewStorage(reg)})

	state, err := gw.Read(context.Background())
	if err != nil {
		t.Fatalf("corrupt blob must not fail the read: %v", err)
	}
	if state.SelectedProjectID != "inbox" {
		t.Fatalf("expected deployment default 'inbox', got %q", state.SelectedProjectID)
	}
	if len(state.Todos) != 0 || len(state.Projects) != 0 || state.Theme != entities.ThemeAuto {
		t.Fatalf("expected default state, got %+v", state)
	}
}

func TestGatewayReadFillsMissingFields(t *testing.T) {
	kv := NewMemoryStore()
	_ = kv.SetItem(context.Background(), "todomvc-plus", `{"todos":[{"id":"t1","title":"x","completed":true,"projectId":"inbox","priority":"low","createdAt":"a","updatedAt":"b"}]}`)
	gw := NewGateway(kv, GatewayOptions{})

	state, err := gw.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if state.Version != "1" || state.Theme != entities.ThemeAuto || state.SelectedProjectID != "all" {
		t.Fatalf("defaults not applied: %+v", state)
	}
	if state.Projects == nil || len(state.Projects) != 0 {
		t.Fatalf("expected empty project list, got %#v", state.Projects)
	}
	if len(state.Todos) != 1 || !state.Todos[0].Completed {
		t.Fatalf("stored todos lost: %+v", state.Todos)
	}
}

func TestGatewayWriteThenRead(t *testing.T) {
	gw := NewGateway(NewMemoryStore(), GatewayOptions{Key: "custom"})
	want := sampleState()

	if err := gw.Write(context.Background(), want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := gw.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("write/read mismatch\nwant=%+v\ngot=%+v", want, got)
	}
}

func TestGatewayUpdateSkipsWriteOnError(t *testing.T) {
	kv := NewMemoryStore()
	gw := NewGateway(kv, GatewayOptions{})
	boom := errors.New("boom")

	err := gw.Update(context.Background(), func(state *entities.PersistedState) error {
		state.Theme = entities.ThemeDark
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	if _, found, _ := kv.GetItem(context.Background(), "todomvc-plus"); found {
		t.Fatalf("nothing should be written when the callback fails")
	}
}

func TestGatewayConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	gw := NewGateway(NewMemoryStore(), GatewayOptions{})

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := gw.Update(context.Background(), func(state *entities.PersistedState) error {
				state.Projects = append(state.Projects, entities.Project{ID: fmt.Sprintf("p%d", i), Name: "n"})
				return nil
			})
			if err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	state, err := gw.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(state.Projects) != writers {
		t.Fatalf("expected %d projects, got %d", writers, len(state.Projects))
	}
}

type failingStore struct{}

func (failingStore) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}
func (failingStore) SetItem(context.Context, string, string) error { return errors.New("backend down") }
func (failingStore) Close() error                                  { return nil }

func TestGatewayPropagatesBackendErrors(t *testing.T) {
	gw := NewGateway(failingStore{}, GatewayOptions{})

	if _, err := gw.Read(context.Background()); err == nil {
		t.Fatalf("expected read error from backend")
	}
	if err := gw.Write(context.Background(), sampleState()); err == nil {
		t.Fatalf("expected write error from backend")
	}
}

func TestGatewayReadKeepsValidFieldsWhenOneIsMistyped(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	_ = kv.SetItem(ctx, "todomvc-plus", `{"version":1,"todos":[{"id":"t1","title":"Buy milk","completed":false,"projectId":"inbox","priority":"low","createdAt":"a","updatedAt":"b"}],"projects":[],"theme":"dark","selectedProjectId":"all"}`)
	gw := NewGateway(kv, GatewayOptions{})

	state, err := gw.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if state.Version != entities.StateVersion {
		t.Fatalf("expected mistyped version to fall back to %q, got %q", entities.StateVersion, state.Version)
	}
	if len(state.Todos) != 1 || state.Todos[0].Title != "Buy milk" || state.Theme != entities.ThemeDark {
		t.Fatalf("valid fields lost: %+v", state)
	}

	err = gw.Update(ctx, func(state *entities.PersistedState) error {
		state.SelectedProjectID = "p1"
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	state, _ = gw.Read(ctx)
	if len(state.Todos) != 1 || state.Theme != entities.ThemeDark || state.SelectedProjectID != "p1" {
		t.Fatalf("update after a partial read dropped data: %+v", state)
	}
}

func TestGatewayReadDropsOnlyMalformedListElements(t *testing.T) {
	kv := NewMemoryStore()
	_ = kv.SetItem(context.Background(), "todomvc-plus", `{"todos":[{"id":"t1","title":"a"},42,{"title":"no id"},{"id":"t2","title":"b","completed":"yes"}],"projects":"nope","theme":"neon"}`)
	gw := NewGateway(kv, GatewayOptions{})

	state, err := gw.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got []string
	for _, task := range state.Todos {
		got = append(got, task.ID)
	}
	if !reflect.DeepEqual(got, []string{"t1", "t2"}) {
		t.Fatalf("expected t1 and t2 to survive, got %v", got)
	}
	if state.Todos[1].Completed || state.Todos[1].Title != "b" {
		t.Fatalf("mistyped field should be zeroed only: %+v", state.Todos[1])
	}
	if state.Projects == nil || len(state.Projects) != 0 {
		t.Fatalf("expected empty projects, got %#v", state.Projects)
	}
	if state.Theme != entities.ThemeAuto {
		t.Fatalf("unknown theme should fall back to auto, got %q", state.Theme)
	}
}

// racingStore lets another writer slip in before the first swaps
type racingStore struct {
	*MemoryStore
	races int
	swaps int
}

func (s *racingStore) CompareAndSwap(ctx context.Context, key, old string, oldFound bool, value string) (bool, error) {
	s.swaps++
	if s.races > 0 {
		s.races--
		other := sampleState()
		other.Todos = nil
		other.SelectedProjectID = fmt.Sprintf("race-%d", s.swaps)
		data, _ := json.Marshal(other)
		_ = s.MemoryStore.SetItem(ctx, key, string(data))
	}
	return s.MemoryStore.CompareAndSwap(ctx, key, old, oldFound, value)
}

func TestGatewayUpdateRetriesWhenAnotherWriterWins(t *testing.T) {
	ctx := context.Background()
	kv := &racingStore{MemoryStore: NewMemoryStore(), races: 1}
	gw := NewGateway(kv, GatewayOptions{})

	calls := 0
	err := gw.Update(ctx, func(state *entities.PersistedState) error {
		calls++
		state.Todos = append(state.Todos, entities.Task{ID: "mine", Title: "x"})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 2 || kv.swaps != 2 {
		t.Fatalf("expected one retry, got calls=%d swaps=%d", calls, kv.swaps)
	}

	state, _ := gw.Read(ctx)
	if len(state.Projects) != 1 || state.Projects[0].ID != "p1" {
		t.Fatalf("the other writer's state was overwritten: %+v", state)
	}
	if len(state.Todos) != 1 || state.Todos[0].ID != "mine" {
		t.Fatalf("retried change missing: %+v", state.Todos)
	}
}

func TestGatewayUpdateGivesUpWhenSwapsKeepLosing(t *testing.T) {
	kv := &racingStore{MemoryStore: NewMemoryStore(), races: maxSwapAttempts}
	gw := NewGateway(kv, GatewayOptions{})

	err := gw.Update(context.Background(), func(state *entities.PersistedState) error {
		state.Theme = entities.ThemeDark
		return nil
	})
	if !errors.Is(err, ErrWriteConflict) {
		t.Fatalf("expected ErrWriteConflict, got %v", err)
	}
}

func TestGatewaysSharingFileDirectoryDoNotLoseWrites(t *testing.T) {
	dir := t.TempDir()

	const gateways, writers = 2, 50
	var wg sync.WaitGroup
	for g := 0; g < gateways; g++ {
		kv, err := NewFileStore(dir)
		if err != nil {
			t.Fatalf("new file store: %v", err)
		}
		gw := NewGateway(kv, GatewayOptions{})

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(g, i int) {
				defer wg.Done()
				err := gw.Update(context.Background(), func(state *entities.PersistedState) error {
					state.Todos = append(state.Todos, entities.Task{ID: fmt.Sprintf("g%d-%d", g, i), Title: "t"})
					return nil
				})
				if err != nil {
					t.Errorf("update g%d-%d: %v", g, i, err)
				}
			}(g, i)
		}
	}
	wg.Wait()

	kv, _ := NewFileStore(dir)
	state, err := NewGateway(kv, GatewayOptions{}).Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(state.Todos) != gateways*writers {
		t.Fatalf("expected %d todos, got %d", gateways*writers, len(state.Todos))
	}
}
