package viewmodel

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/taskmaster/todoplus/internal/domain/entities"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newModel() *TaskModel {
	return NewTaskModel(fixedClock{t: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)})
}

func mk(id string, completed bool, project, due string) entities.Task {
	return entities.Task{
		ID:        id,
		Title:     id,
		Completed: completed,
		ProjectID: project,
		Priority:  entities.PriorityLow,
		DueDate:   due,
		CreatedAt: "2020-01-01T00:00:00.000Z",
		UpdatedAt: "2020-01-01T00:00:00.000Z",
	}
}

func ids(tasks []entities.Task) []string {
	out := []string{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterModes(t *testing.T) {
	m := newModel()
	m.SetTasks([]entities.Task{
		mk("past", false, "inbox", "2020-01-01"),
		mk("future", false, "inbox", "2020-01-03"),
		mk("bad", false, "inbox", "invalid-date"),
		mk("none", false, "inbox", ""),
		mk("done-past", true, "inbox", "2019-12-01T00:00:00.000Z"),
		mk("exact", false, "inbox", "2020-01-02T00:00:00Z"),
		mk("minutes", false, "inbox", "2020-01-01T23:59"),
	})

	cases := []struct {
		filter entities.FilterMode
		want   []string
	}{
		{entities.FilterAll, []string{"past", "future", "bad", "none", "done-past", "exact", "minutes"}},
		{entities.FilterActive, []string{"past", "future", "bad", "none", "exact", "minutes"}},
		{entities.FilterCompleted, []string{"done-past"}},
		{entities.FilterOverdue, []string{"past", "minutes"}},
	}

	for _, tc := range cases {
		t.Run(string(tc.filter), func(t *testing.T) {
			if err := m.SetFilter(tc.filter); err != nil {
				t.Fatalf("set filter: %v", err)
			}
			if got := ids(m.Filtered()); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSetFilterRejectsUnknownMode(t *testing.T) {
	m := newModel()
	if err := m.SetFilter("someday"); !errors.Is(err, entities.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
	if m.Filter() != entities.FilterAll {
		t.Fatalf("rejected filter must not be applied, got %q", m.Filter())
	}
}

func TestDerivedCounts(t *testing.T) {
	m := newModel()

	empty := m.Derived()
	if empty.ActiveCount != 0 || empty.CompletedCount != 0 || empty.AllCompleted {
		t.Fatalf("unexpected empty view %+v", empty)
	}

	m.SetTasks([]entities.Task{mk("a", true, "inbox", ""), mk("b", false, "inbox", ""), mk("c", true, "p1", "")})
	view := m.Derived()
	if view.ActiveCount != 1 || view.CompletedCount != 2 || view.AllCompleted {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.ActiveCount+view.CompletedCount != len(m.Tasks()) {
		t.Fatalf("counts do not add up")
	}

	m.Update("b", entities.TaskChanges{Completed: boolPtr(true)})
	if !m.Derived().AllCompleted {
		t.Fatalf("expected allCompleted after completing every task")
	}
}

func TestProjectScope(t *testing.T) {
	m := newModel()
	m.SetTasks([]entities.Task{mk("a", false, "p1", ""), mk("b", true, "p2", ""), mk("c", true, "p1", "")})

	m.SetProject("p1")
	view := m.Derived()
	if got := ids(view.Todos); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("unexpected scoped todos %v", got)
	}
	if view.ActiveCount != 1 || view.CompletedCount != 1 || view.ProjectID != "p1" {
		t.Fatalf("unexpected scoped view %+v", view)
	}

	m.SetProject("")
	if got := ids(m.Filtered()); len(got) != 3 {
		t.Fatalf("empty project id should show everything, got %v", got)
	}
}

func TestMutations(t *testing.T) {
	m := newModel()
	m.Add(mk("a", false, "inbox", ""))
	m.Add(mk("b", false, "inbox", ""))

	m.Update("a", entities.TaskChanges{Title: strPtr("renamed")})
	m.Update("zzz", entities.TaskChanges{Title: strPtr("ignored")})
	tasks := m.Tasks()
	if tasks[0].Title != "renamed" || tasks[0].UpdatedAt != "2020-01-01T00:00:00.000Z" {
		t.Fatalf("unexpected update result %+v", tasks[0])
	}

	m.Remove("a")
	m.Remove("a")
	if got := ids(m.Tasks()); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("unexpected tasks after remove %v", got)
	}

	m.ReplaceAll(nil)
	if len(m.Tasks()) != 0 {
		t.Fatalf("replaceAll(nil) should empty the model")
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	m := newModel()
	m.SetTasks([]entities.Task{mk("a", false, "inbox", "")})

	tasks := m.Tasks()
	tasks[0].Title = "mutated"
	if m.Tasks()[0].Title != "a" {
		t.Fatalf("callers must not be able to mutate the model")
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := newModel()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Add(mk("x", false, "inbox", ""))
		}()
		go func() {
			defer wg.Done()
			_ = m.Derived()
		}()
	}
	wg.Wait()

	if len(m.Tasks()) != 20 {
		t.Fatalf("expected 20 tasks, got %d", len(m.Tasks()))
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
