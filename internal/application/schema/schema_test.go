package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/taskmaster/todoplus/internal/domain/entities"
)

const validPayload = `{
  "version": "1",
  "todos": [
    {
      "id": "t1",
      "title": "Buy milk",
      "completed": false,
      "projectId": "p1",
      "priority": "medium",
      "dueDate": "2025-12-20T00:00:00.000Z",
      "createdAt": "2025-12-18T10:00:00.000Z",
      "updatedAt": "2025-12-18T10:00:00.000Z"
    }
  ],
  "projects": [
    { "id": "p1", "name": "Home", "color": "#ff0000", "icon": "house" }
  ],
  "theme": "dark",
  "selectedProjectId": "p1",
  "exportedAt": "2025-12-18T12:00:00.000Z"
}`

func TestParseAcceptsValidPayload(t *testing.T) {
	state, err := Parse([]byte(validPayload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if state.Version != "1" || state.Theme != entities.ThemeDark {
		t.Fatalf("unexpected header fields %+v", state)
	}
	if len(state.Projects) != 1 || state.Projects[0].Icon != "house" {
		t.Fatalf("unexpected projects %+v", state.Projects)
	}
	if len(state.Todos) != 1 || state.Todos[0].Priority != entities.PriorityMedium {
		t.Fatalf("unexpected todos %+v", state.Todos)
	}
	if state.ExportedAt != "2025-12-18T12:00:00.000Z" {
		t.Fatalf("unexpected exportedAt %q", state.ExportedAt)
	}
}

func TestParseAcceptsEmptyLists(t *testing.T) {
	state, err := Parse([]byte(`{"version":"1","todos":[],"projects":[],"theme":"auto","selectedProjectId":"all"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if state.Todos == nil || state.Projects == nil {
		t.Fatalf("lists must be non-nil: %+v", state)
	}
}

func TestParseRejects(t *testing.T) {
	replace := func(old, new string) string {
		if !strings.Contains(validPayload, old) {
			t.Fatalf("fixture does not contain %q", old)
		}
		return strings.Replace(validPayload, old, new, 1)
	}

	cases := []struct {
		name     string
		payload  string
		wantPath string
	}{
		{
			name:    "missing arrays",
			payload: `{"version":"1","theme":"dark","selectedProjectId":"all"}`,
		},
		{
			name:     "priority outside enum",
			payload:  replace(`"priority": "medium"`, `"priority": "urgent"`),
			wantPath: "todos[0].priority",
		},
		{
			name:     "unknown task field",
			payload:  replace(`"completed": false,`, `"completed": false, "tags": [],`),
			wantPath: "todos[0]",
		},
		{
			name:     "completed not boolean",
			payload:  replace(`"completed": false`, `"completed": "no"`),
			wantPath: "todos[0].completed",
		},
		{
			name:     "unknown project field",
			payload:  replace(`"icon": "house"`, `"icon": "house", "archived": true`),
			wantPath: "projects[0]",
		},
		{
			name:     "theme outside enum",
			payload:  replace(`"theme": "dark"`, `"theme": "sepia"`),
			wantPath: "theme",
		},
		{
			name:     "numeric version",
			payload:  replace(`"version": "1"`, `"version": 1`),
			wantPath: "version",
		},
		{
			name:    "unknown top-level field",
			payload: replace(`"theme": "dark"`, `"theme": "dark", "filter": "all"`),
		},
		{
			name:    "top-level array",
			payload: `[]`,
		},
		{
			name:    "syntax error",
			payload: `{"version": "1",`,
		},
		{
			name:    "empty input",
			payload: ``,
		},
		{
			name:    "trailing data",
			payload: validPayload + ` {}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := Parse([]byte(tc.payload))
			if state != nil {
				t.Fatalf("rejected payload must not yield a state, got %+v", state)
			}
			if !errors.Is(err, entities.ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if tc.wantPath != "" && ve.Path != tc.wantPath {
				t.Fatalf("expected path %q, got %q (%s)", tc.wantPath, ve.Path, ve.Message)
			}
		})
	}
}

func TestPointerToPath(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"/theme":             "theme",
		"/todos/3/priority":  "todos[3].priority",
		"/projects/0":        "projects[0]",
		"/a~1b/c~0d":         "a/b.c~d",
	}
	for in, want := range cases {
		if got := pointerToPath(in); got != want {
			t.Fatalf("pointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}
