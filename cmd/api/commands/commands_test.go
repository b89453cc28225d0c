package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig points the CLI at a file backend inside a temp dir
func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "todoplus.yaml")
	body := fmt.Sprintf(`storage:
  backend: file
  dir: %q
  key: cli-test
logger:
  level: error
  output: stderr
metrics:
  enabled: false
`, filepath.Join(dir, "data"))

	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()

	out, err := run(t, cfgPath, args...)
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func addedID(t *testing.T, out string) string {
	t.Helper()

	id := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out), "Added "))
	if id == "" {
		t.Fatalf("no id in output %q", out)
	}
	return id
}

func TestTodoCommands(t *testing.T) {
	cfgPath := writeConfig(t)

	milk := addedID(t, mustRun(t, cfgPath, "todo", "add", "Buy", "milk", "--priority", "high"))
	addedID(t, mustRun(t, cfgPath, "todo", "add", "Walk dog"))

	out := mustRun(t, cfgPath, "todo", "list")
	if !strings.Contains(out, "Buy milk") || !strings.Contains(out, "Walk dog") {
		t.Fatalf("list output missing tasks:\n%s", out)
	}
	if !strings.Contains(out, "2 active, 0 completed") {
		t.Errorf("unexpected counts:\n%s", out)
	}

	out = mustRun(t, cfgPath, "todo", "done", milk)
	if !strings.Contains(out, "[x] Buy milk") {
		t.Errorf("done output = %q", out)
	}

	out = mustRun(t, cfgPath, "todo", "list", "--filter", "completed")
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Walk dog") {
		t.Errorf("completed filter output:\n%s", out)
	}

	out = mustRun(t, cfgPath, "todo", "clear-completed")
	if strings.TrimSpace(out) != "1 tasks remaining" {
		t.Errorf("clear-completed output = %q", out)
	}

	if _, err := run(t, cfgPath, "todo", "add", "   "); err == nil {
		t.Error("blank title should fail")
	}
	if _, err := run(t, cfgPath, "todo", "list", "--filter", "someday"); err == nil {
		t.Error("unknown filter should fail")
	}
	if _, err := run(t, cfgPath, "todo", "done", "missing"); err == nil {
		t.Error("unknown task should fail")
	}
}

func TestProjectCommands(t *testing.T) {
	cfgPath := writeConfig(t)

	work := addedID(t, mustRun(t, cfgPath, "project", "add", "Work", "--color", "#ff0000"))
	mustRun(t, cfgPath, "project", "select", work)

	out := mustRun(t, cfgPath, "project", "list")
	var marked bool
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "*") && strings.Contains(line, work) {
			marked = true
		}
	}
	if !marked {
		t.Errorf("selected project not marked:\n%s", out)
	}

	if _, err := run(t, cfgPath, "project", "rm", "inbox"); err == nil {
		t.Error("removing the inbox should fail")
	}

	mustRun(t, cfgPath, "project", "rm", work)
	out = mustRun(t, cfgPath, "project", "list")
	if strings.Contains(out, work) {
		t.Errorf("removed project still listed:\n%s", out)
	}
}

func TestThemeCommand(t *testing.T) {
	cfgPath := writeConfig(t)

	if out := mustRun(t, cfgPath, "theme"); strings.TrimSpace(out) != "auto" {
		t.Errorf("default theme = %q", out)
	}
	if out := mustRun(t, cfgPath, "theme", "dark"); strings.TrimSpace(out) != "dark" {
		t.Errorf("set theme = %q", out)
	}
	if out := mustRun(t, cfgPath, "theme"); strings.TrimSpace(out) != "dark" {
		t.Errorf("theme after set = %q", out)
	}
	if _, err := run(t, cfgPath, "theme", "neon"); err == nil {
		t.Error("unknown theme should fail")
	}
}

func TestExportImportCommands(t *testing.T) {
	src := writeConfig(t)
	addedID(t, mustRun(t, src, "todo", "add", "Carry over"))

	snapshot := filepath.Join(t.TempDir(), "export.json")
	mustRun(t, src, "export", "-o", snapshot)

	data, err := os.ReadFile(snapshot)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exported map[string]interface{}
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if _, ok := exported["exportedAt"]; !ok {
		t.Error("export should carry exportedAt")
	}

	dst := writeConfig(t)
	out := mustRun(t, dst, "import", snapshot)
	if !strings.HasPrefix(out, "Imported 1 tasks") {
		t.Errorf("import output = %q", out)
	}
	if out := mustRun(t, dst, "todo", "list", "--project", "all"); !strings.Contains(out, "Carry over") {
		t.Errorf("imported task missing:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"todos": "nope"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, dst, "import", bad); err == nil {
		t.Error("invalid snapshot should be rejected")
	}
	if out := mustRun(t, dst, "todo", "list", "--project", "all"); !strings.Contains(out, "Carry over") {
		t.Errorf("rejected import changed state:\n%s", out)
	}
}

func TestMigrateRejectsKeyValueBackends(t *testing.T) {
	cfgPath := writeConfig(t)

	if _, err := run(t, cfgPath, "migrate", "up"); err == nil {
		t.Error("migrate should refuse the file backend")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "TodoPlus "+Version) {
		t.Errorf("version output = %q", out.String())
	}
}
