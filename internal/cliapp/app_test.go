package cliapp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const scheduleFixtureYAML = `
tasks:
  - id: a
    name: Design
    task_type: FixedDuration
    duration_days: 2
  - id: b
    name: Build
    task_type: FixedDuration
    duration_days: 3
    dependencies:
      - predecessor_id: a
        type: FS
`

func TestApp_ScheduleCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte(scheduleFixtureYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out bytes.Buffer
	app := New()
	app.Writer = &out
	app.ErrWriter = &out

	args := []string{"tessera", "schedule", "--fixture", path, "--start", "2026-03-02T00:00:00Z"}
	if err := app.Run(args); err != nil {
		t.Fatalf("app.Run: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected schedule summary output, got none")
	}
}

func TestApp_MissingFixtureFlag(t *testing.T) {
	app := New()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}

	err := app.Run([]string{"tessera", "schedule", "--start", "2026-03-02T00:00:00Z"})
	if err == nil {
		t.Fatal("expected error for missing required --fixture flag")
	}
}
