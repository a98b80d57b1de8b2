// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/schemasync/internal/cli/output"
)

// UniversityModels is a two-entity model file used across CLI tests.
const UniversityModels = `entities:
  - name: Course
    fields:
      - {name: Id, type: int, primary_key: true}
      - {name: CourseName, type: string}
  - name: Student
    fields:
      - {name: Id, type: int, primary_key: true}
      - {name: Email, type: int, unique: true}
      - {name: Name, type: string, nullable: true}
      - {name: EnrolledAt, type: datetime, nullable: true}
      - {name: CourseId, type: int, references: {table: Course, column: Id}}
`

// ProjectConfig is the schemasync.yaml written by SetupTestProject.
const ProjectConfig = `models: models.yaml
state_path: .schemasync/state.db
target:
  type: sqlserver
  host: localhost
  database: University
  user: app
  password: ${SCHEMASYNC_TEST_PASSWORD}
environments:
  prod:
    target:
      host: prod.internal
`

// SetupTestProject creates a temporary project with a config file and the university model,
// and makes it the working directory for the rest of the test.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteFile(t, filepath.Join(dir, "schemasync.yaml"), ProjectConfig)
	WriteFile(t, filepath.Join(dir, "models.yaml"), UniversityModels)
	t.Chdir(dir)

	return dir
}

// WriteFile writes content to path, failing the test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
