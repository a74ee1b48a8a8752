// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIssueCommand_Escapes(t *testing.T) {
	var buf bytes.Buffer
	if err := IssueCommand(&buf, "warning", "50% done\r\nnext"); err != nil {
		t.Fatalf("IssueCommand() error = %v", err)
	}
	if got, want := buf.String(), "::warning::50%25 done%0D%0Anext\n"; got != want {
		t.Errorf("IssueCommand() wrote %q, want %q", got, want)
	}
}

func TestInWorkflow(t *testing.T) {
	env := map[string]string{EnvActions: "true"}
	if !InWorkflow(func(k string) string { return env[k] }) {
		t.Error("InWorkflow() = false with GITHUB_ACTIONS=true")
	}
	if InWorkflow(func(string) string { return "" }) {
		t.Error("InWorkflow() = true without GITHUB_ACTIONS")
	}
}

func TestLogger_WorkflowCommands(t *testing.T) {
	tests := []struct {
		name     string
		workflow bool
		act      func(l *Logger)
		want     string
	}{
		{
			name:     "warning annotation",
			workflow: true,
			act:      func(l *Logger) { l.Warning("Package not scoped") },
			want:     "::warning::Package not scoped\n",
		},
		{
			name:     "mask secret",
			workflow: true,
			act:      func(l *Logger) { l.Mask("s3cret") },
			want:     "::add-mask::s3cret\n",
		},
		{
			name:     "mask ignores empty",
			workflow: true,
			act:      func(l *Logger) { l.Mask("  ") },
			want:     "",
		},
		{
			name:     "group",
			workflow: true,
			act:      func(l *Logger) { l.Group("Release")() },
			want:     "::group::Release\n::endgroup::\n",
		},
		{
			name:     "no commands outside workflow",
			workflow: false,
			act: func(l *Logger) {
				l.Warning("w")
				l.Mask("s3cret")
				l.Group("g")()
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr, stdout bytes.Buffer
			l := NewLogger(&stderr, &stdout, Options{Workflow: tt.workflow})
			tt.act(l)
			if got := stdout.String(); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_InfoGoesToStderr(t *testing.T) {
	var stderr, stdout bytes.Buffer
	l := NewLogger(&stderr, &stdout, Options{Workflow: true})
	l.Info("Lerna detected, releasing using lerna")

	if !strings.Contains(stderr.String(), "Lerna detected") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
}

func TestAppendSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")

	if err := AppendSummary(path, "# one"); err != nil {
		t.Fatalf("AppendSummary() error = %v", err)
	}
	if err := AppendSummary(path, "# two\n"); err != nil {
		t.Fatalf("AppendSummary() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "# one\n# two\n"; got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}

	if err := AppendSummary("", "ignored"); err != nil {
		t.Errorf("AppendSummary(\"\") error = %v", err)
	}
}
