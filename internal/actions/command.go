// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// EnvActions is set to "true" by the runner for every step.
	EnvActions = "GITHUB_ACTIONS"
	// EnvStepSummary points at the Markdown file rendered on the run page.
	EnvStepSummary = "GITHUB_STEP_SUMMARY"
)

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// InWorkflow reports whether getenv describes a GitHub Actions step.
func InWorkflow(getenv func(string) string) bool {
	return getenv(EnvActions) == "true"
}

// IssueCommand writes "::<name>::<message>" with the message escaped the
// way the runner expects.
func IssueCommand(w io.Writer, name, message string) error {
	_, err := fmt.Fprintf(w, "::%s::%s\n", name, dataEscaper.Replace(message))
	return err
}

// AppendSummary appends markdown to the step summary file at path.
// An empty path is a no-op.
func AppendSummary(path, markdown string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open step summary: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	if _, err := f.WriteString(markdown); err != nil {
		return fmt.Errorf("write step summary: %w", err)
	}
	return nil
}
