// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/plutotcool/release/internal/actions"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// Command is one subprocess invocation.
	Command struct {
		// Name is the executable, resolved through PATH.
		Name string
		// Args are passed verbatim.
		Args []string
		// Dir is the working directory; empty means the current one.
		Dir string
		// Env is the complete environment of the process. A nil map
		// inherits the environment of the current process.
		Env map[string]string
	}

	// Runner runs commands to completion.
	Runner interface {
		Run(ctx context.Context, cmd Command) error
	}

	// ExecRunner runs commands on the local host through os/exec.
	ExecRunner struct {
		Stdout io.Writer
		Stderr io.Writer
		Logger *actions.Logger
	}

	// ExitError reports a command that ran and exited non-zero.
	ExitError struct {
		Command string
		Code    int
	}
)

// Error mirrors the runner's own wording so job logs stay familiar.
func (e *ExitError) Error() string {
	return fmt.Sprintf("the process '%s' failed with exit code %d", e.Command, e.Code)
}

// String renders the command as a shell-quoted line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, word := range append([]string{c.Name}, c.Args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", word)
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}

// Run executes cmd and waits for it.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if r.Logger != nil {
		r.Logger.Info("[command]" + cmd.String())
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = EnvToSlice(cmd.Env)
	}
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: cmd.Name, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to execute %s: %w", cmd.Name, err)
}
