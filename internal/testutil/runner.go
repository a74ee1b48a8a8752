// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/plutotcool/release/internal/runner"
)

// RecordingRunner is a runner.Runner that records every command instead of
// executing it.
//
// OnRun, when set, is called for each command and its error is returned;
// tests use it to simulate side effects (an npm install creating files) or
// failures.
type RecordingRunner struct {
	OnRun func(cmd runner.Command) error

	mu       sync.Mutex
	commands []runner.Command
}

// Run records cmd.
func (r *RecordingRunner) Run(_ context.Context, cmd runner.Command) error {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.OnRun != nil {
		return r.OnRun(cmd)
	}
	return nil
}

// Commands returns the recorded commands in order.
func (r *RecordingRunner) Commands() []runner.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]runner.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Lines returns each recorded command as "name arg1 arg2 ...".
func (r *RecordingRunner) Lines() []string {
	cmds := r.Commands()
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		lines = append(lines, strings.Join(append([]string{c.Name}, c.Args...), " "))
	}
	return lines
}
