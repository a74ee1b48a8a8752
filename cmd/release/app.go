// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/config"
	"github.com/plutotcool/release/internal/release"
	"github.com/plutotcool/release/internal/runner"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App and delegate through it.
	App struct {
		Config      ConfigProvider
		NewRunner   func(logger *actions.Logger) runner.Runner
		NewVerifier func(baseURL string) (release.Verifier, error)
		// Env is the base engine environment; nil uses the process
		// environment.
		Env    map[string]string
		stdout io.Writer
		stderr io.Writer

		// settings are the last loaded settings, used when rendering
		// errors.
		settings *config.Settings
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		NewRunner   func(logger *actions.Logger) runner.Runner
		NewVerifier func(baseURL string) (release.Verifier, error)
		Env         map[string]string
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads settings using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Settings, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewRunner == nil {
		stdout, stderr := deps.Stdout, deps.Stderr
		deps.NewRunner = func(logger *actions.Logger) runner.Runner {
			return &runner.ExecRunner{Stdout: stdout, Stderr: stderr, Logger: logger}
		}
	}

	return &App{
		Config:      deps.Config,
		NewRunner:   deps.NewRunner,
		NewVerifier: deps.NewVerifier,
		Env:         deps.Env,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
}

// loadSettings loads settings for a command and remembers them for error
// rendering.
func (a *App) loadSettings(ctx context.Context, opts config.LoadOptions) (*config.Settings, error) {
	s, err := a.Config.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	a.settings = s
	return s, nil
}

// logger returns the run logger for s.
func (a *App) logger(s *config.Settings) *actions.Logger {
	return actions.NewLogger(a.stderr, a.stdout, actions.Options{
		Workflow: s.Workflow,
		Verbose:  s.Verbose,
	})
}

// workflow reports whether errors should be raised as annotations.
func (a *App) workflow() bool {
	if a.settings != nil {
		return a.settings.Workflow
	}
	return actions.InWorkflow(os.Getenv)
}

// verbose reports whether errors should show their chain.
func (a *App) verbose() bool {
	return a.settings != nil && a.settings.Verbose
}
