// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/issue"
	"github.com/plutotcool/release/internal/manifest"
	"github.com/plutotcool/release/internal/runner"
)

// ModulesDir is the local dependency tree engines are resolved from.
const ModulesDir = "node_modules"

type (
	// Handle is a resolved engine: its kind and the script to run with node,
	// relative to the repository root.
	Handle struct {
		Kind       Kind
		Executable string
	}

	// Installer makes sure an engine is available in the repository.
	Installer struct {
		// Dir is the repository root.
		Dir string
		// NPM is the npm executable; defaults to "npm".
		NPM    string
		Runner runner.Runner
		Logger *actions.Logger
	}
)

// Ensure returns the handle of kind, installing the engine first when it is
// not in node_modules. The install leaves package.json and the lockfile
// untouched.
func (i *Installer) Ensure(ctx context.Context, kind Kind) (Handle, error) {
	manifestPath := filepath.Join(i.Dir, ModulesDir, kind.String(), manifest.FileName)

	if _, err := os.Stat(manifestPath); errors.Is(err, os.ErrNotExist) {
		if err := i.install(ctx, kind); err != nil {
			return Handle{}, err
		}
	} else if err != nil {
		return Handle{}, issue.NewErrorContext().
			WithOperation("inspect " + kind.String()).
			WithResource(manifestPath).
			Wrap(err).
			BuildError()
	}

	m, err := manifest.Read(manifestPath)
	if err != nil {
		return Handle{}, issue.NewErrorContext().
			WithOperation("read " + kind.String() + " manifest").
			WithResource(manifestPath).
			WithIssue(issue.EngineExecutableMissingId).
			Wrap(err).
			BuildError()
	}

	bin, ok := m.Bin.Executable(kind.String())
	if !ok {
		return Handle{}, issue.NewErrorContext().
			WithOperation("resolve " + kind.String() + " executable").
			WithResource(manifestPath).
			WithSuggestion("Reinstall the engine or pin a released version").
			WithIssue(issue.EngineExecutableMissingId).
			Wrap(errors.New("no bin entry")).
			BuildError()
	}

	return Handle{
		Kind:       kind,
		Executable: path.Join(ModulesDir, kind.String(), filepath.ToSlash(bin)),
	}, nil
}

func (i *Installer) install(ctx context.Context, kind Kind) error {
	npm := i.NPM
	if npm == "" {
		npm = "npm"
	}

	i.Logger.Info("Installing " + kind.String() + "...")

	err := i.Runner.Run(ctx, runner.Command{
		Name: npm,
		Args: []string{"install", kind.String(), "--no-save", "--no-package-lock"},
		Dir:  i.Dir,
	})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("install " + kind.String()).
			WithSuggestion("Set up Node.js before this step").
			WithSuggestion("Add " + kind.String() + " to devDependencies").
			WithIssue(issue.EngineInstallFailedId).
			Wrap(err).
			BuildError()
	}

	i.Logger.Info("Installed " + kind.String())
	return nil
}
