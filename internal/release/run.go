// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"os"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/config"
	"github.com/plutotcool/release/internal/engine"
	"github.com/plutotcool/release/internal/issue"
	"github.com/plutotcool/release/internal/npmrc"
	"github.com/plutotcool/release/internal/runner"
	"github.com/plutotcool/release/internal/verify"
)

type (
	// Verifier reports the latest version of a package on a registry.
	Verifier interface {
		Latest(ctx context.Context, name string) (string, error)
	}

	// Options are the collaborators of Run.
	Options struct {
		Settings *config.Settings
		Runner   runner.Runner
		Logger   *actions.Logger
		// Env is the base environment of the engine; nil uses the
		// process environment.
		Env map[string]string
		// NewVerifier builds the post-publish verifier; nil uses the npm
		// registry client.
		NewVerifier func(baseURL string) (Verifier, error)
	}

	// Result describes a completed run.
	Result struct {
		Plan Plan `json:"plan" yaml:"plan"`
		// Verified is the version seen on the public registry after
		// publishing, empty when not verified.
		Verified string `json:"verified,omitempty" yaml:"verified,omitempty"`
	}
)

// Run performs a full release.
func Run(ctx context.Context, opts Options) (*Result, error) {
	s := opts.Settings
	logger := opts.Logger
	if logger == nil {
		logger = actions.Discard()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	plan := NewPlan(s, logger)
	plan.Decision.Log(logger)

	installer := &engine.Installer{Dir: s.Workdir, Runner: opts.Runner, Logger: logger}
	handle, err := installer.Ensure(ctx, plan.Engine)
	if err != nil {
		return nil, err
	}

	// Run-scoped files live outside the checkout and go away with the run.
	runDir, err := os.MkdirTemp(s.TempDir, "release-")
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("create run directory").
			WithResource(s.TempDir).
			WithSuggestion("Check that RUNNER_TEMP points to a writable directory").
			WithIssue(issue.CredentialsWriteFailedId).
			Wrap(err).
			BuildError()
	}
	defer func() {
		if err := os.RemoveAll(runDir); err != nil {
			logger.Debug("could not remove run directory", "path", runDir, "error", err)
		}
	}()

	eng, err := engine.New(handle, engine.Options{
		Dir:     s.Workdir,
		TempDir: runDir,
		Runner:  opts.Runner,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	env := opts.Env
	if env == nil {
		env = runner.Environ()
	}
	driver := &Driver{
		Engine:          eng,
		Env:             env,
		CredentialsPath: npmrc.Path(runDir, s.Workdir),
		Logger:          logger,
	}
	if err := driver.Run(ctx, plan.Rounds); err != nil {
		return nil, err
	}

	result := &Result{Plan: plan}
	if s.Inputs.Verify {
		result.Verified = verifyPublished(ctx, opts, plan, logger)
	}

	if err := actions.AppendSummary(s.StepSummary, result.Markdown()); err != nil {
		logger.Warning("Could not write the job summary: " + err.Error())
	}
	return result, nil
}

// verifyPublished looks the package up on the public registry. Failures
// are reported as warnings: the publish itself already succeeded.
func verifyPublished(ctx context.Context, opts Options, plan Plan, logger *actions.Logger) string {
	// lerna publishes workspace packages, not the root manifest.
	if !plan.Decision.ToPublicRegistry || plan.Package == nil || plan.Engine != engine.SinglePackage {
		return ""
	}

	newVerifier := opts.NewVerifier
	if newVerifier == nil {
		newVerifier = func(baseURL string) (Verifier, error) {
			return verify.New(baseURL, nil)
		}
	}

	v, err := newVerifier(opts.Settings.Registries.Public)
	if err != nil {
		logger.Warning("Could not verify the package on NPM registry: " + err.Error())
		return ""
	}
	version, err := v.Latest(ctx, plan.Package.Name)
	if err != nil {
		logger.Warning("Could not verify the package on NPM registry: " + err.Error())
		return ""
	}

	logger.Info("Latest version on NPM registry is " + version)
	return version
}
