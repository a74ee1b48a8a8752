// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/engine"
	"github.com/plutotcool/release/internal/issue"
	"github.com/plutotcool/release/internal/npmrc"
	"github.com/plutotcool/release/internal/runner"
)

// Driver runs rounds through an engine.
type Driver struct {
	Engine engine.Engine
	// Env is the base environment of every round, usually the process
	// environment.
	Env map[string]string
	// CredentialsPath is where publishing rounds write registry
	// credentials.
	CredentialsPath string
	Logger          *actions.Logger
}

// Run performs rounds in order and stops at the first failure. Side effects
// of completed rounds are kept.
func (d *Driver) Run(ctx context.Context, rounds []Round) error {
	for _, r := range rounds {
		d.Logger.Mask(r.token)
	}

	for _, r := range rounds {
		if err := d.round(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) round(ctx context.Context, r Round) error {
	d.announce(r)
	if !r.DoRelease && !r.DoPublish {
		return nil
	}

	env := runner.MergeEnv(d.Env, r.env)
	// lerna writes its own project .npmrc for the publish step.
	if r.DoPublish && d.Engine.Kind() != engine.MultiPackage {
		credentials, err := npmrc.Write(d.CredentialsPath, npmrc.Config{Registry: r.Registry, Token: r.token})
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("write registry credentials").
				WithResource(d.CredentialsPath).
				WithIssue(issue.CredentialsWriteFailedId).
				Wrap(err).
				BuildError()
		}
		env = runner.MergeEnv(env, credentials)
	}

	done := d.Logger.Group(groupName(r))
	err := d.Engine.Release(ctx, engine.Request{
		DoRelease: r.DoRelease,
		DoPublish: r.DoPublish,
		Env:       env,
	})
	done()
	if err != nil {
		return roundError(r, err)
	}

	d.complete(r)
	return nil
}

func (d *Driver) announce(r Round) {
	switch r.Target {
	case SourceHost:
		msg := "Creating release on GitHub"
		if r.DoPublish {
			msg += " and publishing to GitHub registry"
		}
		d.Logger.Info(msg + "...")
	case PublicRegistry:
		if r.DoPublish {
			d.Logger.Info("Publishing to NPM registry...")
		}
	}
}

func (d *Driver) complete(r Round) {
	switch r.Target {
	case SourceHost:
		d.Logger.Info("Release available on GitHub")
		if r.DoPublish {
			d.Logger.Info("Package available on GitHub registry")
		}
	case PublicRegistry:
		if r.DoPublish {
			d.Logger.Info("Package available on NPM registry")
		}
	}
}

func groupName(r Round) string {
	if r.Target == SourceHost {
		return "GitHub release"
	}
	return "NPM registry"
}

func roundError(r Round, err error) error {
	if r.Target == SourceHost {
		return issue.NewErrorContext().
			WithOperation("create release on GitHub").
			WithResource(r.Registry).
			WithSuggestion("Check the engine output in the GitHub release group").
			WithIssue(issue.ReleaseFailedId).
			Wrap(err).
			BuildError()
	}
	return issue.NewErrorContext().
		WithOperation("publish to NPM registry").
		WithResource(r.Registry).
		WithSuggestion("Check that npm_token can publish this package").
		WithIssue(issue.PublishFailedId).
		Wrap(err).
		BuildError()
}
