// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/plutotcool/release/internal/npmrc"
	"github.com/plutotcool/release/internal/runner"
)

const (
	// EnvRegistry selects the registry npm and lerna publish to.
	EnvRegistry = "NPM_CONFIG_REGISTRY"
	// EnvToken is the registry token read by the engines.
	EnvToken = "NPM_TOKEN"
)

type lerna struct {
	handle Handle
	opts   Options
}

func (l *lerna) Kind() Kind {
	return MultiPackage
}

// Release runs `lerna version` when DoRelease is set. When DoPublish is set
// it rewrites the project .npmrc for the round registry and runs
// `lerna publish from-package`, which publishes the versions already
// committed by the version step.
func (l *lerna) Release(ctx context.Context, req Request) error {
	if req.DoRelease {
		err := l.opts.node(ctx, req.Env,
			l.handle.Executable,
			"version",
			"--yes",
			"--conventional-commits",
		)
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
	}

	if req.DoPublish {
		credentials, err := npmrc.Write(filepath.Join(l.opts.Dir, npmrc.FileName), npmrc.Config{
			Registry: req.Env[EnvRegistry],
			Token:    req.Env[EnvToken],
		})
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
		l.opts.Logger.Debug("wrote project registry credentials", "path", credentials[npmrc.EnvUserConfig])

		err = l.opts.node(ctx, runner.MergeEnv(req.Env, credentials),
			l.handle.Executable,
			"publish",
			"from-package",
			"--yes",
		)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}

	return nil
}
