// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

// configFilePattern names the materialized bundled config. The random part
// keeps it from replacing a release.config.cjs semantic-release would load
// from the repository.
const configFilePattern = "release-*.config.cjs"

// ReleasePlugins are the plugins of the version/tag step: analyze commits,
// generate notes, create the GitHub release. Publishing is left to the
// base config.
var ReleasePlugins = []string{
	"@semantic-release/commit-analyzer",
	"@semantic-release/release-notes-generator",
	"@semantic-release/github",
}

//go:embed release.config.cjs
var bundledConfig []byte

type semanticRelease struct {
	handle     Handle
	opts       Options
	configPath string
}

func newSemanticRelease(h Handle, opts Options) (*semanticRelease, error) {
	dir := opts.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	f, err := os.CreateTemp(dir, configFilePattern)
	if err != nil {
		return nil, fmt.Errorf("write bundled semantic-release config: %w", err)
	}
	_, err = f.Write(bundledConfig)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("write bundled semantic-release config: %w", err)
	}

	return &semanticRelease{handle: h, opts: opts, configPath: f.Name()}, nil
}

func (s *semanticRelease) Kind() Kind {
	return SinglePackage
}

// Release runs semantic-release once with the release plugins when
// DoRelease is set, then once more with the base config when DoPublish is
// set, publishing to whatever registry Env selects.
func (s *semanticRelease) Release(ctx context.Context, req Request) error {
	if req.DoRelease {
		err := s.opts.node(ctx, req.Env,
			s.handle.Executable,
			"--no-ci",
			"--extends", s.configPath,
			"--plugins", strings.Join(ReleasePlugins, ","),
		)
		if err != nil {
			return fmt.Errorf("release: %w", err)
		}
	}

	if req.DoPublish {
		err := s.opts.node(ctx, req.Env,
			s.handle.Executable,
			"--no-ci",
			"--extends", s.configPath,
		)
		if err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}

	return nil
}
