// SPDX-License-Identifier: MPL-2.0

package release

import (
	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/config"
	"github.com/plutotcool/release/internal/engine"
	"github.com/plutotcool/release/internal/manifest"
	"github.com/plutotcool/release/internal/publish"
)

type (
	// Package is the part of the manifest a plan reports.
	Package struct {
		Name    string `json:"name" yaml:"name"`
		Version string `json:"version,omitempty" yaml:"version,omitempty"`
		Private bool   `json:"private" yaml:"private"`
	}

	// Plan is everything decided before the engine runs.
	Plan struct {
		Engine     engine.Kind       `json:"engine" yaml:"engine"`
		Repository config.Repository `json:"repository" yaml:"repository"`
		Package    *Package          `json:"package,omitempty" yaml:"package,omitempty"`
		// ManifestError explains why the manifest could not be used.
		ManifestError string           `json:"manifest_error,omitempty" yaml:"manifest_error,omitempty"`
		Decision      publish.Decision `json:"decision" yaml:"decision"`
		Rounds        []Round          `json:"rounds" yaml:"rounds"`
	}
)

// NewPlan selects the engine, loads the manifest and resolves the publish
// decision. It runs no subprocess and writes no file.
func NewPlan(s *config.Settings, logger *actions.Logger) Plan {
	kind := engine.Detect(s.Workdir, logger)

	pkg, err := manifest.Load(s.Workdir)
	if err != nil {
		logger.Debug("package manifest unavailable", "error", err)
	}

	decision := publish.Resolve(publish.Inputs{
		Publish:     s.Inputs.Publish,
		PublicToken: s.Inputs.NPMToken,
		OwnerScope:  s.Repository.OwnerScope(),
		Engine:      kind,
	}, pkg, err)

	p := Plan{
		Engine:     kind,
		Repository: s.Repository,
		Decision:   decision,
		Rounds:     Rounds(s, decision),
	}
	if err != nil {
		p.ManifestError = err.Error()
	} else {
		p.Package = &Package{Name: pkg.Name, Version: pkg.Version, Private: pkg.Private}
	}
	return p
}
