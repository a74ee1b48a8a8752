// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/engine"
	"github.com/plutotcool/release/internal/manifest"
)

const (
	// NoticeInfo marks an intentional skip.
	NoticeInfo NoticeLevel = "info"
	// NoticeWarning marks a skip the user probably did not intend.
	NoticeWarning NoticeLevel = "warning"
)

type (
	// Inputs are the run-level facts the decision depends on.
	Inputs struct {
		// Publish is the global publish flag.
		Publish bool
		// PublicToken authenticates against the public registry; empty
		// means absent.
		PublicToken string
		// OwnerScope is "@" followed by the repository owner.
		OwnerScope string
		// Engine is the selected release engine.
		Engine engine.Kind
	}

	// NoticeLevel is the log level of a Notice.
	NoticeLevel string

	// Notice explains why a registry is skipped.
	Notice struct {
		Level   NoticeLevel `json:"level" yaml:"level"`
		Message string      `json:"message" yaml:"message"`
	}

	// Decision is the outcome of Resolve. It is computed once per run.
	Decision struct {
		ToSourceHost     bool     `json:"to_source_host" yaml:"to_source_host"`
		ToPublicRegistry bool     `json:"to_public_registry" yaml:"to_public_registry"`
		Private          bool     `json:"private" yaml:"private"`
		Scope            string   `json:"scope" yaml:"scope"`
		Notices          []Notice `json:"notices,omitempty" yaml:"notices,omitempty"`
	}
)

// Resolve computes the publish decision. pkg and loadErr are the result of
// manifest.Load; any load error makes the package private and scoped to
// the owner, which disables publishing.
func Resolve(in Inputs, pkg *manifest.Manifest, loadErr error) Decision {
	var d Decision

	if loadErr != nil || pkg == nil {
		d.Private = true
		d.Scope = in.OwnerScope
	} else {
		// lerna handles privacy per package.
		d.Private = pkg.Private && in.Engine != engine.MultiPackage
		d.Scope = manifest.Scope(pkg.Name)
	}

	d.ToSourceHost = in.Publish && !d.Private && d.Scope == in.OwnerScope
	d.ToPublicRegistry = in.Publish && !d.Private && in.PublicToken != ""

	switch {
	case !in.Publish:
		d.Notices = append(d.Notices, Notice{NoticeInfo, "Publishing disabled, skipping publishing to package registries"})
	case d.Private:
		d.Notices = append(d.Notices, Notice{NoticeInfo, "Private package detected, skipping publishing to package registries"})
	default:
		if !d.ToSourceHost {
			d.Notices = append(d.Notices, Notice{NoticeWarning, "Package not scoped with " + in.OwnerScope + ", skipping publishing to GitHub registry"})
		}
		if !d.ToPublicRegistry {
			d.Notices = append(d.Notices, Notice{NoticeWarning, "NPM token not provided, skipping publishing to NPM registry"})
		}
	}

	return d
}

// Publishes reports whether any registry is targeted.
func (d Decision) Publishes() bool {
	return d.ToSourceHost || d.ToPublicRegistry
}

// Log writes the notices to logger.
func (d Decision) Log(logger *actions.Logger) {
	for _, n := range d.Notices {
		if n.Level == NoticeWarning {
			logger.Warning(n.Message)
			continue
		}
		logger.Info(n.Message)
	}
}
