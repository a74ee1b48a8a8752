// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"os"
	"path/filepath"

	"github.com/plutotcool/release/internal/actions"
)

// Kind identifies a release engine. The value is the npm package name and
// the name of its executable.
type Kind string

const (
	// SinglePackage releases one package with semantic-release.
	SinglePackage Kind = "semantic-release"
	// MultiPackage releases a workspace with lerna.
	MultiPackage Kind = "lerna"

	// MarkerFile marks a multi-package workspace.
	MarkerFile = "lerna.json"
)

// String returns the engine package name.
func (k Kind) String() string {
	return string(k)
}

// Detect selects the engine for the repository rooted at dir.
func Detect(dir string, logger *actions.Logger) Kind {
	if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil {
		logger.Info("Lerna detected, releasing using lerna")
		return MultiPackage
	}
	logger.Info("Lerna not detected, releasing using semantic-release")
	return SinglePackage
}
