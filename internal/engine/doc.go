// SPDX-License-Identifier: MPL-2.0

// Package engine selects, installs and drives the external release engine.
//
// Two engines are supported: semantic-release for single-package
// repositories and lerna for multi-package workspaces, detected by the
// presence of lerna.json. Both implement Engine, whose Release method runs
// an optional version/tag step followed by an optional publish step.
package engine
