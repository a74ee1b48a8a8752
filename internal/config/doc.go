// SPDX-License-Identifier: MPL-2.0

// Package config resolves the settings of a release run using Viper.
//
// Settings come from, in increasing precedence: built-in defaults, the
// optional repository file (.release.cue, validated against an embedded CUE
// schema, or .release.toml), the GitHub Actions INPUT_* environment and
// command-line flags. Tokens are inputs only and are rejected in files.
package config
