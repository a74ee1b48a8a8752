// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands of release.
//
// The root command runs a full release; `plan` shows what a release would
// do without running anything, and `config show` prints the effective
// settings with tokens redacted.
package cmd
