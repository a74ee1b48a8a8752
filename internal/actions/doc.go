// SPDX-License-Identifier: MPL-2.0

// Package actions adapts logging to the GitHub Actions runner.
//
// Log lines go through a charmbracelet/log logger on stderr. When the
// process runs inside a workflow, warnings and errors are additionally
// emitted as workflow commands on stdout so they surface as annotations,
// secrets are registered for masking, and long subprocess output is folded
// into groups.
package actions
