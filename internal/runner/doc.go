// SPDX-License-Identifier: MPL-2.0

// Package runner executes external tools (npm, node) on behalf of the
// release pipeline.
//
// Commands stream their output to the configured writers, run in an
// explicit working directory with an explicit environment, and report a
// non-zero exit as *ExitError. The Runner interface is the seam tests use
// to record invocations instead of spawning processes.
package runner
