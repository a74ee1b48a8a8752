// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of known release
// failures.
//
// An ActionableError names the operation that failed, the resource involved
// and what the operator can do about it. Catalog entries carry Markdown
// guidance that the CLI renders with glamour when a failure is tagged with
// an issue Id.
package issue
