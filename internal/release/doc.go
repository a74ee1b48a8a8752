// SPDX-License-Identifier: MPL-2.0

// Package release runs a release: it selects the engine, decides the
// publish targets, installs the engine and drives it through the
// source-host round and the public-registry round, in that order.
package release
