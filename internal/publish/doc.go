// SPDX-License-Identifier: MPL-2.0

// Package publish decides which registries a release is published to.
//
// The decision is a pure function of the run inputs and the package
// manifest. It never fails: a missing or unreadable manifest disables
// publishing.
package publish
