// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by the package tests: fixture
// files and engine installs (MustWriteFile, InstallEngine), a recording
// command runner, and a semaphore for container-backed tests.
package testutil
