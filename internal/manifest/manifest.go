// SPDX-License-Identifier: MPL-2.0

// Package manifest reads npm package manifests (package.json).
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the manifest file looked up in a package directory.
const FileName = "package.json"

var (
	// ErrNotFound means the directory has no manifest.
	ErrNotFound = errors.New("package manifest not found")
	// ErrMalformed means the manifest exists but cannot be used: invalid
	// JSON, wrong field types, or no package name.
	ErrMalformed = errors.New("package manifest malformed")
)

type (
	// Manifest holds the package.json fields the release pipeline reads.
	Manifest struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Private bool   `json:"private"`
		Bin     Bin    `json:"bin"`
	}

	// Bin maps command names to script paths. The string form of the
	// field is stored under the empty key.
	Bin map[string]string
)

// UnmarshalJSON accepts both `"bin": "cli.js"` and `"bin": {"x": "cli.js"}`.
func (b *Bin) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*b = Bin{"": single}
		return nil
	}

	var named map[string]string
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}
	*b = Bin(named)
	return nil
}

// Executable returns the script registered for command, falling back to
// the string form of the field.
func (b Bin) Executable(command string) (string, bool) {
	if path, ok := b[command]; ok && path != "" {
		return path, true
	}
	if path, ok := b[""]; ok && path != "" {
		return path, true
	}
	return "", false
}

// Load reads the manifest of the package rooted at dir. Failures are
// reported as ErrNotFound or ErrMalformed so callers can branch with
// errors.Is.
func Load(dir string) (*Manifest, error) {
	m, err := Read(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, fmt.Errorf("%w: %s has no name", ErrMalformed, filepath.Join(dir, FileName))
	}
	return m, nil
}

// Read parses the manifest at path without requiring a name.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return &m, nil
}

// Scope returns the scope segment of a package name: the text before the
// first '/', or "" when the name is unscoped.
func Scope(name string) string {
	scope, _, found := strings.Cut(name, "/")
	if !found {
		return ""
	}
	return scope
}
