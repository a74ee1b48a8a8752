// SPDX-License-Identifier: MPL-2.0

// Package verify checks that a published package is visible on an npm
// registry.
package verify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/git-pkgs/registries"
	_ "github.com/git-pkgs/registries/all"
)

// ecosystem is the registries ecosystem serving npm-compatible registries.
const ecosystem = "npm"

var (
	// ErrNotPublished is returned when the registry does not know the
	// package.
	ErrNotPublished = errors.New("package not published")
	// ErrNoVersion is returned when the package exists but has no usable
	// version.
	ErrNoVersion = errors.New("no published version")
)

// Verifier queries one registry.
type Verifier struct {
	registry registries.Registry
}

// New returns a Verifier for the registry at baseURL. A nil client uses
// registries.DefaultClient.
func New(baseURL string, client *registries.Client) (*Verifier, error) {
	if client == nil {
		client = registries.DefaultClient()
	}
	reg, err := registries.New(ecosystem, baseURL, client)
	if err != nil {
		return nil, fmt.Errorf("create %s registry client: %w", baseURL, err)
	}
	return &Verifier{registry: reg}, nil
}

// Latest returns the newest non-deprecated version of name.
func (v *Verifier) Latest(ctx context.Context, name string) (string, error) {
	version, err := registries.FetchLatestVersion(ctx, v.registry, name)
	if isNotFound(err) {
		return "", fmt.Errorf("fetch %s: %w: %v", name, ErrNotPublished, err)
	}
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", name, err)
	}
	if version == nil {
		return "", fmt.Errorf("fetch %s: %w", name, ErrNoVersion)
	}
	return version.Number, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, registries.ErrNotFound) {
		return true
	}
	var httpErr *registries.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
