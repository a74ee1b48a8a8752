// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// Provider loads settings from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Settings, error)
}

type fileProvider struct{}

// NewProvider creates a settings provider backed by Load.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads settings from the requested sources.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	return Load(ctx, opts)
}
