// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/runner"
)

type (
	// Request is one release round.
	Request struct {
		// DoRelease computes the next version and tags it.
		DoRelease bool
		// DoPublish publishes the package to the registry selected by Env.
		DoPublish bool
		// Env is the complete subprocess environment, including
		// NPM_CONFIG_REGISTRY and NPM_TOKEN for the round's registry.
		Env map[string]string
	}

	// Engine performs release rounds.
	Engine interface {
		Kind() Kind
		Release(ctx context.Context, req Request) error
	}

	// Options are shared by every engine adapter.
	Options struct {
		// Dir is the repository root the engine runs in.
		Dir string
		// TempDir holds run-scoped files such as the bundled config.
		TempDir string
		// Node is the node executable; defaults to "node".
		Node   string
		Runner runner.Runner
		Logger *actions.Logger
	}
)

// New returns the adapter for h.Kind.
func New(h Handle, opts Options) (Engine, error) {
	if opts.Node == "" {
		opts.Node = "node"
	}
	if opts.Logger == nil {
		opts.Logger = actions.Discard()
	}

	switch h.Kind {
	case SinglePackage:
		return newSemanticRelease(h, opts)
	case MultiPackage:
		return &lerna{handle: h, opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown release engine %q", h.Kind)
	}
}

func (o Options) node(ctx context.Context, env map[string]string, args ...string) error {
	return o.Runner.Run(ctx, runner.Command{
		Name: o.Node,
		Args: args,
		Dir:  o.Dir,
		Env:  env,
	})
}
