// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/plutotcool/release/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the `release config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the release configuration",
		Long: `Inspect the release configuration.

The configuration is read from .release.cue or .release.toml at the
repository root, the INPUT_* environment of GitHub Actions and flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration with tokens redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, loadOptions(cmd, flags))
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, opts config.LoadOptions) error {
	s, err := app.loadSettings(ctx, opts)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(s.Effective())
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	_, err = app.stdout.Write(out)
	return err
}
