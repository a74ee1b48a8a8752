// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/plutotcool/release/internal/config"
	"github.com/plutotcool/release/internal/release"

	"github.com/spf13/cobra"
)

func newRunCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Create the release and publish the package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(cmd.Context(), app, loadOptions(cmd, flags))
		},
	}
}

func runRelease(ctx context.Context, app *App, opts config.LoadOptions) error {
	s, err := app.loadSettings(ctx, opts)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	logger := app.logger(s)
	if s.ConfigFile != "" {
		logger.Debug("loaded configuration", "path", s.ConfigFile)
	}

	_, err = release.Run(ctx, release.Options{
		Settings:    s,
		Runner:      app.NewRunner(logger),
		Logger:      logger,
		Env:         app.Env,
		NewVerifier: app.NewVerifier,
	})
	return err
}
