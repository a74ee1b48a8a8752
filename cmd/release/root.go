// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/config"
	"github.com/plutotcool/release/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type rootFlags struct {
	configPath string
	workdir    string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "release",
		Short: "Release and publish an npm package from CI",
		Long: TitleStyle.Render("release") + SubtitleStyle.Render(" - Release and publish an npm package from CI") + `

release creates the next release of the repository with semantic-release,
or lerna when lerna.json is present, then publishes the package to the
GitHub registry when it is scoped with the repository owner and to the
npm registry when an npm token is provided.

` + SubtitleStyle.Render("Inputs:") + `
  INPUT_GITHUB_TOKEN   --github-token   required
  INPUT_NPM_TOKEN      --npm-token      enables publishing to npm
  INPUT_PUBLISH        --publish        "false" disables publishing
  INPUT_VERIFY         --verify         check npm after publishing

` + SubtitleStyle.Render("Examples:") + `
  release                     Run a release
  release plan                Show what a release would do
  release plan --format json  Same, as JSON
  release config show         Show the effective configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelease(cmd.Context(), app, loadOptions(cmd, flags))
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is .release.cue or .release.toml in the workdir)")
	rootCmd.PersistentFlags().StringVar(&flags.workdir, "workdir", "", "repository root (default is the current directory)")
	rootCmd.PersistentFlags().BoolP(config.FlagVerbose, "v", false, "enable verbose output")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newRunCommand(app, flags))
	rootCmd.AddCommand(newPlanCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// loadOptions collects the settings sources of cmd.
func loadOptions(cmd *cobra.Command, flags *rootFlags) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: flags.configPath,
		Workdir:        flags.workdir,
		Flags:          cmd.Flags(),
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		os.Exit(1)
	}
}

// handleError reports a failed command: as an error annotation under
// GitHub Actions, then as a styled message with the matching issue entry.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	if a.workflow() {
		_ = actions.IssueCommand(a.stdout, "error", err.Error())
	}

	_, _ = fmt.Fprintln(w, styles.ErrorHeader.String())
	_, _ = fmt.Fprintln(w, ErrorStyle.Render(formatErrorForDisplay(err, a.verbose())))

	entry := issue.Get(issue.IdOf(err))
	if entry == nil {
		return
	}
	style := "auto"
	if a.workflow() {
		style = "notty"
	}
	rendered, renderErr := entry.Render(style)
	if renderErr != nil {
		return
	}
	_, _ = fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
