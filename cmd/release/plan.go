// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/config"
	"github.com/plutotcool/release/internal/publish"
	"github.com/plutotcool/release/internal/release"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatText     = "text"
	formatYAML     = "yaml"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

func newPlanCommand(app *App, flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the engine, package and registries of the next release",
		Long: `Show what the next release would do: the engine, the package, the
publish decision and the two rounds. Nothing is installed, run or written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showPlan(cmd.Context(), app, loadOptions(cmd, flags), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, yaml, json or markdown")

	return cmd
}

func showPlan(ctx context.Context, app *App, opts config.LoadOptions, format string) error {
	s, err := app.loadSettings(ctx, opts)
	if err != nil {
		return err
	}
	if err := s.ValidateRepository(); err != nil {
		return err
	}

	// Logs go to stderr so structured output stays parseable.
	plan := release.NewPlan(s, actions.NewLogger(app.stderr, io.Discard, actions.Options{Verbose: s.Verbose}))
	return writePlan(app.stdout, plan, format)
}

func writePlan(w io.Writer, plan release.Plan, format string) error {
	switch format {
	case formatText:
		_, err := fmt.Fprint(w, renderPlanText(plan))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case formatMarkdown:
		out, err := glamour.Render(plan.Markdown(), "auto")
		if err != nil {
			return fmt.Errorf("render plan: %w", err)
		}
		_, err = fmt.Fprint(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want %s, %s, %s or %s)", format, formatText, formatYAML, formatJSON, formatMarkdown)
	}
}

func renderPlanText(plan release.Plan) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Release plan") + "\n\n")
	fmt.Fprintf(&b, "  Engine:   %s\n", CmdStyle.Render(plan.Engine.String()))
	if plan.Package != nil {
		fmt.Fprintf(&b, "  Package:  %s\n", CmdStyle.Render(plan.Package.Name))
	} else {
		fmt.Fprintf(&b, "  Package:  %s\n", WarningStyle.Render("unavailable ("+plan.ManifestError+")"))
	}
	fmt.Fprintf(&b, "  Scope:    %s (owner %s)\n\n", plan.Decision.Scope, plan.Repository.OwnerScope())

	for _, r := range plan.Rounds {
		fmt.Fprintf(&b, "  %-7s %s  release %s  publish %s\n",
			string(r.Target), CmdStyle.Render(r.Registry), mark(r.DoRelease), mark(r.DoPublish))
	}

	if len(plan.Decision.Notices) > 0 {
		b.WriteString("\n")
		for _, n := range plan.Decision.Notices {
			style := SubtitleStyle
			if n.Level == publish.NoticeWarning {
				style = WarningStyle
			}
			b.WriteString("  " + style.Render(n.Message) + "\n")
		}
	}
	return b.String()
}

func mark(b bool) string {
	if b {
		return SuccessStyle.Render("yes")
	}
	return SubtitleStyle.Render("no")
}
