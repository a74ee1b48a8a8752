// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"

	"github.com/plutotcool/release/internal/issue"
)

const (
	// DefaultSourceHostRegistry is the GitHub Packages npm registry.
	DefaultSourceHostRegistry = "https://npm.pkg.github.com"
	// DefaultPublicRegistry is the public npm registry.
	DefaultPublicRegistry = "https://registry.npmjs.org"

	redacted = "***"
)

// ErrMissingOwner is returned when the repository owner cannot be
// determined.
var ErrMissingOwner = errors.New("repository owner is unknown")

type (
	// Inputs are the job inputs.
	Inputs struct {
		// GitHubToken authenticates against GitHub and its registry.
		GitHubToken string
		// NPMToken authenticates against the public registry; optional.
		NPMToken string
		// Publish is false only when the input is the literal "false".
		Publish bool
		// Verify queries the public registry after publishing.
		Verify bool
	}

	// Repository identifies the repository being released.
	Repository struct {
		Owner string `json:"owner" yaml:"owner"`
		Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	}

	// Registries holds the registry base URLs.
	Registries struct {
		SourceHost string `json:"source_host" yaml:"source_host"`
		Public     string `json:"public" yaml:"public"`
	}

	// Settings is the resolved configuration of one run.
	Settings struct {
		Inputs     Inputs
		Repository Repository
		Registries Registries

		// Workdir is the absolute repository root.
		Workdir string
		// TempDir holds the run directory for credentials and the bundled
		// engine config: RUNNER_TEMP, or the system temp dir when unset.
		TempDir string
		// Verbose enables debug logs.
		Verbose bool
		// Workflow is true under GitHub Actions.
		Workflow bool
		// StepSummary is the job summary file, empty outside Actions.
		StepSummary string
		// ConfigFile is the repository config file that was loaded, if any.
		ConfigFile string
	}

	// Effective is the printable view of Settings with tokens redacted.
	Effective struct {
		Repository  Repository `json:"repository" yaml:"repository"`
		Registries  Registries `json:"registries" yaml:"registries"`
		GitHubToken string     `json:"github_token" yaml:"github_token"`
		NPMToken    string     `json:"npm_token" yaml:"npm_token"`
		Publish     bool       `json:"publish" yaml:"publish"`
		Verify      bool       `json:"verify" yaml:"verify"`
		Verbose     bool       `json:"verbose" yaml:"verbose"`
		Workflow    bool       `json:"workflow" yaml:"workflow"`
		Workdir     string     `json:"workdir" yaml:"workdir"`
		TempDir     string     `json:"temp_dir" yaml:"temp_dir"`
		ConfigFile  string     `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	}
)

// OwnerScope returns the npm scope owned by the repository owner.
func (r Repository) OwnerScope() string {
	if r.Owner == "" {
		return ""
	}
	return "@" + r.Owner
}

// SourceHostRegistry returns the owner's registry on the source host.
func (s *Settings) SourceHostRegistry() string {
	return strings.TrimSuffix(s.Registries.SourceHost, "/") + "/" + s.Repository.Owner
}

// ValidateRepository checks what is needed to compute a plan.
func (s *Settings) ValidateRepository() error {
	if s.Repository.Owner == "" {
		return issue.NewErrorContext().
			WithOperation("resolve repository").
			WithSuggestion("Set GITHUB_REPOSITORY_OWNER or GITHUB_REPOSITORY").
			WithSuggestion("Pass --owner when running outside GitHub Actions").
			Wrap(ErrMissingOwner).
			BuildError()
	}
	return nil
}

// Validate checks what is needed to run a release.
func (s *Settings) Validate() error {
	if err := s.ValidateRepository(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Inputs.GitHubToken) == "" {
		return issue.NewErrorContext().
			WithOperation("read inputs").
			WithResource("github_token").
			WithSuggestion("Pass secrets.GITHUB_TOKEN as the github_token input").
			WithIssue(issue.MissingTokenId).
			Wrap(errors.New("input required and not supplied: github_token")).
			BuildError()
	}
	return nil
}

// Effective returns the printable view of s.
func (s *Settings) Effective() Effective {
	return Effective{
		Repository:  s.Repository,
		Registries:  s.Registries,
		GitHubToken: redact(s.Inputs.GitHubToken),
		NPMToken:    redact(s.Inputs.NPMToken),
		Publish:     s.Inputs.Publish,
		Verify:      s.Inputs.Verify,
		Verbose:     s.Verbose,
		Workflow:    s.Workflow,
		Workdir:     s.Workdir,
		TempDir:     s.TempDir,
		ConfigFile:  s.ConfigFile,
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return redacted
}
