// SPDX-License-Identifier: MPL-2.0

package release

import (
	"github.com/plutotcool/release/internal/config"
	"github.com/plutotcool/release/internal/engine"
	"github.com/plutotcool/release/internal/publish"
)

const (
	// SourceHost is the GitHub round: it creates the release and may
	// publish to the GitHub registry.
	SourceHost Target = "github"
	// PublicRegistry is the npm round: it only ever publishes.
	PublicRegistry Target = "npm"

	// EnvGitHubToken is read by the GitHub plugins of the engines.
	EnvGitHubToken = "GITHUB_TOKEN"
)

type (
	// Target names the registry of a round.
	Target string

	// Round is one engine invocation.
	Round struct {
		Target    Target `json:"target" yaml:"target"`
		Registry  string `json:"registry" yaml:"registry"`
		DoRelease bool   `json:"release" yaml:"release"`
		DoPublish bool   `json:"publish" yaml:"publish"`

		token string
		env   map[string]string
	}
)

// Rounds returns the two rounds of a run. Versioning is bound to the first
// round so a run tags at most once.
func Rounds(s *config.Settings, d publish.Decision) []Round {
	githubToken := s.Inputs.GitHubToken
	return []Round{
		{
			Target:    SourceHost,
			Registry:  s.SourceHostRegistry(),
			DoRelease: true,
			DoPublish: d.ToSourceHost,
			token:     githubToken,
			env: map[string]string{
				engine.EnvRegistry: s.SourceHostRegistry(),
				engine.EnvToken:    githubToken,
				EnvGitHubToken:     githubToken,
			},
		},
		{
			Target:    PublicRegistry,
			Registry:  s.Registries.Public,
			DoRelease: false,
			DoPublish: d.ToPublicRegistry,
			token:     s.Inputs.NPMToken,
			env: map[string]string{
				engine.EnvRegistry: s.Registries.Public,
				engine.EnvToken:    s.Inputs.NPMToken,
			},
		},
	}
}
