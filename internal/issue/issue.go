// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"sort"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	MissingTokenId
	EngineInstallFailedId
	EngineExecutableMissingId
	ReleaseFailedId
	PublishFailedId
	CredentialsWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the entry as terminal Markdown using the given glamour
// style ("dark", "light", "notty" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Could not load the release configuration

The repository configuration file exists but could not be parsed or does
not match the expected schema.

## Things you can try
- Check the syntax of ` + "`.release.cue`" + ` or ` + "`.release.toml`" + `
- Compare it with the example below
- Remove the file to fall back to the defaults

## Example
~~~cue
registries: {
  source_host: "https://npm.pkg.github.com"
  public:      "https://registry.npmjs.org"
}
verify: true
~~~`,
	}

	missingTokenIssue = &Issue{
		id: MissingTokenId,
		mdMsg: `
# Missing source-host token

The ` + "`github_token`" + ` input is required: it is used to create the
release on GitHub and to publish to the GitHub registry.

## Things you can try
~~~yaml
- uses: plutotcool/release@v1
  with:
    github_token: ${{ secrets.GITHUB_TOKEN }}
    npm_token: ${{ secrets.NPM_TOKEN }}
~~~`,
		docLinks: []HttpLink{"https://docs.github.com/actions/security-guides/automatic-token-authentication"},
	}

	engineInstallFailedIssue = &Issue{
		id: EngineInstallFailedId,
		mdMsg: `
# Could not install the release engine

The release engine was not found in ` + "`node_modules`" + ` and installing it
with npm failed.

## Things you can try
- Make sure Node.js and npm are set up before this step (` + "`actions/setup-node`" + `)
- Add the engine to your devDependencies so it is installed with the project`,
		docLinks: []HttpLink{"https://docs.npmjs.com/cli/commands/npm-install"},
	}

	engineExecutableMissingIssue = &Issue{
		id: EngineExecutableMissingId,
		mdMsg: `
# Release engine has no executable

The installed release engine manifest does not declare a ` + "`bin`" + ` entry
for the engine, so there is nothing to run.

## Things you can try
- Reinstall the engine: ` + "`rm -rf node_modules && npm ci`" + `
- Pin a released version of the engine in your devDependencies`,
	}

	releaseFailedIssue = &Issue{
		id: ReleaseFailedId,
		mdMsg: `
# Release failed

The release engine exited with a non-zero status while computing the next
version or creating the release. Nothing has been published by this round.

## Things you can try
- Read the engine output above this message
- Check that the checkout has full history and tags (` + "`fetch-depth: 0`" + `)
- Check that the token can push tags and create releases`,
		docLinks: []HttpLink{
			"https://semantic-release.gitbook.io/semantic-release/usage/ci-configuration",
			"https://lerna.js.org/docs/features/version-and-publish",
		},
	}

	publishFailedIssue = &Issue{
		id: PublishFailedId,
		mdMsg: `
# Publish failed

The release engine exited with a non-zero status while publishing. Side
effects of earlier steps (tags, releases, publishes to another registry)
are not rolled back.

## Things you can try
- Check that the token has publish rights on the target registry
- Check that the package name is scoped with the repository owner for the GitHub registry
- Check that the version was not already published`,
	}

	credentialsWriteFailedIssue = &Issue{
		id: CredentialsWriteFailedId,
		mdMsg: `
# Could not write registry credentials

The ` + "`.npmrc`" + ` file used to authenticate against the registry could not
be written.

## Things you can try
- Check that ` + "`RUNNER_TEMP`" + ` points to a writable directory
- Check the permissions of the working directory`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.id:        configLoadFailedIssue,
		missingTokenIssue.id:            missingTokenIssue,
		engineInstallFailedIssue.id:     engineInstallFailedIssue,
		engineExecutableMissingIssue.id: engineExecutableMissingIssue,
		releaseFailedIssue.id:           releaseFailedIssue,
		publishFailedIssue.id:           publishFailedIssue,
		credentialsWriteFailedIssue.id:  credentialsWriteFailedIssue,
	}
)

// Values returns all catalog entries ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].id < out[b].id })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
