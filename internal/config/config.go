// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/issue"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileBaseName is the repository config file name without extension.
	FileBaseName = ".release"

	// Input environment variables set by GitHub Actions.
	EnvInputGitHubToken = "INPUT_GITHUB_TOKEN"
	EnvInputNPMToken    = "INPUT_NPM_TOKEN"
	EnvInputPublish     = "INPUT_PUBLISH"
	EnvInputVerify      = "INPUT_VERIFY"

	// Runner context.
	EnvRepositoryOwner = "GITHUB_REPOSITORY_OWNER"
	EnvRepository      = "GITHUB_REPOSITORY"
	EnvRunnerTemp      = "RUNNER_TEMP"
	EnvRunnerDebug     = "RUNNER_DEBUG"

	// Flag names bound by Load.
	FlagGitHubToken = "github-token"
	FlagNPMToken    = "npm-token"
	FlagPublish     = "publish"
	FlagVerify      = "verify"
	FlagOwner       = "owner"
	FlagVerbose     = "verbose"

	keyGitHubToken = "inputs.github_token"
	keyNPMToken    = "inputs.npm_token"
	keyPublish     = "publish"
	keyVerify      = "verify"
	keyOwner       = "repository.owner"
	keySourceHost  = "registries.source_host"
	keyPublic      = "registries.public"
	keyVerbose     = "ui.verbose"
)

// fileFormats lists the supported repository config files in lookup order.
var fileFormats = []struct {
	ext  string
	load func(v *viper.Viper, path string) error
}{
	{ext: ".cue", load: loadCUEIntoViper},
	{ext: ".toml", load: loadTOMLIntoViper},
}

//go:embed config_schema.cue
var configSchema string

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// Workdir is the repository root; defaults to the current directory.
	Workdir string
	// Flags are bound over every other source when set.
	Flags *pflag.FlagSet
}

// RegisterFlags defines the input flags Load understands on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagGitHubToken, "", "token for GitHub and the GitHub registry (env "+EnvInputGitHubToken+")")
	fs.String(FlagNPMToken, "", "token for the public npm registry (env "+EnvInputNPMToken+")")
	fs.String(FlagPublish, "true", `publish to package registries; only "false" disables (env `+EnvInputPublish+")")
	fs.Lookup(FlagPublish).NoOptDefVal = "true"
	fs.Bool(FlagVerify, false, "query the public registry after publishing (env "+EnvInputVerify+")")
	fs.String(FlagOwner, "", "repository owner (env "+EnvRepositoryOwner+")")
}

// Load resolves the settings of a run.
func Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	workdir, err := resolveWorkdir(opts.Workdir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault(keySourceHost, DefaultSourceHostRegistry)
	v.SetDefault(keyPublic, DefaultPublicRegistry)
	v.SetDefault(keyPublish, "true")
	v.SetDefault(keyVerify, false)
	v.SetDefault(keyVerbose, false)
	v.SetDefault(keyGitHubToken, "")
	v.SetDefault(keyNPMToken, "")
	v.SetDefault(keyOwner, "")

	configPath, err := loadConfigFile(v, workdir, opts.ConfigFilePath)
	if err != nil {
		return nil, err
	}

	if err := bindInputs(v, opts.Flags); err != nil {
		return nil, fmt.Errorf("bind inputs: %w", err)
	}

	s := &Settings{
		Inputs: Inputs{
			GitHubToken: strings.TrimSpace(v.GetString(keyGitHubToken)),
			NPMToken:    strings.TrimSpace(v.GetString(keyNPMToken)),
			Publish:     strings.TrimSpace(v.GetString(keyPublish)) != "false",
			Verify:      v.GetBool(keyVerify),
		},
		Repository: repositoryFromEnv(v.GetString(keyOwner), os.Getenv(EnvRepository)),
		Registries: Registries{
			SourceHost: v.GetString(keySourceHost),
			Public:     v.GetString(keyPublic),
		},
		Workdir:     workdir,
		TempDir:     os.Getenv(EnvRunnerTemp),
		Verbose:     v.GetBool(keyVerbose),
		Workflow:    actions.InWorkflow(os.Getenv),
		StepSummary: os.Getenv(actions.EnvStepSummary),
		ConfigFile:  configPath,
	}
	if s.TempDir == "" {
		s.TempDir = os.TempDir()
	}

	return s, nil
}

func resolveWorkdir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}

func bindInputs(v *viper.Viper, flags *pflag.FlagSet) error {
	envs := map[string]string{
		keyGitHubToken: EnvInputGitHubToken,
		keyNPMToken:    EnvInputNPMToken,
		keyPublish:     EnvInputPublish,
		keyVerify:      EnvInputVerify,
		keyOwner:       EnvRepositoryOwner,
		keyVerbose:     EnvRunnerDebug,
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}

	if flags == nil {
		return nil
	}
	bound := map[string]string{
		keyGitHubToken: FlagGitHubToken,
		keyNPMToken:    FlagNPMToken,
		keyPublish:     FlagPublish,
		keyVerify:      FlagVerify,
		keyOwner:       FlagOwner,
		keyVerbose:     FlagVerbose,
	}
	for key, name := range bound {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// loadConfigFile merges the explicit config file, or the first repository
// config file found in workdir, into v. It returns the loaded path.
func loadConfigFile(v *viper.Viper, workdir, explicit string) (string, error) {
	if explicit != "" {
		if !fileExists(explicit) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(explicit).
				WithSuggestion("Verify the file path is correct").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", explicit)).
				BuildError()
		}
		for _, format := range fileFormats {
			if strings.EqualFold(filepath.Ext(explicit), format.ext) {
				return explicit, wrapLoadError(format.load(v, explicit), explicit)
			}
		}
		return "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(explicit).
			WithSuggestion("Use a .cue or .toml file").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(fmt.Errorf("unsupported config file type %q", filepath.Ext(explicit))).
			BuildError()
	}

	for _, format := range fileFormats {
		path := filepath.Join(workdir, FileBaseName+format.ext)
		if fileExists(path) {
			return path, wrapLoadError(format.load(v, path), path)
		}
	}
	return "", nil
}

func wrapLoadError(err error, path string) error {
	if err == nil {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check the file syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// repositoryFromEnv derives the repository identity. owner wins over the
// owner segment of "owner/name".
func repositoryFromEnv(owner, repository string) Repository {
	repoOwner, name, found := strings.Cut(repository, "/")
	if !found {
		repoOwner, name = "", ""
	}
	if owner == "" {
		owner = repoOwner
	}
	return Repository{Owner: strings.TrimSpace(owner), Name: name}
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
