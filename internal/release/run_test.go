// SPDX-License-Identifier: MPL-2.0

package release

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plutotcool/release/internal/actions"
	"github.com/plutotcool/release/internal/engine"
	"github.com/plutotcool/release/internal/issue"
	"github.com/plutotcool/release/internal/npmrc"
	"github.com/plutotcool/release/internal/runner"
	"github.com/plutotcool/release/internal/testutil"
)

type fakeVerifier struct {
	baseURL string
	name    string
	version string
	err     error
}

func (f *fakeVerifier) Latest(_ context.Context, name string) (string, error) {
	f.name = name
	return f.version, f.err
}

func TestRun_SinglePackageToBothRegistries(t *testing.T) {
	s := testSettings(t)
	s.StepSummary = filepath.Join(t.TempDir(), "summary.md")
	testutil.MustWriteFile(t, s.Workdir, "package.json", `{"name": "@acme/widget", "version": "0.0.0-development"}`)
	testutil.InstallEngine(t, s.Workdir, "semantic-release", "bin/semantic-release.js")

	rec := &testutil.RecordingRunner{}
	var logs bytes.Buffer
	result, err := Run(context.Background(), Options{
		Settings: s,
		Runner:   rec,
		Logger:   actions.NewLogger(&logs, &bytes.Buffer{}, actions.Options{}),
		Env:      map[string]string{"PATH": "/usr/bin"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	configPath := extendsArg(t, rec.Commands()[0])
	if !strings.HasPrefix(configPath, s.TempDir+string(filepath.Separator)) {
		t.Errorf("bundled config %q outside the temp dir %q", configPath, s.TempDir)
	}
	if testutil.FileExists(configPath) {
		t.Errorf("bundled config %q left after the run", configPath)
	}
	assertEmptyDir(t, s.TempDir)

	exe := "node_modules/semantic-release/bin/semantic-release.js"
	want := []string{
		"node " + exe + " --no-ci --extends " + configPath + " --plugins " + strings.Join(engine.ReleasePlugins, ","),
		"node " + exe + " --no-ci --extends " + configPath,
		"node " + exe + " --no-ci --extends " + configPath,
	}
	got := rec.Lines()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("commands =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	cmds := rec.Commands()
	if cmds[1].Env[engine.EnvRegistry] != "https://npm.pkg.github.com/acme" {
		t.Errorf("GitHub publish registry = %q", cmds[1].Env[engine.EnvRegistry])
	}
	if cmds[2].Env[engine.EnvRegistry] != "https://registry.npmjs.org" {
		t.Errorf("NPM publish registry = %q", cmds[2].Env[engine.EnvRegistry])
	}
	for _, c := range cmds {
		if c.Dir != s.Workdir {
			t.Errorf("command Dir = %q, want %q", c.Dir, s.Workdir)
		}
	}

	if !result.Plan.Decision.ToSourceHost || !result.Plan.Decision.ToPublicRegistry {
		t.Errorf("Decision = %+v, want both registries", result.Plan.Decision)
	}
	if result.Verified != "" {
		t.Errorf("Verified = %q without verify", result.Verified)
	}

	summary := testutil.MustReadFile(t, s.StepSummary)
	if !strings.Contains(summary, "`@acme/widget@0.0.0-development`") {
		t.Errorf("summary = %q, want the package", summary)
	}
}

func TestRun_InstallsMissingEngine(t *testing.T) {
	s := testSettings(t)
	s.Inputs.Publish = false
	testutil.MustWriteFile(t, s.Workdir, "package.json", `{"name": "@acme/widget"}`)

	rec := &testutil.RecordingRunner{
		OnRun: func(cmd runner.Command) error {
			if cmd.Name == "npm" {
				testutil.InstallEngine(t, cmd.Dir, "semantic-release", "cli.js")
			}
			return nil
		},
	}
	if _, err := Run(context.Background(), Options{Settings: s, Runner: rec, Env: map[string]string{}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := rec.Lines()
	if len(lines) != 2 {
		t.Fatalf("commands = %q, want install then release", lines)
	}
	if lines[0] != "npm install semantic-release --no-save --no-package-lock" {
		t.Errorf("install = %q", lines[0])
	}
	if !strings.Contains(lines[1], "--plugins") {
		t.Errorf("release = %q", lines[1])
	}
	if testutil.FileExists(filepath.Join(s.Workdir, npmrc.FileName)) {
		t.Error("credentials written with publishing disabled")
	}
	assertEmptyDir(t, s.TempDir)
}

func TestRun_LernaWorkspace(t *testing.T) {
	s := testSettings(t)
	s.Inputs.NPMToken = ""
	testutil.MustWriteFile(t, s.Workdir, "lerna.json", `{"version": "independent"}`)
	testutil.MustWriteFile(t, s.Workdir, "package.json", `{"name": "@acme/monorepo", "private": true}`)
	testutil.InstallEngine(t, s.Workdir, "lerna", "cli.js")

	rec := &testutil.RecordingRunner{}
	result, err := Run(context.Background(), Options{Settings: s, Runner: rec, Env: map[string]string{}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"node node_modules/lerna/cli.js version --yes --conventional-commits",
		"node node_modules/lerna/cli.js publish from-package --yes",
	}
	if got := rec.Lines(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("commands = %q, want %q", got, want)
	}
	if result.Plan.Decision.Private {
		t.Error("root private flag applied to a lerna workspace")
	}
	if result.Plan.Decision.ToPublicRegistry {
		t.Error("publishing to NPM without a token")
	}
	content := testutil.MustReadFile(t, filepath.Join(s.Workdir, ".npmrc"))
	if strings.Contains(content, "gh-token") {
		t.Errorf("project .npmrc leaks the token: %q", content)
	}
}

func TestRun_VerifiesPublicPublish(t *testing.T) {
	tests := []struct {
		name        string
		verifier    *fakeVerifier
		wantVersion string
		wantWarning bool
	}{
		{name: "found", verifier: &fakeVerifier{version: "1.3.0"}, wantVersion: "1.3.0"},
		{name: "lookup failure", verifier: &fakeVerifier{err: errors.New("HTTP 500")}, wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings(t)
			s.Inputs.Verify = true
			testutil.MustWriteFile(t, s.Workdir, "package.json", `{"name": "@acme/widget"}`)
			testutil.InstallEngine(t, s.Workdir, "semantic-release", "cli.js")

			var logs bytes.Buffer
			result, err := Run(context.Background(), Options{
				Settings: s,
				Runner:   &testutil.RecordingRunner{},
				Logger:   actions.NewLogger(&logs, &bytes.Buffer{}, actions.Options{}),
				Env:      map[string]string{},
				NewVerifier: func(baseURL string) (Verifier, error) {
					tt.verifier.baseURL = baseURL
					return tt.verifier, nil
				},
			})
			if err != nil {
				t.Fatalf("Run() error = %v, verification must not fail the run", err)
			}
			if result.Verified != tt.wantVersion {
				t.Errorf("Verified = %q, want %q", result.Verified, tt.wantVersion)
			}
			if tt.verifier.name != "@acme/widget" || tt.verifier.baseURL != "https://registry.npmjs.org" {
				t.Errorf("verifier queried %q on %q", tt.verifier.name, tt.verifier.baseURL)
			}
			if got := strings.Contains(logs.String(), "Could not verify"); got != tt.wantWarning {
				t.Errorf("warning logged = %v, want %v", got, tt.wantWarning)
			}
		})
	}
}

func TestRun_SkipsVerifyWithoutPublicPublish(t *testing.T) {
	s := testSettings(t)
	s.Inputs.Verify = true
	s.Inputs.NPMToken = ""
	testutil.MustWriteFile(t, s.Workdir, "package.json", `{"name": "@acme/widget"}`)
	testutil.InstallEngine(t, s.Workdir, "semantic-release", "cli.js")

	called := false
	_, err := Run(context.Background(), Options{
		Settings: s,
		Runner:   &testutil.RecordingRunner{},
		Env:      map[string]string{},
		NewVerifier: func(string) (Verifier, error) {
			called = true
			return &fakeVerifier{}, nil
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if called {
		t.Error("verified a package that was not published to the public registry")
	}
}

func TestRun_MissingToken(t *testing.T) {
	s := testSettings(t)
	s.Inputs.GitHubToken = ""
	rec := &testutil.RecordingRunner{}

	_, err := Run(context.Background(), Options{Settings: s, Runner: rec})
	if issue.IdOf(err) != issue.MissingTokenId {
		t.Fatalf("Run() error = %v, want MissingTokenId", err)
	}
	if len(rec.Commands()) != 0 {
		t.Errorf("ran %q before validating inputs", rec.Lines())
	}
}

func TestRun_InstallFailureAborts(t *testing.T) {
	s := testSettings(t)
	rec := &testutil.RecordingRunner{
		OnRun: func(cmd runner.Command) error {
			return &runner.ExitError{Command: cmd.String(), Code: 1}
		},
	}

	_, err := Run(context.Background(), Options{Settings: s, Runner: rec, Env: map[string]string{}})
	if issue.IdOf(err) != issue.EngineInstallFailedId {
		t.Fatalf("Run() error = %v, want EngineInstallFailedId", err)
	}
	if len(rec.Commands()) != 1 {
		t.Errorf("commands = %q, want only the install", rec.Lines())
	}
}

func TestRun_KeepsRepositoryFiles(t *testing.T) {
	s := testSettings(t)
	s.TempDir = s.Workdir
	testutil.MustWriteFile(t, s.Workdir, "package.json", `{"name": "@acme/widget"}`)
	repoConfig := "module.exports = { branches: ['main'] }\n"
	testutil.MustWriteFile(t, s.Workdir, "release.config.cjs", repoConfig)
	testutil.InstallEngine(t, s.Workdir, "semantic-release", "cli.js")

	rec := &testutil.RecordingRunner{}
	if _, err := Run(context.Background(), Options{Settings: s, Runner: rec, Env: map[string]string{}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := testutil.MustReadFile(t, filepath.Join(s.Workdir, "release.config.cjs")); got != repoConfig {
		t.Errorf("release.config.cjs = %q, want the repository file", got)
	}
	if testutil.FileExists(filepath.Join(s.Workdir, npmrc.FileName)) {
		t.Error("repository .npmrc created")
	}
	entries, err := os.ReadDir(s.Workdir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "release-") {
			t.Errorf("run directory %s left in the repository", e.Name())
		}
	}
}

// extendsArg returns the value of the --extends flag of cmd.
func extendsArg(t *testing.T, cmd runner.Command) string {
	t.Helper()
	for i, arg := range cmd.Args {
		if arg == "--extends" && i+1 < len(cmd.Args) {
			return cmd.Args[i+1]
		}
	}
	t.Fatalf("command %v has no --extends", cmd.Args)
	return ""
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	for _, e := range entries {
		t.Errorf("%s left in %s", e.Name(), dir)
	}
}
