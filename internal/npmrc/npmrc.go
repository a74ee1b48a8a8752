// SPDX-License-Identifier: MPL-2.0

// Package npmrc writes per-run npm registry credential files.
//
// The file never contains the token itself: the auth line references
// ${NODE_AUTH_TOKEN}, which npm expands from the environment of the
// process reading the file. Write returns that environment.
package npmrc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// FileName is the npm user config file name.
	FileName = ".npmrc"
	// EnvUserConfig points npm at a user config file.
	EnvUserConfig = "NPM_CONFIG_USERCONFIG"
	// EnvAuthToken carries the token referenced by the auth line.
	EnvAuthToken = "NODE_AUTH_TOKEN"
	// TokenPlaceholder is written in place of the token.
	TokenPlaceholder = "${" + EnvAuthToken + "}"
)

var protocolPrefix = regexp.MustCompile(`^\w+:`)

// Config is one registry credential record.
type Config struct {
	// Registry is the registry URL, e.g. https://npm.pkg.github.com/acme.
	Registry string
	// Token authenticates against Registry.
	Token string
	// Message is written as a `message=` line when non-empty.
	Message string
}

// Path returns the credentials file location: tempDir when set, dir
// otherwise.
func Path(tempDir, dir string) string {
	base := tempDir
	if base == "" {
		base = dir
	}
	return filepath.Join(base, FileName)
}

// NormalizeRegistry turns a registry URL into the protocol-relative key npm
// uses for per-registry settings: "https://host/path" -> "//host/path/".
func NormalizeRegistry(registry string) string {
	registry = strings.TrimSpace(registry)
	if !strings.HasSuffix(registry, "/") {
		registry += "/"
	}
	return protocolPrefix.ReplaceAllString(registry, "")
}

// Render returns the file content for cfg.
func Render(cfg Config) string {
	var b strings.Builder
	b.WriteString(NormalizeRegistry(cfg.Registry))
	b.WriteString(":_authToken=")
	b.WriteString(TokenPlaceholder)
	b.WriteString("\n")
	if cfg.Message != "" {
		b.WriteString("message=")
		b.WriteString(cfg.Message)
		b.WriteString("\n")
	}
	return b.String()
}

// Write replaces the file at path with the credentials for cfg and returns
// the environment a subprocess needs to use it.
func Write(path string, cfg Config) (map[string]string, error) {
	if strings.TrimSpace(cfg.Registry) == "" {
		return nil, fmt.Errorf("write %s: empty registry URL", path)
	}
	if err := os.WriteFile(path, []byte(Render(cfg)), 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return map[string]string{
		EnvUserConfig: path,
		EnvAuthToken:  cfg.Token,
	}, nil
}
