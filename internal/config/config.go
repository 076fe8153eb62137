// Package config loads the settings of the decision extractor from defaults,
// an optional YAML file, .env files and the process environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	envparse "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/inab/conflict-decisions/internal/decisionlog"
	"github.com/inab/conflict-decisions/internal/githubapi"
)

// DefaultEnvFile is loaded when present and no env file is given explicitly.
const DefaultEnvFile = ".env"

// Settings holds everything the pipeline needs besides the issue coordinates.
type Settings struct {
	// Token is the GitHub credential. It is only read from the environment.
	Token string `yaml:"-" env:"GITHUB_TOKEN"`
	// APIURL is the GitHub REST API root.
	APIURL string `yaml:"apiURL,omitempty" env:"GITHUB_API_URL"`
	// IssueNamespace is the owner/name used for issue links stored in records.
	IssueNamespace string `yaml:"issueNamespace,omitempty" env:"CONFLICTS_ISSUE_NAMESPACE"`
	// LogPath is the JSON Lines file decisions are appended to.
	LogPath string `yaml:"logPath,omitempty" env:"CONFLICTS_LOG_PATH"`
	// Timeout bounds each GitHub request.
	Timeout time.Duration `yaml:"timeout,omitempty" env:"CONFLICTS_HTTP_TIMEOUT"`
	// LogLevel is the slog level name (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty" env:"CONFLICTS_LOG_LEVEL"`
	// OutputPath is the GitHub Actions step output file.
	OutputPath string `yaml:"-" env:"GITHUB_OUTPUT"`
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// ConfigPath is an optional YAML settings file.
	ConfigPath string
	// EnvFiles are .env files merged in order. When empty, DefaultEnvFile is
	// loaded if it exists.
	EnvFiles []string
	// Environ overrides the process environment, mainly for tests.
	Environ Vars
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		APIURL:         githubapi.DefaultAPIURL,
		IssueNamespace: githubapi.DefaultNamespace,
		LogPath:        decisionlog.DefaultPath,
		Timeout:        githubapi.DefaultTimeout,
		LogLevel:       "info",
	}
}

// Load layers defaults, the YAML file, .env files and the environment, later
// sources overriding earlier ones. Variables already set in the environment
// win over .env files.
func Load(opts LoadOptions) (Settings, error) {
	settings := Defaults()

	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		if err := loadYAML(path, &settings); err != nil {
			return Settings{}, err
		}
	}

	osVars := opts.Environ
	if osVars == nil {
		osVars = FromOS()
	}

	fileVars, err := loadEnvFiles(opts.EnvFiles)
	if err != nil {
		return Settings{}, err
	}

	merged := Merge(fileVars, osVars)
	if err := envparse.ParseWithOptions(&settings, envparse.Options{Environment: merged}); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks settings that have no usable fallback. The token is
// checked by the caller, which reports it as a usage error.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.LogPath) == "" {
		return fmt.Errorf("decision log path must not be empty")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

func loadYAML(path string, settings *Settings) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func loadEnvFiles(files []string) (Vars, error) {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil, nil
		}
		files = []string{DefaultEnvFile}
	}

	var result Vars
	for _, path := range files {
		if strings.TrimSpace(path) == "" {
			continue
		}
		vars, err := LoadEnvFile(path)
		if err != nil {
			return nil, fmt.Errorf("load env file %q: %w", path, err)
		}
		result = Merge(result, vars)
	}
	return result, nil
}
