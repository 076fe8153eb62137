package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	settings, err := Load(LoadOptions{Environ: Vars{}})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), settings)
	assert.Equal(t, "human_annotations/human_conflicts_log.jsonl", settings.LogPath)
	assert.Equal(t, "inab/research-software-etl", settings.IssueNamespace)
	assert.Equal(t, 30*time.Second, settings.Timeout)
}

func TestLoadLayering(t *testing.T) {
	configPath := writeFile(t, "settings.yaml", `
logPath: from-yaml.jsonl
issueNamespace: yaml/ns
timeout: 45s
logLevel: debug
`)
	envPath := writeFile(t, "ci.env", "CONFLICTS_ISSUE_NAMESPACE=dotenv/ns\nGITHUB_TOKEN=from-dotenv\n")

	settings, err := Load(LoadOptions{
		ConfigPath: configPath,
		EnvFiles:   []string{envPath},
		Environ: Vars{
			"GITHUB_TOKEN":    "from-os",
			"GITHUB_API_URL":  "https://ghe.example.com/api/v3",
			"GITHUB_OUTPUT":   "/tmp/out",
			"UNRELATED_VALUE": "x",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "from-os", settings.Token)
	assert.Equal(t, "dotenv/ns", settings.IssueNamespace)
	assert.Equal(t, "from-yaml.jsonl", settings.LogPath)
	assert.Equal(t, 45*time.Second, settings.Timeout)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, "https://ghe.example.com/api/v3", settings.APIURL)
	assert.Equal(t, "/tmp/out", settings.OutputPath)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	configPath := writeFile(t, "settings.yaml", "timeout: 45s\n")

	settings, err := Load(LoadOptions{
		ConfigPath: configPath,
		Environ:    Vars{"CONFLICTS_HTTP_TIMEOUT": "5s", "CONFLICTS_LOG_PATH": "env.jsonl"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, settings.Timeout)
	assert.Equal(t, "env.jsonl", settings.LogPath)
}

func TestLoadEmptyYAML(t *testing.T) {
	settings, err := Load(LoadOptions{ConfigPath: writeFile(t, "empty.yaml", ""), Environ: Vars{}})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), settings)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		opts LoadOptions
	}{
		{
			name: "unknown yaml key",
			opts: LoadOptions{ConfigPath: writeFile(t, "bad.yaml", "token: secret\n"), Environ: Vars{}},
		},
		{
			name: "missing config file",
			opts: LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml"), Environ: Vars{}},
		},
		{
			name: "missing env file",
			opts: LoadOptions{EnvFiles: []string{filepath.Join(t.TempDir(), "absent.env")}, Environ: Vars{}},
		},
		{
			name: "bad duration",
			opts: LoadOptions{Environ: Vars{"CONFLICTS_HTTP_TIMEOUT": "soon"}},
		},
		{
			name: "non-positive timeout",
			opts: LoadOptions{Environ: Vars{"CONFLICTS_HTTP_TIMEOUT": "-1s"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts)
			require.Error(t, err)
		})
	}
}

func TestMerge(t *testing.T) {
	merged := Merge(Vars{"A": "1", "B": "1"}, nil, Vars{"B": "2"})
	assert.Equal(t, Vars{"A": "1", "B": "2"}, merged)
}
