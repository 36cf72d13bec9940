package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t) // no config file anywhere nearby

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 12*time.Hour, cfg.Sessions.TTL)
	require.Equal(t, "none", cfg.Understanding.Provider)
	require.Equal(t, 0.4, cfg.Tuning.MinScore)
	require.Equal(t, 0.6, cfg.Tuning.ConfidenceFloor)
	require.Equal(t, 3, cfg.Cadence.Cooldown)
	require.False(t, cfg.Analyzer.Enabled)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
tuning:
  min_score: 0.5
cadence:
  cooldown: 5
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 0.5, cfg.Tuning.MinScore)
	require.Equal(t, 5, cfg.Cadence.Cooldown)
	require.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	require.Equal(t, 0.6, cfg.Tuning.ConfidenceFloor)
}

func TestEnvOverridesFile(t *testing.T) {
	inTempDir(t)
	t.Setenv("EFRAINFM_SERVER__PORT", "7070")
	t.Setenv("EFRAINFM_UNDERSTANDING__PROVIDER", "ollama")
	t.Setenv("EFRAINFM_TUNING__TOLERANCE_RATIO", "0.9")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "ollama", cfg.Understanding.Provider)
	require.Equal(t, 0.9, cfg.Tuning.ToleranceRatio)
}

func TestValidation(t *testing.T) {
	inTempDir(t)

	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "EFRAINFM_SERVER__PORT", "70000"},
		{"unknown provider", "EFRAINFM_UNDERSTANDING__PROVIDER", "psychic"},
		{"tolerance out of range", "EFRAINFM_TUNING__TOLERANCE_RATIO", "1.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestOpenAIProviderRequiresKey(t *testing.T) {
	inTempDir(t)
	t.Setenv("EFRAINFM_UNDERSTANDING__PROVIDER", "openai")

	_, err := Load("")
	require.Error(t, err)

	t.Setenv("EFRAINFM_UNDERSTANDING__OPENAI_KEY", "sk-test")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sk-test", cfg.Understanding.OpenAIKey)
}
