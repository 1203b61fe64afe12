package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
[plex]
url = "http://plex:32400"
token = "plex-token"
movie_section = 1

[radarr]
url = "http://radarr:7878"
api_key = "radarr-key"

[libraries]
movie_root = "/data/movies"

[placeholder]
dummy_path = "/data/dummy.mkv"
`

func TestLoad_Minimal(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://plex:32400", cfg.Plex.URL)
	require.NotNil(t, cfg.Radarr)
	assert.Equal(t, "radarr-key", cfg.Radarr.APIKey)
	assert.Nil(t, cfg.Sonarr)
	assert.Nil(t, cfg.Radarr4K)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8475, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./data/holdarr.db", cfg.Database.Path)
	assert.Equal(t, "hardlink", cfg.Placeholder.Strategy)
	assert.Equal(t, 10*time.Second, cfg.Monitor.CheckIntervalDuration())
	assert.Equal(t, time.Hour, cfg.Monitor.MaxMonitorDuration())
	assert.Equal(t, 500, cfg.Monitor.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Monitor.CleanupDelayDuration())
	assert.Equal(t, 5, cfg.Monitor.EpisodeLookahead)
	assert.Equal(t, "episode", cfg.Monitor.PlayMode)
	assert.Equal(t, "all", cfg.Monitor.TitleUpdates)
	assert.False(t, cfg.Monitor.IncludeSpecials)
}

func TestLoad_FullMonitorSection(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
[monitor]
check_interval = 30
max_monitor_time = 7200
max_attempts = 100
cleanup_delay = 120
episode_lookahead = 3
include_specials = true
play_mode = "season"
title_updates = "none"
`))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Monitor.CheckIntervalDuration())
	assert.Equal(t, 2*time.Hour, cfg.Monitor.MaxMonitorDuration())
	assert.Equal(t, 100, cfg.Monitor.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Monitor.CleanupDelayDuration())
	assert.Equal(t, 3, cfg.Monitor.EpisodeLookahead)
	assert.True(t, cfg.Monitor.IncludeSpecials)
	assert.Equal(t, "season", cfg.Monitor.PlayMode)
	assert.Equal(t, "none", cfg.Monitor.TitleUpdates)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_RADARR_KEY", "secret-from-env")

	cfg, err := Load(writeConfig(t, `
[plex]
url = "http://plex:32400"
token = "plex-token"

[radarr]
url = "http://radarr:7878"
api_key = "${TEST_RADARR_KEY}"

[libraries]
movie_root = "/data/movies"

[placeholder]
dummy_path = "/data/dummy.mkv"
`))
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.Radarr.APIKey)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	_, err := Load(writeConfig(t, `
[plex]
url = "http://plex:32400"
token = "${DOES_NOT_EXIST_VAR}"

[radarr]
url = "http://radarr:7878"
api_key = "key"

[libraries]
movie_root = "/data/movies"

[placeholder]
dummy_path = "/data/dummy.mkv"
`))
	require.Error(t, err)

	cfgErr, ok := err.(*ConfigError)
	require.True(t, ok)
	assert.Contains(t, cfgErr.Missing, "DOES_NOT_EXIST_VAR")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/does/not/exist.toml")
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "this is = not [valid"))
	assert.Error(t, err)
}

func TestValidate_RequiredFields(t *testing.T) {
	_, err := Load(writeConfig(t, `
[server]
port = 8475
`))
	require.Error(t, err)

	cfgErr, ok := err.(*ConfigError)
	require.True(t, ok)
	joined := cfgErr.Error()
	assert.Contains(t, joined, "plex.url: required")
	assert.Contains(t, joined, "plex.token: required")
	assert.Contains(t, joined, "at least one of radarr or sonarr")
	assert.Contains(t, joined, "placeholder.dummy_path: required")
}

func TestValidate_ArrNeedsLibraryRoot(t *testing.T) {
	_, err := Load(writeConfig(t, `
[plex]
url = "http://plex:32400"
token = "tok"

[sonarr]
url = "http://sonarr:8989"
api_key = "key"

[placeholder]
dummy_path = "/data/dummy.mkv"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "libraries.tv_root: required")
}

func TestValidate_EnumFields(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
[monitor]
play_mode = "binge"
title_updates = "sometimes"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitor.play_mode")
	assert.Contains(t, err.Error(), "monitor.title_updates")
}

func TestValidate_FourKNeedsRoot(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
[radarr_4k]
url = "http://radarr4k:7879"
api_key = "key"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "libraries.movie_4k_root: required")
}

func TestConfigError_Format(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/holdarr/config.toml",
		Missing: []string{"RADARR_KEY"},
		Errors:  []string{"plex.url: required"},
	}
	assert.True(t, e.HasErrors())
	msg := e.Error()
	assert.Contains(t, msg, "missing environment variables: RADARR_KEY")
	assert.Contains(t, msg, "plex.url: required")

	empty := &ConfigError{}
	assert.False(t, empty.HasErrors())
	assert.Empty(t, empty.Error())
}

func TestDiscover_EnvOverride(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	t.Setenv("HOLDARR_CONFIG", path)

	got, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestDiscover_EnvOverrideMissingFile(t *testing.T) {
	t.Setenv("HOLDARR_CONFIG", "/does/not/exist.toml")
	_, err := Discover()
	assert.Error(t, err)
}
