// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Plex        PlexConfig        `toml:"plex"`
	Radarr      *ArrConfig        `toml:"radarr"`
	Radarr4K    *ArrConfig        `toml:"radarr_4k"`
	Sonarr      *ArrConfig        `toml:"sonarr"`
	Sonarr4K    *ArrConfig        `toml:"sonarr_4k"`
	Libraries   LibrariesConfig   `toml:"libraries"`
	Placeholder PlaceholderConfig `toml:"placeholder"`
	Monitor     MonitorConfig     `toml:"monitor"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type PlexConfig struct {
	URL          string `toml:"url"`
	Token        string `toml:"token"`
	MovieSection int    `toml:"movie_section"`
	TVSection    int    `toml:"tv_section"`
}

// ArrConfig is one Radarr or Sonarr instance.
type ArrConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

type LibrariesConfig struct {
	MovieRoot   string `toml:"movie_root"`
	Movie4KRoot string `toml:"movie_4k_root"`
	TVRoot      string `toml:"tv_root"`
	TV4KRoot    string `toml:"tv_4k_root"`
}

type PlaceholderConfig struct {
	DummyPath string `toml:"dummy_path"`
	Strategy  string `toml:"strategy"` // hardlink or copy
}

// MonitorConfig bounds the status poll loop. Durations are in seconds.
type MonitorConfig struct {
	CheckInterval    int    `toml:"check_interval"`
	MaxMonitorTime   int    `toml:"max_monitor_time"`
	MaxAttempts      int    `toml:"max_attempts"`
	CleanupDelay     int    `toml:"cleanup_delay"`
	EpisodeLookahead int    `toml:"episode_lookahead"`
	IncludeSpecials  bool   `toml:"include_specials"`
	PlayMode         string `toml:"play_mode"`     // episode, season, series
	TitleUpdates     string `toml:"title_updates"` // all or none
}

// CheckIntervalDuration returns the poll interval.
func (m MonitorConfig) CheckIntervalDuration() time.Duration {
	return time.Duration(m.CheckInterval) * time.Second
}

// MaxMonitorDuration returns the per-unit wall-clock ceiling.
func (m MonitorConfig) MaxMonitorDuration() time.Duration {
	return time.Duration(m.MaxMonitorTime) * time.Second
}

// CleanupDelayDuration returns the grace delay before an available unit is
// dropped and its placeholder deleted.
func (m MonitorConfig) CleanupDelayDuration() time.Duration {
	return time.Duration(m.CleanupDelay) * time.Second
}

// Load reads and parses the configuration file. Unresolved ${VAR} references
// and validation failures are reported together in a ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8475
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/holdarr.db"
	}
	if c.Placeholder.Strategy == "" {
		c.Placeholder.Strategy = "hardlink"
	}
	if c.Monitor.CheckInterval == 0 {
		c.Monitor.CheckInterval = 10
	}
	if c.Monitor.MaxMonitorTime == 0 {
		c.Monitor.MaxMonitorTime = 3600
	}
	if c.Monitor.MaxAttempts == 0 {
		c.Monitor.MaxAttempts = 500
	}
	if c.Monitor.CleanupDelay == 0 {
		c.Monitor.CleanupDelay = 60
	}
	if c.Monitor.EpisodeLookahead == 0 {
		c.Monitor.EpisodeLookahead = 5
	}
	if c.Monitor.PlayMode == "" {
		c.Monitor.PlayMode = "episode"
	}
	if c.Monitor.TitleUpdates == "" {
		c.Monitor.TitleUpdates = "all"
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
// and reports the names that could not be resolved.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	seen := make(map[string]bool)
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		if !seen[varName] {
			seen[varName] = true
			missing = append(missing, varName)
		}
		return match
	})
	return out, missing
}
