package config

import "fmt"

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validPlayModes = map[string]bool{
	"episode": true, "season": true, "series": true,
}

var validTitleUpdates = map[string]bool{
	"all": true, "none": true,
}

var validStrategies = map[string]bool{
	"hardlink": true, "copy": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Plex.URL == "" {
		errs = append(errs, "plex.url: required")
	}
	if c.Plex.Token == "" {
		errs = append(errs, "plex.token: required")
	}

	if c.Radarr == nil && c.Sonarr == nil {
		errs = append(errs, "backends: at least one of radarr or sonarr must be configured")
	}
	errs = append(errs, validateArr("radarr", c.Radarr)...)
	errs = append(errs, validateArr("radarr_4k", c.Radarr4K)...)
	errs = append(errs, validateArr("sonarr", c.Sonarr)...)
	errs = append(errs, validateArr("sonarr_4k", c.Sonarr4K)...)

	if c.Radarr != nil && c.Libraries.MovieRoot == "" {
		errs = append(errs, "libraries.movie_root: required when radarr is configured")
	}
	if c.Sonarr != nil && c.Libraries.TVRoot == "" {
		errs = append(errs, "libraries.tv_root: required when sonarr is configured")
	}
	if c.Radarr4K != nil && c.Libraries.Movie4KRoot == "" {
		errs = append(errs, "libraries.movie_4k_root: required when radarr_4k is configured")
	}
	if c.Sonarr4K != nil && c.Libraries.TV4KRoot == "" {
		errs = append(errs, "libraries.tv_4k_root: required when sonarr_4k is configured")
	}

	if c.Placeholder.DummyPath == "" {
		errs = append(errs, "placeholder.dummy_path: required")
	}
	if !validStrategies[c.Placeholder.Strategy] {
		errs = append(errs, fmt.Sprintf("placeholder.strategy: must be hardlink or copy; got %q", c.Placeholder.Strategy))
	}

	if c.Monitor.CheckInterval < 1 {
		errs = append(errs, fmt.Sprintf("monitor.check_interval: must be at least 1 second, got %d", c.Monitor.CheckInterval))
	}
	if c.Monitor.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("monitor.max_attempts: must be positive, got %d", c.Monitor.MaxAttempts))
	}
	if c.Monitor.EpisodeLookahead < 0 {
		errs = append(errs, fmt.Sprintf("monitor.episode_lookahead: must not be negative, got %d", c.Monitor.EpisodeLookahead))
	}
	if !validPlayModes[c.Monitor.PlayMode] {
		errs = append(errs, fmt.Sprintf("monitor.play_mode: must be one of episode, season, series; got %q", c.Monitor.PlayMode))
	}
	if !validTitleUpdates[c.Monitor.TitleUpdates] {
		errs = append(errs, fmt.Sprintf("monitor.title_updates: must be all or none; got %q", c.Monitor.TitleUpdates))
	}

	return errs
}

func validateArr(name string, cfg *ArrConfig) []string {
	if cfg == nil {
		return nil
	}
	var errs []string
	if cfg.URL == "" {
		errs = append(errs, fmt.Sprintf("%s.url: required when %s is configured", name, name))
	}
	if cfg.APIKey == "" {
		errs = append(errs, fmt.Sprintf("%s.api_key: required when %s is configured", name, name))
	}
	return errs
}
