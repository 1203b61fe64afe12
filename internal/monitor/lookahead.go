package monitor

import "sort"

// EpisodeInfo is the per-episode input to the lookahead selector.
type EpisodeInfo struct {
	Season    int
	Episode   int
	HasFile   bool
	BackendID int64 // Sonarr episode id
}

// EpisodeRange is the selector output: the episodes to acquire, in series
// order, plus whether the selection window hit the end of the known series.
type EpisodeRange struct {
	Episodes         []EpisodeInfo
	ReachedSeriesEnd bool
}

// ComputeLookahead selects the next `lookahead` episodes at or after the
// played episode, in season/episode order, crossing season boundaries.
// Episodes that already have files are dropped from the result but still
// count toward the window, so the window is positional, not a fill quota.
// Specials (season 0) are excluded unless includeSpecials is set.
//
// ReachedSeriesEnd is true when the window extends to the final known
// episode; callers use it to mark the series fully watched-ahead.
func ComputeLookahead(all []EpisodeInfo, playedSeason, playedEpisode, lookahead int, includeSpecials bool) EpisodeRange {
	eps := make([]EpisodeInfo, 0, len(all))
	for _, e := range all {
		if e.Season == 0 && !includeSpecials {
			continue
		}
		eps = append(eps, e)
	}
	if len(eps) == 0 {
		return EpisodeRange{}
	}

	sort.Slice(eps, func(i, j int) bool {
		if eps[i].Season != eps[j].Season {
			return eps[i].Season < eps[j].Season
		}
		return eps[i].Episode < eps[j].Episode
	})

	// First episode at or after the played position.
	start := -1
	for i, e := range eps {
		if e.Season > playedSeason || (e.Season == playedSeason && e.Episode >= playedEpisode) {
			start = i
			break
		}
	}
	if start == -1 {
		// Played past the end of the known series.
		return EpisodeRange{ReachedSeriesEnd: true}
	}

	end := start + lookahead
	if end > len(eps)-1 {
		end = len(eps) - 1
	}

	var out []EpisodeInfo
	for _, e := range eps[start : end+1] {
		if !e.HasFile {
			out = append(out, e)
		}
	}
	return EpisodeRange{
		Episodes:         out,
		ReachedSeriesEnd: end == len(eps)-1,
	}
}
