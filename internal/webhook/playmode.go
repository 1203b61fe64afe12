package webhook

import "github.com/vmunix/holdarr/internal/monitor"

// selectWindow picks which episodes a play should acquire. Episode mode uses
// the configured lookahead. Season mode widens to the rest of the played
// season, rolling into the next season when the play hit a season finale.
// Series mode widens to everything from the played episode onward.
func (s *Server) selectWindow(infos []monitor.EpisodeInfo, season, episode int) monitor.EpisodeRange {
	lookahead := s.cfg.Lookahead
	switch s.cfg.PlayMode {
	case "season":
		lookahead = s.seasonLookahead(infos, season, episode)
	case "series":
		lookahead = len(infos)
	}
	return monitor.ComputeLookahead(infos, season, episode, lookahead, s.cfg.IncludeSpecials)
}

// seasonLookahead counts eligible episodes from the played one to the end of
// its season, plus the following season when the played episode is the
// finale. Returned as a lookahead distance, so one less than the count.
func (s *Server) seasonLookahead(infos []monitor.EpisodeInfo, season, episode int) int {
	remaining := 0
	finale := true
	nextSeason := 0
	nextSeasonCount := 0
	for _, e := range infos {
		if e.Season == 0 && !s.cfg.IncludeSpecials {
			continue
		}
		switch {
		case e.Season == season && e.Episode >= episode:
			remaining++
			if e.Episode > episode {
				finale = false
			}
		case e.Season > season:
			if nextSeason == 0 || e.Season < nextSeason {
				nextSeason = e.Season
				nextSeasonCount = 0
			}
			if e.Season == nextSeason {
				nextSeasonCount++
			}
		}
	}
	if remaining == 0 {
		return 0
	}
	if finale {
		remaining += nextSeasonCount
	}
	return remaining - 1
}
