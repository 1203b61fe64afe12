package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// season builds n sequential episodes for one season.
func season(s, n int, hasFile bool) []EpisodeInfo {
	eps := make([]EpisodeInfo, 0, n)
	for e := 1; e <= n; e++ {
		eps = append(eps, EpisodeInfo{Season: s, Episode: e, HasFile: hasFile, BackendID: int64(s*100 + e)})
	}
	return eps
}

func TestComputeLookahead_SeasonRollover(t *testing.T) {
	all := append(season(1, 10, false), season(2, 10, false)...)

	got := ComputeLookahead(all, 1, 8, 4, false)

	want := []EpisodeInfo{
		{Season: 1, Episode: 8, BackendID: 108},
		{Season: 1, Episode: 9, BackendID: 109},
		{Season: 1, Episode: 10, BackendID: 110},
		{Season: 2, Episode: 1, BackendID: 201},
		{Season: 2, Episode: 2, BackendID: 202},
	}
	assert.Equal(t, want, got.Episodes)
	assert.False(t, got.ReachedSeriesEnd)
}

func TestComputeLookahead_ReachedSeriesEnd(t *testing.T) {
	all := season(1, 5, false)

	got := ComputeLookahead(all, 1, 4, 10, false)

	assert.Len(t, got.Episodes, 2) // S01E04, S01E05
	assert.True(t, got.ReachedSeriesEnd)
}

func TestComputeLookahead_ExactlyAtEnd(t *testing.T) {
	all := season(1, 5, false)

	got := ComputeLookahead(all, 1, 4, 1, false)

	assert.Len(t, got.Episodes, 2)
	assert.True(t, got.ReachedSeriesEnd, "window landing on the last episode counts as series end")
}

func TestComputeLookahead_HasFileFiltered(t *testing.T) {
	all := []EpisodeInfo{
		{Season: 1, Episode: 1, HasFile: true, BackendID: 101},
		{Season: 1, Episode: 2, HasFile: false, BackendID: 102},
		{Season: 1, Episode: 3, HasFile: true, BackendID: 103},
		{Season: 1, Episode: 4, HasFile: false, BackendID: 104},
		{Season: 1, Episode: 5, HasFile: false, BackendID: 105},
	}

	// Window covers E01..E04; E05 is outside even though E01/E03 are dropped.
	got := ComputeLookahead(all, 1, 1, 3, false)

	ids := []int64{}
	for _, e := range got.Episodes {
		ids = append(ids, e.BackendID)
	}
	assert.Equal(t, []int64{102, 104}, ids, "window is positional, files do not extend it")
	assert.False(t, got.ReachedSeriesEnd)
}

func TestComputeLookahead_SpecialsExcluded(t *testing.T) {
	all := append(season(0, 3, false), season(1, 3, false)...)

	got := ComputeLookahead(all, 1, 1, 10, false)

	for _, e := range got.Episodes {
		assert.NotEqual(t, 0, e.Season, "specials must not appear")
	}
	assert.Len(t, got.Episodes, 3)
	assert.True(t, got.ReachedSeriesEnd, "series end computed without specials")
}

func TestComputeLookahead_SpecialsIncluded(t *testing.T) {
	all := append(season(1, 2, false), EpisodeInfo{Season: 0, Episode: 1, BackendID: 1})

	got := ComputeLookahead(all, 0, 1, 10, true)

	assert.Len(t, got.Episodes, 3)
	assert.Equal(t, 0, got.Episodes[0].Season, "season 0 sorts first")
}

func TestComputeLookahead_UnsortedInput(t *testing.T) {
	all := []EpisodeInfo{
		{Season: 2, Episode: 1, BackendID: 201},
		{Season: 1, Episode: 2, BackendID: 102},
		{Season: 1, Episode: 1, BackendID: 101},
	}

	got := ComputeLookahead(all, 1, 1, 10, false)

	ids := []int64{}
	for _, e := range got.Episodes {
		ids = append(ids, e.BackendID)
	}
	assert.Equal(t, []int64{101, 102, 201}, ids)
}

func TestComputeLookahead_EmptySeries(t *testing.T) {
	got := ComputeLookahead(nil, 1, 1, 5, false)
	assert.Empty(t, got.Episodes)
	assert.False(t, got.ReachedSeriesEnd)
}

func TestComputeLookahead_PlayedPastEnd(t *testing.T) {
	all := season(1, 5, false)

	got := ComputeLookahead(all, 3, 1, 5, false)

	assert.Empty(t, got.Episodes)
	assert.True(t, got.ReachedSeriesEnd)
}

func TestComputeLookahead_ZeroLookahead(t *testing.T) {
	all := season(1, 5, false)

	got := ComputeLookahead(all, 1, 2, 0, false)

	assert.Equal(t, []EpisodeInfo{{Season: 1, Episode: 2, BackendID: 102}}, got.Episodes,
		"zero lookahead still selects the played episode itself")
}
