package placeholder

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// invalidNameChars are characters stripped from titles before they become
// file or directory names.
var invalidNameChars = strings.NewReplacer(
	"/", " ", "\\", " ", ":", " -", "*", "", "?", "",
	"\"", "", "<", "", ">", "", "|", "",
)

// sanitizeName makes a title safe for use as a path component.
func sanitizeName(title string) string {
	s := invalidNameChars.Replace(title)
	return strings.Join(strings.Fields(s), " ")
}

// movieDirName renders the Radarr-style movie folder name.
func movieDirName(title string, year int, tmdbID int64) string {
	return fmt.Sprintf("%s (%d) {tmdb-%d}", sanitizeName(title), year, tmdbID)
}

// movieFileName renders the placeholder file name inside a movie folder.
func movieFileName(title string, year int) string {
	return fmt.Sprintf("%s (%d).mkv", sanitizeName(title), year)
}

// seriesDirName renders the Sonarr-style series folder name.
func seriesDirName(title string, year int, tvdbID int64) string {
	return fmt.Sprintf("%s (%d) {tvdb-%d}", sanitizeName(title), year, tvdbID)
}

// seasonDirName renders a season folder name.
func seasonDirName(season int) string {
	return fmt.Sprintf("Season %02d", season)
}

// episodeFileName renders the placeholder file name for one episode.
func episodeFileName(seriesTitle string, season, episode int) string {
	return fmt.Sprintf("%s - S%02dE%02d.mkv", sanitizeName(seriesTitle), season, episode)
}

// idTag renders the external-id marker embedded in folder names, the primary
// key for folder lookup.
func idTag(scheme string, id int64) string {
	return fmt.Sprintf("{%s-%d}", scheme, id)
}

// normalizeForMatch reduces a folder or title to a comparable form:
// lowercase, accents stripped, punctuation dropped, whitespace collapsed.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// stripFolderDecorations removes the year suffix and id tags from a folder
// name so only the title takes part in fuzzy matching.
func stripFolderDecorations(name string) string {
	if i := strings.Index(name, "{"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "("); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
