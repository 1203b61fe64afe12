package plex

import (
	"fmt"
	"regexp"
	"strings"
)

// statusMarkerRegex matches the bracketed status suffix appended to catalog
// titles, e.g. "Fight Club [Downloading 42%]". Only known status texts are
// matched so user titles containing brackets survive untouched.
var statusMarkerRegex = regexp.MustCompile(
	`\s*\[(Searching\.\.\.|Queued|Downloading \d+%|Downloading\.\.\.|Processing\.\.\.|Retrying\.\.\.|Available|Not Found)\]`)

// StripStatusMarkers removes every status marker from a title.
func StripStatusMarkers(title string) string {
	return strings.TrimSpace(statusMarkerRegex.ReplaceAllString(title, ""))
}

// WithStatusMarker returns the title carrying exactly one marker with the
// given status text. Existing markers are replaced, never stacked.
func WithStatusMarker(title, status string) string {
	return fmt.Sprintf("%s [%s]", StripStatusMarkers(title), status)
}
