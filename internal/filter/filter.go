// Package filter implements the content filter (C3): a pure predicate
// excluding streams by channel name and group title.
package filter

import "regexp"

// Options toggles the configurable keyword families.
type Options struct {
	Disabled      bool
	IncludeRadio  bool
	IncludeAdult  bool
}

var (
	moviesRe = wordBoundary(`movies?|film|cinema|pelicula|filme|cine`)
	seriesRe = wordBoundary(`series|tv show|season|episode|episodio|temporada|capitulo`)
	dailyRe  = wordBoundary(`24/7|24h|24hs|24 hour|non-stop|nonstop`)
	vodRe    = wordBoundary(`vod|on demand|catch up|replay`)
	adultRe  = wordBoundary(`xxx|adult|porn|sexy|\+18|18\+|erotic|playboy|hustler`)
	radioRe  = wordBoundary(`radio|fm`)
)

func wordBoundary(alt string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + alt + `)\b`)
}

// ShouldFilter reports whether a stream with the given channel name and
// group title should be excluded. It is a pure function of its inputs:
// the same pair always yields the same answer.
func ShouldFilter(channelName, groupTitle string, opts Options) bool {
	if opts.Disabled {
		return false
	}
	text := channelName + " " + groupTitle

	if moviesRe.MatchString(text) || seriesRe.MatchString(text) ||
		dailyRe.MatchString(text) || vodRe.MatchString(text) {
		return true
	}
	if !opts.IncludeAdult && adultRe.MatchString(text) {
		return true
	}
	if !opts.IncludeRadio && radioRe.MatchString(text) {
		return true
	}
	return false
}
