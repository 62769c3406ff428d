// Package playlist parses extended-M3U documents into stream candidates
// and serializes the organizer's output back into the on-disk format.
package playlist

import (
	"strings"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
)

// Parse scans content line by line. Whenever a line begins with the
// #EXTINF metadata marker, the next non-comment, non-empty line is taken
// as the stream URL and paired with the parsed ChannelInfo into one
// StreamRef. Trailing metadata without a following URL is silently
// skipped; comments and blank lines between entries are tolerated.
func Parse(content string) []model.StreamRef {
	var refs []model.StreamRef
	lines := strings.Split(content, "\n")

	pending := false
	var info model.ChannelInfo
	var raw string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "#EXTINF"):
			info = parseAttrs(line)
			raw = line
			pending = true
		case line == "" || strings.HasPrefix(line, "#"):
			// comment or blank line between entries; tolerated
		default:
			if pending {
				refs = append(refs, model.StreamRef{
					RawLine: raw,
					URL:     line,
					Info:    info,
				})
				pending = false
			}
		}
	}
	return refs
}

// parseAttrs extracts tvg-id, tvg-name, tvg-logo and group-title from an
// #EXTINF line, and the channel name as the substring after the final
// comma, trimmed.
func parseAttrs(line string) model.ChannelInfo {
	info := model.ChannelInfo{
		TvgID:      quotedValueAfter(line, `tvg-id="`),
		TvgName:    quotedValueAfter(line, `tvg-name="`),
		TvgLogo:    quotedValueAfter(line, `tvg-logo="`),
		GroupTitle: quotedValueAfter(line, `group-title="`),
	}
	if idx := strings.LastIndex(line, ","); idx != -1 {
		info.ChannelName = strings.TrimSpace(line[idx+1:])
	}
	return info
}

func quotedValueAfter(line, marker string) string {
	idx := strings.Index(line, marker)
	if idx == -1 {
		return ""
	}
	start := idx + len(marker)
	end := strings.Index(line[start:], `"`)
	if end == -1 {
		return ""
	}
	return line[start : start+end]
}
