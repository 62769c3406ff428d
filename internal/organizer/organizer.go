// Package organizer implements the stream organizer (C7): canonicalizing
// channel names, grouping by (country, base name), and ranking variants
// by bitrate.
package organizer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
)

var (
	parenRe   = regexp.MustCompile(`\s*\(.*?\)\s*`)
	qualityRe = regexp.MustCompile(`(?i)\s*\b(HD|FHD|4K|UHD|SD)\s*$`)
	leadDigit = regexp.MustCompile(`^\s*(\d+)`)
)

// Canonicalize strips parenthetical segments and trailing quality tags
// from a channel name to produce its base name for grouping.
func Canonicalize(channelName string) string {
	name := parenRe.ReplaceAllString(channelName, " ")
	name = qualityRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(collapseSpaces(name))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BitrateValue parses the leading integer from a video_bitrate string;
// absent, "Unknown" or non-numeric values yield 0.
func BitrateValue(videoBitrate string) int {
	if videoBitrate == "" || strings.EqualFold(videoBitrate, "unknown") || strings.EqualFold(videoBitrate, "n/a") {
		return 0
	}
	m := leadDigit.FindStringSubmatch(videoBitrate)
	if m == nil {
		return 0
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return v
}

// Organize groups working results by inferred country then by
// canonicalized base name, ranks each group descending by bitrate, and
// labels the top entry with the base name and subsequent entries
// "<base name> backup N".
func Organize(results []model.StreamResult) model.OrganizedOutput {
	byCountry := make(map[string]map[string][]model.StreamResult)

	for _, r := range results {
		base := Canonicalize(r.ChannelName)
		country := r.Country
		if _, ok := byCountry[country]; !ok {
			byCountry[country] = make(map[string][]model.StreamResult)
		}
		byCountry[country][base] = append(byCountry[country][base], r)
	}

	out := model.OrganizedOutput{Buckets: make(map[string][]model.OrganizedEntry)}
	for country := range byCountry {
		out.Countries = append(out.Countries, country)
	}
	sort.Strings(out.Countries)

	for _, country := range out.Countries {
		byName := byCountry[country]
		var names []string
		for n := range byName {
			names = append(names, n)
		}
		sort.Strings(names)

		var entries []model.OrganizedEntry
		for _, name := range names {
			group := byName[name]
			sort.SliceStable(group, func(i, j int) bool {
				return BitrateValue(group[i].VideoBitrate) > BitrateValue(group[j].VideoBitrate)
			})
			for idx, r := range group {
				label := name
				if idx > 0 {
					label = fmt.Sprintf("%s backup %d", name, idx)
				}
				entries = append(entries, model.OrganizedEntry{Label: label, Result: r})
			}
		}
		out.Buckets[country] = entries
	}
	return out
}
