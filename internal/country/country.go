// Package country implements the country resolver (C9): inferring a
// country code from channel metadata via a prioritized TLD and keyword
// scheme.
package country

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upper = cases.Upper(language.Und)

// Unknown is the fallback bucket when no rule matches.
const Unknown = "Unknown"

// tldMap maps a tvg_id's dot-suffix to a country code.
var tldMap = map[string]string{
	"br": "BR", "us": "US", "uk": "UK", "ca": "CA", "ar": "AR",
	"mx": "MX", "es": "ES", "fr": "FR", "de": "DE", "it": "IT",
	"pt": "PT", "cl": "CL", "co": "CO", "pe": "PE", "ve": "VE", "ec": "EC",
}

// prefixMap maps a tvg_id's leading code (before #, - or _) to a country code.
var prefixMap = map[string]string{
	"br": "BR", "us": "US", "uk": "UK", "ca": "CA", "ar": "AR",
	"mx": "MX", "es": "ES", "fr": "FR", "de": "DE", "it": "IT",
	"pt": "PT", "cl": "CL",
}

type keywordSet struct {
	code     string
	keywords []string
}

// priority is checked before the general country table, so that e.g. "US"
// long-form synonyms win before a shorter ambiguous code could match.
var priority = []keywordSet{
	{"US", []string{"US", "USA", "UNITED STATES", "AMERICA"}},
	{"UK", []string{"UK", "GB", "UNITED KINGDOM", "ENGLAND", "BRITISH"}},
	{"INT", []string{"INT", "INTERNATIONAL"}},
}

var others = []keywordSet{
	{"AR", []string{"AR", "ARGENTINA"}},
	{"BR", []string{"BR", "BRASIL", "BRAZIL"}},
	{"CA", []string{"CA", "CANADA"}},
	{"DE", []string{"DE", "GERMANY", "DEUTSCHLAND"}},
	{"ES", []string{"ES", "SPAIN", "ESPANA"}},
	{"FR", []string{"FR", "FRANCE"}},
	{"IT", []string{"IT", "ITALY", "ITALIA"}},
	{"MX", []string{"MX", "MEXICO"}},
	{"PT", []string{"PT", "PORTUGAL"}},
}

// Resolve infers a country code from a ChannelInfo's tvg_id, group title
// and channel name, in priority order: tvg_id TLD suffix, tvg_id prefix,
// keyword scan (priority list then the general table), then Unknown.
func Resolve(tvgID, groupTitle, channelName string) string {
	if code, ok := fromTLD(tvgID); ok {
		return code
	}
	if code, ok := fromPrefix(tvgID); ok {
		return code
	}

	text := upper.String(groupTitle + " " + channelName)
	if code, ok := scan(text, priority); ok {
		return code
	}
	if code, ok := scan(text, others); ok {
		return code
	}
	return Unknown
}

func fromTLD(tvgID string) (string, bool) {
	idx := strings.LastIndex(tvgID, ".")
	if idx == -1 {
		return "", false
	}
	suffix := strings.ToLower(tvgID[idx+1:])
	code, ok := tldMap[suffix]
	return code, ok
}

func fromPrefix(tvgID string) (string, bool) {
	lower := strings.ToLower(tvgID)
	for prefix, code := range prefixMap {
		if strings.HasPrefix(lower, prefix+"#") ||
			strings.HasPrefix(lower, prefix+"-") ||
			strings.HasPrefix(lower, prefix+"_") {
			return code, true
		}
	}
	return "", false
}

func scan(text string, sets []keywordSet) (string, bool) {
	padded := " " + text + " "
	for _, set := range sets {
		for _, kw := range set.keywords {
			if len(kw) <= 3 {
				if strings.Contains(padded, " "+kw+" ") {
					return set.code, true
				}
			} else if strings.Contains(text, kw) {
				return set.code, true
			}
		}
	}
	return "", false
}
