// Package urlextract mines a SQL dump for embedded IPTV playlist URLs.
// It is an external collaborator to the core pipeline: the core only
// consumes the ordered, deduplicated URL list this package produces.
package urlextract

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
)

// urlPattern matches an http(s) URL that either carries a type=<kind>
// query parameter naming a known playlist type, or contains .m3u/.m3u8
// (optionally followed by more path or query characters).
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s'",)]+(?:type=(?:m3u_plus|m3u|hls)[^\s'",)]*|\.m3u8?[^\s'",)]*)`)

var typePattern = regexp.MustCompile(`(?i)type=([a-z0-9_]+)`)

// Result is the extraction outcome: the ordered, deduplicated URL list
// plus a breakdown by detected playlist type for the end-of-run summary.
type Result struct {
	URLs      []string
	ByType    map[string]int
	TotalSeen int
}

// FromFile scans the SQL dump at path line by line for playlist URLs.
func FromFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return FromReader(f)
}

// FromReader scans r line by line for playlist URLs, deduplicating while
// preserving first-seen order. Lines are read with bufio.Reader rather
// than bufio.Scanner: a mysqldump-style INSERT statement routinely
// produces a single line well past bufio.Scanner's default (and even a
// raised) token limit, and a dump that long must not abort the whole
// extraction.
func FromReader(r io.Reader) (Result, error) {
	res := Result{ByType: make(map[string]int)}
	seen := make(map[string]struct{})

	reader := bufio.NewReaderSize(r, 64*1024)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			matches := urlPattern.FindAllString(line, -1)
			for _, m := range matches {
				res.TotalSeen++
				if _, dup := seen[m]; dup {
					continue
				}
				seen[m] = struct{}{}
				res.URLs = append(res.URLs, m)
				res.ByType[classify(m)]++
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return Result{}, readErr
		}
	}
	return res, nil
}

func classify(url string) string {
	if m := typePattern.FindStringSubmatch(url); m != nil {
		return strings.ToLower(m[1])
	}
	if strings.Contains(strings.ToLower(url), ".m3u8") {
		return "m3u8"
	}
	return "m3u"
}
