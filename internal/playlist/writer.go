package playlist

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
)

// Write serializes an OrganizedOutput to the extended-M3U on-disk format:
// an #EXTM3U header, generation metadata comments, then one country
// banner and entry block per bucket in country order.
func Write(w io.Writer, out model.OrganizedOutput, generatedAt time.Time) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	fmt.Fprintf(buf, "# Generated: %s\n", generatedAt.UTC().Format(time.RFC3339))
	buf.WriteString("# Organized by country, alphabetically, and by bitrate\n")

	for _, country := range out.Countries {
		entries := out.Buckets[country]
		fmt.Fprintf(buf, "\n# ===== %s (%d streams) =====\n", country, len(entries))
		for _, e := range entries {
			writeEntry(buf, country, e)
		}
	}

	_, err := io.Copy(w, buf)
	return err
}

func writeEntry(buf *bytes.Buffer, country string, e model.OrganizedEntry) {
	r := e.Result
	attrs := bytes.Buffer{}
	if r.Info.TvgID != "" {
		fmt.Fprintf(&attrs, ` tvg-id="%s"`, r.Info.TvgID)
	}
	if r.Info.TvgName != "" {
		fmt.Fprintf(&attrs, ` tvg-name="%s"`, r.Info.TvgName)
	}
	if r.Info.TvgLogo != "" {
		fmt.Fprintf(&attrs, ` tvg-logo="%s"`, r.Info.TvgLogo)
	}
	fmt.Fprintf(&attrs, ` group-title="%s"`, country)

	suffix := ""
	if r.Resolution != "" || r.VideoBitrate != "" {
		suffix = fmt.Sprintf(" [%s %s]", r.Resolution, r.VideoBitrate)
	}

	fmt.Fprintf(buf, "#EXTINF:-1%s,%s%s\n", attrs.String(), e.Label, suffix)
	buf.WriteString(r.URL + "\n")
}
