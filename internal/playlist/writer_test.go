package playlist

import (
	"bytes"
	"testing"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestWriteProducesCountryBanners(t *testing.T) {
	out := model.OrganizedOutput{
		Countries: []string{"BR", "US"},
		Buckets: map[string][]model.OrganizedEntry{
			"BR": {{Label: "Globo", Result: model.StreamResult{URL: "http://x/globo", Resolution: "1080p", VideoBitrate: "5000 kb/s"}}},
			"US": {{Label: "ESPN", Result: model.StreamResult{URL: "http://x/espn"}}},
		},
	}
	var buf bytes.Buffer
	err := Write(&buf, out, time.Unix(0, 0))
	assert.NoError(t, err)
	s := buf.String()
	assert.Contains(t, s, "#EXTM3U\n")
	assert.Contains(t, s, "# ===== BR (1 streams) =====")
	assert.Contains(t, s, "Globo [1080p 5000 kb/s]")
	assert.Contains(t, s, "http://x/globo")
	assert.Contains(t, s, "# ===== US (1 streams) =====")
}
