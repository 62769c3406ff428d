package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExtractsChannelInfo(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="CNN.us" tvg-logo="http://x/logo.png" group-title="News",CNN
http://x/cnn
#EXTINF:-1 tvg-id="bbc.uk" group-title="News",BBC News
http://x/bbc
`
	refs := Parse(content)
	if assert.Len(t, refs, 2) {
		assert.Equal(t, "CNN", refs[0].Info.ChannelName)
		assert.Equal(t, "CNN.us", refs[0].Info.TvgID)
		assert.Equal(t, "http://x/cnn", refs[0].URL)
		assert.Equal(t, "BBC News", refs[1].Info.ChannelName)
	}
}

func TestParseSkipsTrailingMetadataWithoutURL(t *testing.T) {
	content := "#EXTINF:-1 tvg-id=\"x\",Orphan\n"
	assert.Empty(t, Parse(content))
}

func TestParseTolerateCommentsBetweenEntries(t *testing.T) {
	content := "#EXTINF:-1,A\n# a comment\n\nhttp://x/a\n"
	refs := Parse(content)
	if assert.Len(t, refs, 1) {
		assert.Equal(t, "http://x/a", refs[0].URL)
	}
}
