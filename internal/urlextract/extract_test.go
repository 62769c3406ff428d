package urlextract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromReaderDedupPreservesOrder(t *testing.T) {
	dump := `
INSERT INTO config VALUES ('playlist', 'http://a.example/get.php?username=x&type=m3u_plus');
INSERT INTO config VALUES ('backup', 'http://b.example/list.m3u8');
INSERT INTO config VALUES ('dup', 'http://a.example/get.php?username=x&type=m3u_plus');
`
	res, err := FromReader(strings.NewReader(dump))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://a.example/get.php?username=x&type=m3u_plus",
		"http://b.example/list.m3u8",
	}, res.URLs)
	assert.Equal(t, 1, res.ByType["m3u_plus"])
	assert.Equal(t, 1, res.ByType["m3u8"])
}

func TestFromReaderIgnoresUnrelatedURLs(t *testing.T) {
	res, err := FromReader(strings.NewReader("see http://example.com/docs for help\n"))
	require.NoError(t, err)
	assert.Empty(t, res.URLs)
}
