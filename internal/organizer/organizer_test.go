package organizer

import (
	"testing"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeStripsParensAndQuality(t *testing.T) {
	assert.Equal(t, "ESPN", Canonicalize("ESPN HD"))
	assert.Equal(t, "ESPN", Canonicalize("ESPN (backup)"))
	assert.Equal(t, "ESPN", Canonicalize("ESPN 4K"))
}

func TestBitrateValueHandlesMissingAndUnknown(t *testing.T) {
	assert.Equal(t, 0, BitrateValue(""))
	assert.Equal(t, 0, BitrateValue("Unknown"))
	assert.Equal(t, 5000, BitrateValue("5000 kb/s"))
}

func TestOrganizeRanksVariantsDescending(t *testing.T) {
	results := []model.StreamResult{
		{ChannelName: "ESPN HD", Country: "US", VideoBitrate: "5000 kb/s"},
		{ChannelName: "ESPN (backup)", Country: "US", VideoBitrate: "1200 kb/s"},
		{ChannelName: "ESPN 4K", Country: "US", VideoBitrate: "12000 kb/s"},
	}
	out := Organize(results)
	require.Contains(t, out.Countries, "US")
	entries := out.Buckets["US"]
	require.Len(t, entries, 3)
	assert.Equal(t, "ESPN", entries[0].Label)
	assert.Equal(t, "ESPN backup 1", entries[1].Label)
	assert.Equal(t, "ESPN backup 2", entries[2].Label)
}

func TestOrganizeCountryBucketsAlphabetical(t *testing.T) {
	results := []model.StreamResult{
		{ChannelName: "A", Country: "US"},
		{ChannelName: "B", Country: "AR"},
		{ChannelName: "C", Country: "Unknown"},
	}
	out := Organize(results)
	assert.Equal(t, []string{"AR", "US", "Unknown"}, out.Countries)
}
