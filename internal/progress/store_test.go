package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutHasGet(t *testing.T) {
	s := New(zerolog.Nop())
	assert.False(t, s.HasStream("CNN_http://x/cnn"))
	s.PutStream("CNN_http://x/cnn", model.StreamResult{Status: model.StreamFailed})
	assert.True(t, s.HasStream("CNN_http://x/cnn"))
	r, ok := s.GetStream("CNN_http://x/cnn")
	require.True(t, ok)
	assert.Equal(t, model.StreamFailed, r.Status)
}

func TestSaveLoadStreamsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "streams.json")

	original := map[string]model.StreamResult{
		"CNN_http://x/cnn": {Status: model.StreamWorking, ChannelName: "CNN", URL: "http://x/cnn"},
	}
	require.NoError(t, SaveStreams(path, original))

	loaded := LoadStreams(path, zerolog.Nop())
	assert.Equal(t, original, loaded)
}

func TestLoadStreamsMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	loaded := LoadStreams(filepath.Join(dir, "missing.json"), zerolog.Nop())
	assert.Empty(t, loaded)
}

func TestLoadPlaylistsUpgradesLegacyShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlists.json")
	legacy := []byte(`{"processed_playlists": ["http://a", "http://b"]}`)
	require.NoError(t, os.WriteFile(path, legacy, 0o644))

	loaded := LoadPlaylists(path, zerolog.Nop())
	require.Len(t, loaded, 2)
	assert.Equal(t, model.PlaylistProcessed, loaded["http://a"].Status)
	assert.Equal(t, model.PlaylistProcessed, loaded["http://b"].Status)
}

func TestSaveLoadPlaylistsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playlists.json")

	original := map[string]model.PlaylistRecord{
		"http://a": {Status: model.PlaylistCompleted, StreamsFound: 5},
	}
	require.NoError(t, SavePlaylists(path, original))

	loaded := LoadPlaylists(path, zerolog.Nop())
	assert.Equal(t, original["http://a"].Status, loaded["http://a"].Status)
	assert.Equal(t, original["http://a"].StreamsFound, loaded["http://a"].StreamsFound)
}
