package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ang3lo-azevedo/m3umine/internal/accumulator"
	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/progress"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushPersistsProgressAndOutput(t *testing.T) {
	dir := t.TempDir()
	store := progress.New(zerolog.Nop())
	store.PutStream("CNN_http://x/cnn", model.StreamResult{Status: model.StreamWorking})
	store.PutPlaylist("http://playlist", model.PlaylistRecord{Status: model.PlaylistCompleted})

	acc := accumulator.New()
	acc.Append(model.StreamResult{
		ChannelName: "CNN", URL: "http://x/cnn", Country: "US", VideoBitrate: "5000 kb/s",
	})

	streamPath := filepath.Join(dir, "streams.json")
	playlistPath := filepath.Join(dir, "playlists.json")
	outputPath := filepath.Join(dir, "out.m3u8")

	cp := New(store, acc, streamPath, playlistPath, outputPath, zerolog.Nop())
	cp.Flush(context.Background())

	assert.FileExists(t, streamPath)
	assert.FileExists(t, playlistPath)
	assert.FileExists(t, outputPath)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# ===== US (1 streams) =====")
}

func TestFlushWithNoWorkingStreamsSkipsOutput(t *testing.T) {
	dir := t.TempDir()
	store := progress.New(zerolog.Nop())
	acc := accumulator.New()
	outputPath := filepath.Join(dir, "out.m3u8")

	cp := New(store, acc, filepath.Join(dir, "s.json"), filepath.Join(dir, "p.json"), outputPath, zerolog.Nop())
	cp.Flush(context.Background())

	assert.NoFileExists(t, outputPath)
}
