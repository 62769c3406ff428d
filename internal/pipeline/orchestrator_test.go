package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/accumulator"
	"github.com/ang3lo-azevedo/m3umine/internal/checkpoint"
	"github.com/ang3lo-azevedo/m3umine/internal/fetch"
	"github.com/ang3lo-azevedo/m3umine/internal/filter"
	"github.com/ang3lo-azevedo/m3umine/internal/httpclient"
	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/probe"
	"github.com/ang3lo-azevedo/m3umine/internal/progress"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBackend struct {
	calls int
}

func (c *countingBackend) CheckChannelStatus(ctx context.Context, url string, timeout, extended time.Duration) (string, error) {
	c.calls++
	return probe.Alive, nil
}

func (c *countingBackend) GetDetailedStreamInfo(ctx context.Context, url string) (string, string, string, string, error) {
	return "h264", "5000 kb/s", "1920x1080", "30", nil
}

func (c *countingBackend) GetAudioBitrate(ctx context.Context, url string) (string, error) {
	return "128 kb/s", nil
}

func newTestOrchestrator(t *testing.T, backend probe.Backend, opts filter.Options) (*Orchestrator, *progress.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := progress.New(zerolog.Nop())
	acc := accumulator.New()
	cp := checkpoint.New(store, acc, filepath.Join(dir, "s.json"), filepath.Join(dir, "p.json"), filepath.Join(dir, "out.m3u8"), zerolog.Nop())

	f := fetch.New(httpclient.New(2*time.Second, 100))
	p := probe.New(backend, store, time.Second)

	cfg := Config{FetchWorkers: 2, ProbeWorkers: 2, Timeout: 2 * time.Second, SaveInterval: time.Hour, FilterOpts: opts}
	return New(cfg, f, p, store, acc, cp, zerolog.Nop()), store, dir
}

func TestOrchestratorMemoizationSkipsBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#EXTINF:-1 tvg-id=\"CNN.us\",CNN\nhttp://x/cnn\n"))
	}))
	defer srv.Close()

	backend := &failIfCalledBackend{}
	o, store, _ := newTestOrchestrator(t, backend, filter.Options{})
	store.PutStream("CNN_http://x/cnn", model.StreamResult{Status: model.StreamFailed})

	err := o.Run(context.Background(), []string{srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 0, backend.calls)
	assert.Equal(t, 1, o.Stats.Snapshot().Failed)
}

type failIfCalledBackend struct{ calls int }

func (f *failIfCalledBackend) CheckChannelStatus(ctx context.Context, url string, timeout, extended time.Duration) (string, error) {
	f.calls++
	return "", errors.New("must not be called")
}
func (f *failIfCalledBackend) GetDetailedStreamInfo(ctx context.Context, url string) (string, string, string, string, error) {
	return "", "", "", "", nil
}
func (f *failIfCalledBackend) GetAudioBitrate(ctx context.Context, url string) (string, error) {
	return "", nil
}

func TestOrchestratorFilterWall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(
			"#EXTINF:-1,HBO Movies\nhttp://x/1\n" +
				"#EXTINF:-1,Radio FM Mix\nhttp://x/2\n" +
				"#EXTINF:-1,BBC News\nhttp://x/3\n"))
	}))
	defer srv.Close()

	backend := &countingBackend{}
	o, store, _ := newTestOrchestrator(t, backend, filter.Options{})

	err := o.Run(context.Background(), []string{srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, 2, o.Stats.Snapshot().Filtered)

	_, playlists := store.Snapshot()
	require.Contains(t, playlists, srv.URL)
	assert.EqualValues(t, 2, playlists[srv.URL].StreamsFiltered)
}

func TestOrchestratorAllFiltered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(
			"#EXTINF:-1,Action Movie One\nhttp://x/1\n" +
				"#EXTINF:-1,Action Movie Two\nhttp://x/2\n"))
	}))
	defer srv.Close()

	backend := &countingBackend{}
	o, store, _ := newTestOrchestrator(t, backend, filter.Options{})

	err := o.Run(context.Background(), []string{srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 0, backend.calls)

	_, playlists := store.Snapshot()
	require.Contains(t, playlists, srv.URL)
	assert.Equal(t, "all_filtered", string(playlists[srv.URL].Status))
}
