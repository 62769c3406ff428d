package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/progress"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	calls  int
	status string
	err    error
}

func (f *fakeBackend) CheckChannelStatus(ctx context.Context, url string, timeout, extended time.Duration) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.status, nil
}

func (f *fakeBackend) GetDetailedStreamInfo(ctx context.Context, url string) (string, string, string, string, error) {
	return "h264", "5000 kb/s", "1920x1080", "30", nil
}

func (f *fakeBackend) GetAudioBitrate(ctx context.Context, url string) (string, error) {
	return "128 kb/s", nil
}

func TestProbeMemoizesAcrossCalls(t *testing.T) {
	store := progress.New(zerolog.Nop())
	backend := &fakeBackend{status: Alive}
	p := New(backend, store, time.Second)

	ref := model.StreamRef{URL: "http://x/cnn", Info: model.ChannelInfo{ChannelName: "CNN"}}
	r1 := p.Probe(context.Background(), ref)
	r2 := p.Probe(context.Background(), ref)

	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, model.StreamWorking, r1.Status)
	assert.Equal(t, r1, r2)
}

func TestProbeMemoizationSkipsBackendWhenPrePopulated(t *testing.T) {
	store := progress.New(zerolog.Nop())
	ref := model.StreamRef{URL: "http://x/cnn", Info: model.ChannelInfo{ChannelName: "CNN"}}
	store.PutStream(ref.Key(), model.StreamResult{Status: model.StreamFailed})

	backend := &fakeBackend{err: errors.New("must not be called")}
	p := New(backend, store, time.Second)

	r := p.Probe(context.Background(), ref)
	assert.Equal(t, 0, backend.calls)
	assert.Equal(t, model.StreamFailed, r.Status)
}

func TestProbeBackendErrorProducesFailed(t *testing.T) {
	store := progress.New(zerolog.Nop())
	backend := &fakeBackend{err: errors.New("boom")}
	p := New(backend, store, time.Second)

	ref := model.StreamRef{URL: "http://x/a", Info: model.ChannelInfo{ChannelName: "A"}}
	r := p.Probe(context.Background(), ref)

	require.Equal(t, model.StreamFailed, r.Status)
	assert.Equal(t, "boom", r.Reason)
}

func TestProbeInfersCountryOnWorking(t *testing.T) {
	store := progress.New(zerolog.Nop())
	backend := &fakeBackend{status: Alive}
	p := New(backend, store, time.Second)

	ref := model.StreamRef{URL: "http://x/globo", Info: model.ChannelInfo{ChannelName: "Globo", TvgID: "globo.br"}}
	r := p.Probe(context.Background(), ref)
	assert.Equal(t, "BR", r.Country)
}
