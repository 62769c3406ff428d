// Package fetch implements the playlist fetcher (C2): downloading and
// parsing an M3U document into stream candidates.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/httpclient"
	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/playlist"
	"github.com/ang3lo-azevedo/m3umine/internal/telemetry"
)

// Fetcher downloads and parses playlists through a shared HTTP client.
type Fetcher struct {
	client *httpclient.Client
}

// New returns a Fetcher using the given shared client.
func New(client *httpclient.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch performs one GET against url bounded by timeout. Any HTTP,
// network or parse failure yields an empty list rather than an error:
// per §4.2 this is not exceptional, it's the common case for a dump
// full of stale playlist URLs.
func (f *Fetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]model.StreamRef, time.Duration) {
	ctx, span := telemetry.Tracer("m3umine/fetch").Start(ctx, "fetch.playlist")
	defer span.End()

	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := f.client.Get(reqCtx, url)
	if err != nil {
		return nil, time.Since(start)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, time.Since(start)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, time.Since(start)
	}

	content := strings.ToValidUTF8(string(body), "")
	return playlist.Parse(content), time.Since(start)
}
