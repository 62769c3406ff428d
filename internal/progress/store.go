// Package progress implements the progress store (C1): durable
// key→result memoization for streams and URL→status memoization for
// playlists, with atomic writes.
package progress

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// Store is the in-memory, mutex-guarded progress state for one run.
// The orchestrator owns one Store and passes it by reference to
// every component that needs to consult or update it.
type Store struct {
	mu        sync.Mutex
	streams   map[string]model.StreamResult
	playlists map[string]model.PlaylistRecord
	log       zerolog.Logger
}

// New returns an empty Store.
func New(log zerolog.Logger) *Store {
	return &Store{
		streams:   make(map[string]model.StreamResult),
		playlists: make(map[string]model.PlaylistRecord),
		log:       log,
	}
}

// HasStream reports whether key has already been memoized.
func (s *Store) HasStream(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.streams[key]
	return ok
}

// GetStream returns the memoized result for key, if any.
func (s *Store) GetStream(key string) (model.StreamResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.streams[key]
	return r, ok
}

// PutStream memoizes a probe result. The second writer for a racing
// duplicate key wins; both producing the same probe is safe to tolerate.
func (s *Store) PutStream(key string, result model.StreamResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams[key] = result
}

// HasPlaylist reports whether url already has a terminal PlaylistRecord.
func (s *Store) HasPlaylist(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.playlists[url]
	return ok
}

// PutPlaylist records the outcome of processing url.
func (s *Store) PutPlaylist(url string, record model.PlaylistRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[url] = record
}

// Snapshot returns a point-in-time copy of both maps, suitable for
// serialization without holding the lock for the duration of an I/O call.
func (s *Store) Snapshot() (map[string]model.StreamResult, map[string]model.PlaylistRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	streams := make(map[string]model.StreamResult, len(s.streams))
	for k, v := range s.streams {
		streams[k] = v
	}
	playlists := make(map[string]model.PlaylistRecord, len(s.playlists))
	for k, v := range s.playlists {
		playlists[k] = v
	}
	return streams, playlists
}

// playlistFileV2 is the current on-disk shape of the playlist progress file.
type playlistFileV2 struct {
	Version        string                            `json:"version"`
	LastUpdated    string                             `json:"last_updated"`
	TotalProcessed int                                `json:"total_processed"`
	Playlists      map[string]model.PlaylistRecord    `json:"playlists"`
}

// legacyPlaylistFile is the pre-v2.0 shape: a bare list of processed URLs.
type legacyPlaylistFile struct {
	ProcessedPlaylists []string `json:"processed_playlists"`
}

// LoadStreams reads the stream progress file at path. Absence is not an
// error: it returns an empty map. Any other I/O or decode error is
// logged and treated the same way (non-fatal, start empty) per the
// progress-load error policy.
func LoadStreams(path string, log zerolog.Logger) map[string]model.StreamResult {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to read stream progress, starting empty")
		}
		return make(map[string]model.StreamResult)
	}
	var out map[string]model.StreamResult
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to parse stream progress, starting empty")
		return make(map[string]model.StreamResult)
	}
	return out
}

// LoadPlaylists reads the playlist progress file at path, tolerant of
// both the current map-with-metadata shape and the legacy
// list-of-processed-URLs shape; legacy entries are upgraded with
// status=processed and an empty timestamp.
func LoadPlaylists(path string, log zerolog.Logger) map[string]model.PlaylistRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to read playlist progress, starting empty")
		}
		return make(map[string]model.PlaylistRecord)
	}

	var current playlistFileV2
	if err := json.Unmarshal(data, &current); err == nil && current.Playlists != nil {
		return current.Playlists
	}

	var legacy legacyPlaylistFile
	if err := json.Unmarshal(data, &legacy); err == nil && len(legacy.ProcessedPlaylists) > 0 {
		upgraded := make(map[string]model.PlaylistRecord, len(legacy.ProcessedPlaylists))
		for _, url := range legacy.ProcessedPlaylists {
			upgraded[url] = model.PlaylistRecord{Status: model.PlaylistProcessed}
		}
		return upgraded
	}

	log.Warn().Str("path", path).Msg("failed to parse playlist progress, starting empty")
	return make(map[string]model.PlaylistRecord)
}

// SaveStreams atomically persists the stream map: write to a temp file,
// fsync, then atomic rename over path.
func SaveStreams(path string, streams map[string]model.StreamResult) error {
	data, err := json.Marshal(streams)
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o644)
}

// SavePlaylists atomically persists the playlist map in the current
// v2.0 on-disk shape.
func SavePlaylists(path string, playlists map[string]model.PlaylistRecord) error {
	file := playlistFileV2{
		Version:        "2.0",
		LastUpdated:    time.Now().UTC().Format(time.RFC3339),
		TotalProcessed: len(playlists),
		Playlists:      playlists,
	}
	data, err := json.Marshal(file)
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o644)
}
