// Package model holds the data types shared across the m3umine pipeline:
// channel metadata, stream candidates, probe results and playlist records.
package model

import "time"

// ChannelInfo is the set of attributes parsed from an extended-M3U
// #EXTINF metadata line. All fields are optional.
type ChannelInfo struct {
	TvgID       string `json:"tvg_id,omitempty"`
	TvgName     string `json:"tvg_name,omitempty"`
	TvgLogo     string `json:"tvg_logo,omitempty"`
	GroupTitle  string `json:"group_title,omitempty"`
	ChannelName string `json:"channel_name,omitempty"`
}

// StreamRef is one candidate stream entry produced by the playlist fetcher.
type StreamRef struct {
	RawLine string      `json:"raw_line"`
	URL     string      `json:"url"`
	Info    ChannelInfo `json:"info"`
}

// Key returns the StreamKey identity used for progress memoization:
// channel name joined with the stream URL.
func (s StreamRef) Key() string {
	return StreamKey(s.Info.ChannelName, s.URL)
}

// StreamKey builds the memoization identity for a (channel name, URL) pair.
func StreamKey(channelName, url string) string {
	return channelName + "_" + url
}

// StreamStatus is the tagged-variant discriminator for StreamResult.
type StreamStatus string

const (
	StreamWorking StreamStatus = "working"
	StreamFailed  StreamStatus = "failed"
)

// StreamResult is the memoized outcome of probing one StreamRef.
type StreamResult struct {
	Status StreamStatus `json:"status"`

	ChannelName string `json:"channel_name"`
	URL         string `json:"url"`
	Info        ChannelInfo `json:"info"`

	// working-only fields
	Codec        string `json:"codec,omitempty"`
	VideoBitrate string `json:"video_bitrate,omitempty"`
	Resolution   string `json:"resolution,omitempty"`
	FPS          string `json:"fps,omitempty"`
	AudioInfo    string `json:"audio_info,omitempty"`
	Country      string `json:"country,omitempty"`

	// failed-only field
	Reason string `json:"reason,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// PlaylistStatus enumerates the terminal states a PlaylistRecord settles into.
type PlaylistStatus string

const (
	PlaylistCompleted   PlaylistStatus = "completed"
	PlaylistAllFiltered PlaylistStatus = "all_filtered"
	PlaylistInvalid     PlaylistStatus = "invalid"
	PlaylistError       PlaylistStatus = "error"

	// PlaylistProcessed marks a playlist upgraded from the legacy
	// list-of-URLs progress shape, which carried no richer status.
	PlaylistProcessed PlaylistStatus = "processed"
)

// PlaylistRecord is the memoized outcome of processing one playlist URL.
type PlaylistRecord struct {
	Status    PlaylistStatus `json:"status"`
	Timestamp time.Time      `json:"timestamp"`

	StreamsFound    int `json:"streams_found"`
	StreamsFiltered int `json:"streams_filtered"`
	StreamsChecked  int `json:"streams_checked"`
	WorkingStreams  int `json:"working_streams"`

	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OrganizedEntry is one labeled, ranked stream within a country bucket,
// as produced by the stream organizer and consumed by the output writer.
type OrganizedEntry struct {
	Label  string
	Result StreamResult
}

// OrganizedOutput is the final shape handed to the output writer: country
// code to its ordered sequence of ranked, labeled streams.
type OrganizedOutput struct {
	Countries []string
	Buckets   map[string][]OrganizedEntry
}
