// Package backend provides a concrete implementation of the probe.Backend
// interface by shelling out to ffprobe. The core (internal/probe) never
// imports this package directly; it is wired in at the CLI entry point.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// FFProbe shells out to the ffprobe binary to answer liveness and
// metadata questions about a stream URL.
type FFProbe struct {
	BinPath string
}

// New returns an FFProbe using binPath, defaulting to "ffprobe" on PATH.
func New(binPath string) *FFProbe {
	if binPath == "" {
		binPath = "ffprobe"
	}
	return &FFProbe{BinPath: binPath}
}

// Available resolves binPath (or "ffprobe" if empty) against PATH, the
// startup precondition check for the probing backend: its absence must
// be a fatal, exit-1 condition rather than a pipeline that silently
// fails every probe.
func Available(binPath string) error {
	if binPath == "" {
		binPath = "ffprobe"
	}
	_, err := exec.LookPath(binPath)
	return err
}

type probeFormat struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	BitRate    string `json:"bit_rate"`
	RFrameRate string `json:"r_frame_rate"`
}

// CheckChannelStatus reports "Alive" when ffprobe can enumerate at least
// one stream within the extended timeout, any other string (or error)
// otherwise.
func (f *FFProbe) CheckChannelStatus(ctx context.Context, url string, timeout, extendedTimeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, extendedTimeout)
	defer cancel()

	pf, err := f.probe(ctx, url)
	if err != nil {
		return "", err
	}
	if len(pf.Streams) == 0 {
		return "Dead", nil
	}
	return "Alive", nil
}

// GetDetailedStreamInfo returns codec, video bitrate, resolution and fps
// for the first video stream ffprobe reports.
func (f *FFProbe) GetDetailedStreamInfo(ctx context.Context, url string) (codec, videoBitrate, resolution, fps string, err error) {
	pf, err := f.probe(ctx, url)
	if err != nil {
		return "", "", "", "", err
	}
	for _, s := range pf.Streams {
		if s.CodecType != "video" {
			continue
		}
		bitrate := "Unknown"
		if s.BitRate != "" {
			bitrate = s.BitRate + " bps"
		}
		return s.CodecName, bitrate, fmt.Sprintf("%dx%d", s.Width, s.Height), frameRate(s.RFrameRate), nil
	}
	return "", "Unknown", "", "", nil
}

// GetAudioBitrate returns a human-readable audio bitrate for the first
// audio stream ffprobe reports with a bitrate, or "Unknown" if none has one.
func (f *FFProbe) GetAudioBitrate(ctx context.Context, url string) (string, error) {
	pf, err := f.probe(ctx, url)
	if err != nil {
		return "", err
	}
	for _, s := range pf.Streams {
		if s.CodecType == "audio" && s.BitRate != "" {
			return s.BitRate + " bps", nil
		}
	}
	return "Unknown", nil
}

func (f *FFProbe) probe(ctx context.Context, url string) (probeFormat, error) {
	cmd := exec.CommandContext(ctx, f.BinPath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		url,
	)
	out, err := cmd.Output()
	if err != nil {
		return probeFormat{}, err
	}
	var pf probeFormat
	if err := json.Unmarshal(out, &pf); err != nil {
		return probeFormat{}, err
	}
	return pf, nil
}

// frameRate converts ffprobe's "30000/1001" rational fps string into a
// plain decimal string, rounding to one decimal place.
func frameRate(raw string) string {
	var num, den int
	if n, err := fmt.Sscanf(raw, "%d/%d", &num, &den); err != nil || n != 2 || den == 0 {
		return raw
	}
	return strconv.FormatFloat(float64(num)/float64(den), 'f', 1, 64)
}
