package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// FFmpeg wraps the external ffmpeg and ffprobe binaries.
type FFmpeg struct {
	BinPath   string
	ProbePath string
}

// NewFFmpeg creates a wrapper; empty paths fall back to $PATH lookup.
func NewFFmpeg(binPath, probePath string) *FFmpeg {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	if probePath == "" {
		probePath = "ffprobe"
	}
	return &FFmpeg{BinPath: binPath, ProbePath: probePath}
}

// ExecError carries the tool's diagnostic output verbatim.
type ExecError struct {
	Err    error
	Stderr string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v, stderr: %s", e.Err, e.Stderr)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// Run executes ffmpeg with the given arguments. A non-zero exit is
// returned as an *ExecError holding the captured stderr.
func (f *FFmpeg) Run(ctx context.Context, args ...string) error {
	cmd := commandContext(ctx, f.BinPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExecError{Err: err, Stderr: stderr.String()}
	}
	return nil
}

// Duration returns the container duration of a media file in seconds.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	cmd := commandContext(ctx, f.ProbePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe error: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// AudioParams describes the codec parameters that must be uniform
// across clips for a stream-copy concatenation to be well formed.
type AudioParams struct {
	Codec      string
	SampleRate int
	Channels   int
}

func (p AudioParams) String() string {
	return fmt.Sprintf("%s/%dHz/%dch", p.Codec, p.SampleRate, p.Channels)
}

// AudioParams probes the first audio stream of a media file.
func (f *FFmpeg) AudioParams(ctx context.Context, path string) (AudioParams, error) {
	cmd := commandContext(ctx, f.ProbePath,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name,sample_rate,channels",
		"-of", "default=noprint_wrappers=1",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return AudioParams{}, fmt.Errorf("ffprobe error: %w", err)
	}

	return parseAudioParams(output)
}

func parseAudioParams(output []byte) (AudioParams, error) {
	var params AudioParams
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		switch key {
		case "codec_name":
			params.Codec = value
		case "sample_rate":
			rate, err := strconv.Atoi(value)
			if err != nil {
				return AudioParams{}, fmt.Errorf("failed to parse sample_rate %q: %w", value, err)
			}
			params.SampleRate = rate
		case "channels":
			channels, err := strconv.Atoi(value)
			if err != nil {
				return AudioParams{}, fmt.Errorf("failed to parse channels %q: %w", value, err)
			}
			params.Channels = channels
		}
	}
	if params.Codec == "" {
		return AudioParams{}, fmt.Errorf("no audio stream found")
	}
	return params, nil
}
