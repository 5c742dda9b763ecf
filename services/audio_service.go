package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/qwazi12/Bassic-Finance/models"
	"github.com/qwazi12/Bassic-Finance/utils"
)

// Transcoder is the slice of ffmpeg behavior the pipeline uses.
// *utils.FFmpeg satisfies it; tests substitute a stub.
type Transcoder interface {
	Run(ctx context.Context, args ...string) error
	Duration(ctx context.Context, path string) (float64, error)
	AudioParams(ctx context.Context, path string) (utils.AudioParams, error)
}

// AudioService concatenates per-scene narration clips into one track.
type AudioService struct {
	ffmpeg Transcoder
}

// NewAudioService creates a new audio service
func NewAudioService(ffmpeg Transcoder) *AudioService {
	return &AudioService{ffmpeg: ffmpeg}
}

// MergeNarration stream-copies the clips, in index order, into
// outputPath. No re-encoding, resampling or padding happens here.
// Stream copy needs uniform codec parameters, so every clip is probed
// first and the first divergent clip is reported by name.
func (as *AudioService) MergeNarration(ctx context.Context, clipPaths []string, listPath, outputPath string) error {
	if len(clipPaths) == 0 {
		return &models.AudioMergeError{Detail: "no narration clips to merge"}
	}

	base, err := as.ffmpeg.AudioParams(ctx, clipPaths[0])
	if err != nil {
		return &models.AudioMergeError{Clip: clipPaths[0], Detail: err.Error()}
	}
	for _, clip := range clipPaths[1:] {
		params, err := as.ffmpeg.AudioParams(ctx, clip)
		if err != nil {
			return &models.AudioMergeError{Clip: clip, Detail: err.Error()}
		}
		if params != base {
			return &models.AudioMergeError{
				Clip:   clip,
				Detail: fmt.Sprintf("codec parameters %s do not match first clip (%s)", params, base),
			}
		}
	}

	if err := writeConcatList(clipPaths, listPath); err != nil {
		return fmt.Errorf("write audio list: %w", err)
	}

	err = as.ffmpeg.Run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y", outputPath,
	)
	if err != nil {
		var execErr *utils.ExecError
		if errors.As(err, &execErr) {
			return &models.AudioMergeError{Detail: execErr.Stderr}
		}
		return &models.AudioMergeError{Detail: err.Error()}
	}
	return nil
}

func writeConcatList(paths []string, listPath string) error {
	var b strings.Builder
	for _, p := range paths {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(p))
	}
	return os.WriteFile(listPath, []byte(b.String()), 0644)
}
