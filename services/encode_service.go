package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/qwazi12/Bassic-Finance/config"
	"github.com/qwazi12/Bassic-Finance/models"
	"github.com/qwazi12/Bassic-Finance/utils"
)

// EncodeService renders the display timeline against the merged
// narration track into a single MP4.
type EncodeService struct {
	ffmpeg               Transcoder
	preset               string
	crf                  int
	pixelFormat          string
	audioBitrate         string
	audioSampleRate      int
	lengthMismatchPolicy string
}

// NewEncodeService creates a new encode service
func NewEncodeService(ffmpeg Transcoder, preset string, crf int, pixelFormat, audioBitrate string, audioSampleRate int, lengthMismatchPolicy string) *EncodeService {
	return &EncodeService{
		ffmpeg:               ffmpeg,
		preset:               preset,
		crf:                  crf,
		pixelFormat:          pixelFormat,
		audioBitrate:         audioBitrate,
		audioSampleRate:      audioSampleRate,
		lengthMismatchPolicy: lengthMismatchPolicy,
	}
}

// Encode produces outputPath from the concat file and narration track.
// Under the "error" policy, a narration track that disagrees with the
// nominal timeline length by more than one frame interval rejects the
// job before any encoding starts.
func (es *EncodeService) Encode(ctx context.Context, job *models.AssemblyJob, concatFile, audioPath, outputPath string) error {
	if es.lengthMismatchPolicy == config.PolicyError {
		audioDuration, err := es.ffmpeg.Duration(ctx, audioPath)
		if err != nil {
			return fmt.Errorf("probe merged audio: %w", err)
		}
		nominal := float64(job.TotalScenes) * job.DurationPerScene
		frameInterval := 1.0 / float64(job.FPS)
		if math.Abs(audioDuration-nominal) > frameInterval {
			return fmt.Errorf("timeline is %.2fs but narration is %.2fs; lengths must agree within one frame under the %q policy",
				nominal, audioDuration, config.PolicyError)
		}
	}

	args := es.BuildArgs(job, concatFile, audioPath, outputPath)
	if err := es.ffmpeg.Run(ctx, args...); err != nil {
		var execErr *utils.ExecError
		if errors.As(err, &execErr) {
			return &models.EncodeError{Stderr: execErr.Stderr}
		}
		return &models.EncodeError{Stderr: err.Error()}
	}
	return nil
}

// BuildArgs returns the complete ffmpeg invocation for a job. The
// arguments are a pure function of the job and the encode settings, so
// identical jobs encode with identical parameters.
func (es *EncodeService) BuildArgs(job *models.AssemblyJob, concatFile, audioPath, outputPath string) []string {
	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", concatFile,
		"-i", audioPath,
		"-vf", fmt.Sprintf("scale=%d:%d,fps=%d", job.Width, job.Height, job.FPS),
		"-c:v", "libx264",
		"-preset", es.preset,
		"-crf", strconv.Itoa(es.crf),
		"-pix_fmt", es.pixelFormat,
		"-c:a", "aac",
		"-b:a", es.audioBitrate,
		"-ar", strconv.Itoa(es.audioSampleRate),
		"-movflags", "+faststart",
	}
	if es.lengthMismatchPolicy == config.PolicyTruncate {
		args = append(args, "-shortest")
	}
	args = append(args, "-y", outputPath)
	return args
}
