package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwazi12/Bassic-Finance/config"
	"github.com/qwazi12/Bassic-Finance/models"
)

func newTestEncodeService(ffmpeg Transcoder, policy string) *EncodeService {
	return NewEncodeService(ffmpeg, "medium", 21, "yuv420p", "192k", 48000, policy)
}

func TestBuildArgs(t *testing.T) {
	es := newTestEncodeService(&stubTranscoder{}, config.PolicyTruncate)
	job := testJob(3)

	args := es.BuildArgs(job, "/scratch/concat.txt", "/scratch/full_audio.mp3", "/scratch/output/final.mp4")

	assert.Equal(t, []string{
		"-f", "concat",
		"-safe", "0",
		"-i", "/scratch/concat.txt",
		"-i", "/scratch/full_audio.mp3",
		"-vf", "scale=1920:1080,fps=24",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "21",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-ar", "48000",
		"-movflags", "+faststart",
		"-shortest",
		"-y", "/scratch/output/final.mp4",
	}, args)

	// Identical jobs must encode with identical parameters.
	again := es.BuildArgs(job, "/scratch/concat.txt", "/scratch/full_audio.mp3", "/scratch/output/final.mp4")
	assert.Equal(t, args, again)
}

func TestBuildArgsErrorPolicyOmitsShortest(t *testing.T) {
	es := newTestEncodeService(&stubTranscoder{}, config.PolicyError)
	args := es.BuildArgs(testJob(3), "c.txt", "a.mp3", "out.mp4")
	assert.NotContains(t, args, "-shortest")
}

func TestEncodeErrorCarriesStderr(t *testing.T) {
	stub := &stubTranscoder{failOnCall: 1}
	es := newTestEncodeService(stub, config.PolicyTruncate)

	err := es.Encode(context.Background(), testJob(3), "c.txt", "a.mp3", "out.mp4")
	require.Error(t, err)

	var encodeErr *models.EncodeError
	require.ErrorAs(t, err, &encodeErr)
	assert.Equal(t, "stub failure", encodeErr.Stderr)
}

func TestEncodeLengthMismatchPolicy(t *testing.T) {
	tests := []struct {
		name          string
		audioDuration float64
		wantErr       bool
	}{
		// Nominal timeline is 3 scenes x 5s = 15s at 24 fps.
		{name: "Exact match", audioDuration: 15.0, wantErr: false},
		{name: "Within one frame", audioDuration: 15.03, wantErr: false},
		{name: "Audio too long", audioDuration: 20.0, wantErr: true},
		{name: "Audio too short", audioDuration: 12.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubTranscoder{
				durations: map[string]float64{"a.mp3": tt.audioDuration},
			}
			es := newTestEncodeService(stub, config.PolicyError)

			err := es.Encode(context.Background(), testJob(3), "c.txt", "a.mp3", "out.mp4")
			if tt.wantErr {
				require.Error(t, err)
				var encodeErr *models.EncodeError
				assert.False(t, errors.As(err, &encodeErr), "mismatch should be rejected before encoding")
				assert.Empty(t, stub.runCalls)
			} else {
				require.NoError(t, err)
				assert.Len(t, stub.runCalls, 1)
			}
		})
	}
}
