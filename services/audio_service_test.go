package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qwazi12/Bassic-Finance/models"
	"github.com/qwazi12/Bassic-Finance/utils"
)

func TestMergeNarrationRunsStreamCopy(t *testing.T) {
	dir := t.TempDir()
	clips := []string{
		filepath.Join(dir, "narration_000.mp3"),
		filepath.Join(dir, "narration_001.mp3"),
	}
	listPath := filepath.Join(dir, "audio_list.txt")
	outputPath := filepath.Join(dir, "full_audio.mp3")

	stub := &stubTranscoder{}
	as := NewAudioService(stub)

	err := as.MergeNarration(context.Background(), clips, listPath, outputPath)
	require.NoError(t, err)

	require.Len(t, stub.runCalls, 1)
	args := stub.runCalls[0]
	assert.Equal(t, []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y", outputPath,
	}, args)

	list, err := os.ReadFile(listPath)
	require.NoError(t, err)
	want := "file '" + clips[0] + "'\nfile '" + clips[1] + "'\n"
	assert.Equal(t, want, string(list))
}

func TestMergeNarrationMismatchedClips(t *testing.T) {
	dir := t.TempDir()
	clips := []string{
		filepath.Join(dir, "narration_000.mp3"),
		filepath.Join(dir, "narration_001.mp3"),
		filepath.Join(dir, "narration_002.mp3"),
	}

	stub := &stubTranscoder{
		params: map[string]utils.AudioParams{
			clips[0]: {Codec: "mp3", SampleRate: 48000, Channels: 1},
			clips[1]: {Codec: "mp3", SampleRate: 44100, Channels: 1},
			clips[2]: {Codec: "mp3", SampleRate: 48000, Channels: 1},
		},
	}
	as := NewAudioService(stub)

	err := as.MergeNarration(context.Background(),
		clips,
		filepath.Join(dir, "audio_list.txt"),
		filepath.Join(dir, "full_audio.mp3"),
	)
	require.Error(t, err)

	var mergeErr *models.AudioMergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, clips[1], mergeErr.Clip)
	assert.Contains(t, mergeErr.Detail, "44100")

	// Incompatible clips must be rejected before ffmpeg runs.
	assert.Empty(t, stub.runCalls)
}

func TestMergeNarrationFFmpegFailure(t *testing.T) {
	dir := t.TempDir()
	clips := []string{filepath.Join(dir, "narration_000.mp3")}

	stub := &stubTranscoder{
		failOnCall: 1,
		runErr:     &utils.ExecError{Err: errors.New("exit status 1"), Stderr: "invalid data found"},
	}
	as := NewAudioService(stub)

	err := as.MergeNarration(context.Background(),
		clips,
		filepath.Join(dir, "audio_list.txt"),
		filepath.Join(dir, "full_audio.mp3"),
	)
	require.Error(t, err)

	var mergeErr *models.AudioMergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.True(t, strings.Contains(mergeErr.Detail, "invalid data found"))
}

func TestMergeNarrationNoClips(t *testing.T) {
	as := NewAudioService(&stubTranscoder{})

	err := as.MergeNarration(context.Background(), nil, "list.txt", "out.mp3")

	var mergeErr *models.AudioMergeError
	require.ErrorAs(t, err, &mergeErr)
}
