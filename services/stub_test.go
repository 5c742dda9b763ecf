package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/qwazi12/Bassic-Finance/models"
	"github.com/qwazi12/Bassic-Finance/storage"
	"github.com/qwazi12/Bassic-Finance/utils"
)

// stubTranscoder stands in for the external ffmpeg/ffprobe binaries.
type stubTranscoder struct {
	mu          sync.Mutex
	runCalls    [][]string
	failOnCall  int   // 1-based Run call that fails; 0 never fails
	runErr      error // error returned on the failing call
	writeOutput bool  // write a small file at the last argument on success
	durations   map[string]float64
	params      map[string]utils.AudioParams
	paramsErr   map[string]error
}

func (s *stubTranscoder) Run(_ context.Context, args ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runCalls = append(s.runCalls, args)
	if s.failOnCall != 0 && len(s.runCalls) == s.failOnCall {
		if s.runErr != nil {
			return s.runErr
		}
		return &utils.ExecError{Err: errors.New("exit status 1"), Stderr: "stub failure"}
	}
	if s.writeOutput {
		return os.WriteFile(args[len(args)-1], []byte("stub"), 0644)
	}
	return nil
}

func (s *stubTranscoder) Duration(_ context.Context, path string) (float64, error) {
	if d, ok := s.durations[path]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("no duration stubbed for %s", path)
}

func (s *stubTranscoder) AudioParams(_ context.Context, path string) (utils.AudioParams, error) {
	if err, ok := s.paramsErr[path]; ok {
		return utils.AudioParams{}, err
	}
	if p, ok := s.params[path]; ok {
		return p, nil
	}
	return utils.AudioParams{Codec: "mp3", SampleRate: 48000, Channels: 1}, nil
}

// fakeStore is an in-memory blob store.
type fakeStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	uploads   []string
	uploadErr error
	sizeErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: make(map[string][]byte)}
}

func blobKey(bucket, object string) string {
	return bucket + "/" + object
}

func (f *fakeStore) put(bucket, object string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[blobKey(bucket, object)] = data
}

func (f *fakeStore) Download(_ context.Context, bucket, object, dest string) error {
	f.mu.Lock()
	data, ok := f.blobs[blobKey(bucket, object)]
	f.mu.Unlock()
	if !ok {
		return storage.ErrNotExist
	}
	return os.WriteFile(dest, data, 0644)
}

func (f *fakeStore) Upload(_ context.Context, bucket, object, src string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[blobKey(bucket, object)] = data
	f.uploads = append(f.uploads, blobKey(bucket, object))
	return nil
}

func (f *fakeStore) Size(_ context.Context, bucket, object string) (int64, error) {
	if f.sizeErr != nil {
		return 0, f.sizeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[blobKey(bucket, object)]
	if !ok {
		return 0, fmt.Errorf("object %s not found", blobKey(bucket, object))
	}
	return int64(len(data)), nil
}

// testJob returns a small, fully populated job for tests.
func testJob(totalScenes int) *models.AssemblyJob {
	return &models.AssemblyJob{
		EpisodeNumber:    1,
		EpisodeTitle:     "Your Life as a Hedge Fund Analyst",
		ImagesBucket:     "bass-ic-images",
		ImagesPath:       "episode_001/",
		AudioBucket:      "bass-ic-audio",
		AudioPath:        "episode_001/",
		OutputBucket:     "bass-ic-videos",
		OutputFilename:   "hedge_fund_analyst_ep001.mp4",
		TotalScenes:      totalScenes,
		DurationPerScene: 5,
		FPS:              24,
		Width:            1920,
		Height:           1080,
	}
}
