package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/qwazi12/Bassic-Finance/models"
	"github.com/qwazi12/Bassic-Finance/storage"
)

// Blob and local file naming shared with the upstream generators. The
// zero-padded scene index is the sole ordering key end to end.

// SceneImageName returns the file name of scene i's image.
func SceneImageName(i int) string {
	return fmt.Sprintf("scene_%03d.png", i)
}

// NarrationClipName returns the file name of scene i's narration clip.
func NarrationClipName(i int) string {
	return fmt.Sprintf("narration_%03d.mp3", i)
}

// ImageObject returns the blob name of scene i's image under prefix.
func ImageObject(prefix string, i int) string {
	return prefix + SceneImageName(i)
}

// AudioObject returns the blob name of scene i's narration under prefix.
func AudioObject(prefix string, i int) string {
	return prefix + NarrationClipName(i)
}

// FetchService downloads a job's scene assets into scratch storage.
type FetchService struct {
	store         storage.BlobStore
	maxConcurrent int
}

// NewFetchService creates a new fetch service
func NewFetchService(store storage.BlobStore, maxConcurrent int) *FetchService {
	return &FetchService{
		store:         store,
		maxConcurrent: maxConcurrent,
	}
}

// FetchAssets downloads the job's N images and N narration clips into
// the scratch directory, preserving the zero-padded index in the local
// names. Downloads run in parallel under the configured limit; any
// missing blob aborts the whole fetch.
func (fs *FetchService) FetchAssets(ctx context.Context, job *models.AssemblyJob, scratchDir string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fs.maxConcurrent)

	imagesDir := filepath.Join(scratchDir, "images")
	audioDir := filepath.Join(scratchDir, "audio")

	for i := 0; i < job.TotalScenes; i++ {
		g.Go(func() error {
			return fs.fetchOne(ctx, job.ImagesBucket, ImageObject(job.ImagesPath, i),
				filepath.Join(imagesDir, SceneImageName(i)), i, models.AssetImage)
		})
		g.Go(func() error {
			return fs.fetchOne(ctx, job.AudioBucket, AudioObject(job.AudioPath, i),
				filepath.Join(audioDir, NarrationClipName(i)), i, models.AssetAudio)
		})
	}

	return g.Wait()
}

func (fs *FetchService) fetchOne(ctx context.Context, bucket, object, dest string, index int, kind models.AssetKind) error {
	err := fs.store.Download(ctx, bucket, object, dest)
	if errors.Is(err, storage.ErrNotExist) {
		return &models.MissingAssetError{Bucket: bucket, Object: object, Index: index, Kind: kind}
	}
	if err != nil {
		return fmt.Errorf("fetch %s %d: %w", kind, index, err)
	}
	return nil
}
