package services

import (
	"context"
	"fmt"

	"github.com/qwazi12/Bassic-Finance/models"
	"github.com/qwazi12/Bassic-Finance/storage"
)

// PublishService uploads the finished video and reports its stored size.
type PublishService struct {
	store storage.BlobStore
}

// NewPublishService creates a new publish service
func NewPublishService(store storage.BlobStore) *PublishService {
	return &PublishService{store: store}
}

// Publish uploads localPath to final/<output_filename> in the job's
// output bucket. The reported size comes from the store's own object
// metadata so a short or corrupt upload cannot pass for the local
// file's size.
func (ps *PublishService) Publish(ctx context.Context, job *models.AssemblyJob, localPath string) (string, int64, error) {
	object := "final/" + job.OutputFilename

	if err := ps.store.Upload(ctx, job.OutputBucket, object, localPath); err != nil {
		return "", 0, &models.PublishError{Bucket: job.OutputBucket, Object: object, Err: err}
	}

	size, err := ps.store.Size(ctx, job.OutputBucket, object)
	if err != nil {
		return "", 0, &models.PublishError{Bucket: job.OutputBucket, Object: object, Err: err}
	}

	return fmt.Sprintf("gs://%s/%s", job.OutputBucket, object), size, nil
}
