package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qwazi12/Bassic-Finance/models"
)

// TimelineService builds the fixed-duration display timeline for a job.
type TimelineService struct{}

// NewTimelineService creates a new timeline service
func NewTimelineService() *TimelineService {
	return &TimelineService{}
}

// BuildEditList returns the ordered edit list: one entry per scene with
// the job's fixed display duration, plus a trailing repeat of the last
// image without a duration. The concat demuxer ignores a duration
// directive on the final listed file, so the repeat is what keeps the
// last scene on screen for its full slot.
func (ts *TimelineService) BuildEditList(job *models.AssemblyJob, imagesDir string) []models.EditEntry {
	entries := make([]models.EditEntry, 0, job.TotalScenes+1)
	for i := 0; i < job.TotalScenes; i++ {
		entries = append(entries, models.EditEntry{
			ImagePath: filepath.Join(imagesDir, SceneImageName(i)),
			Duration:  job.DurationPerScene,
		})
	}
	entries = append(entries, models.EditEntry{
		ImagePath: entries[len(entries)-1].ImagePath,
	})
	return entries
}

// WriteConcatFile serializes the edit list in concat-demuxer syntax.
func (ts *TimelineService) WriteConcatFile(entries []models.EditEntry, path string) error {
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(entry.ImagePath))
		if entry.Duration > 0 {
			fmt.Fprintf(&b, "duration %g\n", entry.Duration)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write concat file: %w", err)
	}
	return nil
}

// escapeConcatPath escapes single quotes for the concat demuxer's
// quoted file syntax.
func escapeConcatPath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
