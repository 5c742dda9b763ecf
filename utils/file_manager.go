package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateScratchDirs creates the job-scoped working directories and
// returns the job's root scratch directory.
func CreateScratchDirs(baseDir, jobID string) (string, error) {
	jobDir := filepath.Join(baseDir, jobID)

	// Create subdirectories
	dirs := []string{
		jobDir,
		filepath.Join(jobDir, "images"),
		filepath.Join(jobDir, "audio"),
		filepath.Join(jobDir, "output"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return jobDir, nil
}

// RemoveScratchDir removes a job's entire working directory tree. It
// runs on every exit path so repeated jobs never leak disk.
func RemoveScratchDir(jobDir string) error {
	return os.RemoveAll(jobDir)
}
