package models

import "time"

// AssembleRequest is the payload the pipeline orchestrator posts to
// /assemble. Field names match the upstream generators' conventions.
type AssembleRequest struct {
	EpisodeNumber    int     `json:"episode_number"`
	EpisodeTitle     string  `json:"episode_title"`
	ImagesBucket     string  `json:"images_bucket" binding:"required"`
	ImagesPath       string  `json:"images_path"`
	AudioBucket      string  `json:"audio_bucket" binding:"required"`
	AudioPath        string  `json:"audio_path"`
	OutputBucket     string  `json:"output_bucket" binding:"required"`
	OutputFilename   string  `json:"output_filename" binding:"required"`
	TotalScenes      int     `json:"total_scenes"`
	DurationPerScene float64 `json:"duration_per_scene"`
	FPS              int     `json:"fps"`
	Resolution       string  `json:"resolution" binding:"required"`
}

// AssembleResponse is returned on a successful assembly.
type AssembleResponse struct {
	Status                string  `json:"status"`
	VideoURL              string  `json:"video_url"`
	VideoSizeMB           float64 `json:"video_size_mb"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

// ErrorResponse is returned on any failed request. Details carries the
// encoder's raw diagnostic output when the failure happened during the
// encode step.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AssemblyJob fully specifies one assembly run. Immutable once built
// from a validated request.
type AssemblyJob struct {
	EpisodeNumber    int
	EpisodeTitle     string
	ImagesBucket     string
	ImagesPath       string
	AudioBucket      string
	AudioPath        string
	OutputBucket     string
	OutputFilename   string
	TotalScenes      int
	DurationPerScene float64
	FPS              int
	Width            int
	Height           int
}

// AssemblyResult is produced once per successful job.
type AssemblyResult struct {
	VideoURL  string
	SizeBytes int64
	Elapsed   time.Duration
}

// EditEntry is one slot in the display timeline. Duration is in
// seconds; it is zero on the trailing repeat of the last image, which
// is written without a duration directive.
type EditEntry struct {
	ImagePath string
	Duration  float64
}

// Stage identifies where in the pipeline a job currently is.
type Stage string

const (
	StageFetching         Stage = "FETCHING"
	StageBuildingTimeline Stage = "BUILDING_TIMELINE"
	StageMergingAudio     Stage = "MERGING_AUDIO"
	StageEncoding         Stage = "ENCODING"
	StagePublishing       Stage = "PUBLISHING"
	StageDone             Stage = "DONE"
	StageFailed           Stage = "FAILED"
)
