package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/qwazi12/Bassic-Finance/config"
	"github.com/qwazi12/Bassic-Finance/models"
	"github.com/qwazi12/Bassic-Finance/storage"
	"github.com/qwazi12/Bassic-Finance/utils"
)

// Assembler runs one assembly job through the stage sequence
// FETCHING -> BUILDING_TIMELINE -> MERGING_AUDIO -> ENCODING ->
// PUBLISHING -> DONE. Any stage failure aborts the job; nothing is
// retried or resumed, and no partial video is ever published.
type Assembler struct {
	fetcher   *FetchService
	timeline  *TimelineService
	audio     *AudioService
	encoder   *EncodeService
	publisher *PublishService
	tempDir   string
}

// NewAssembler wires the stage services from process-level dependencies.
func NewAssembler(cfg *config.Config, store storage.BlobStore, ffmpeg Transcoder) *Assembler {
	return &Assembler{
		fetcher:  NewFetchService(store, cfg.MaxConcurrentFetches),
		timeline: NewTimelineService(),
		audio:    NewAudioService(ffmpeg),
		encoder: NewEncodeService(
			ffmpeg,
			cfg.VideoPreset,
			cfg.VideoCRF,
			cfg.PixelFormat,
			cfg.AudioBitrate,
			cfg.AudioSampleRate,
			cfg.LengthMismatchPolicy,
		),
		publisher: NewPublishService(store),
		tempDir:   cfg.TempDir,
	}
}

// Run executes one job to completion. Jobs are independent: each gets
// its own scratch directory, which is removed on every exit path.
func (a *Assembler) Run(ctx context.Context, job *models.AssemblyJob) (*models.AssemblyResult, error) {
	start := time.Now()
	jobID := uuid.New().String()
	log := logrus.WithFields(logrus.Fields{
		"job_id":  jobID,
		"episode": job.EpisodeNumber,
	})

	scratchDir, err := utils.CreateScratchDirs(a.tempDir, jobID)
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if rmErr := utils.RemoveScratchDir(scratchDir); rmErr != nil {
			log.WithError(rmErr).Warn("failed to remove scratch dir")
		}
	}()

	log.WithField("stage", models.StageFetching).Infof("downloading %d scene images and narration clips", job.TotalScenes)
	if err := a.fetcher.FetchAssets(ctx, job, scratchDir); err != nil {
		return nil, a.failed(log, models.StageFetching, err)
	}

	log.WithField("stage", models.StageBuildingTimeline).Info("building display timeline")
	entries := a.timeline.BuildEditList(job, filepath.Join(scratchDir, "images"))
	concatFile := filepath.Join(scratchDir, "concat.txt")
	if err := a.timeline.WriteConcatFile(entries, concatFile); err != nil {
		return nil, a.failed(log, models.StageBuildingTimeline, err)
	}

	log.WithField("stage", models.StageMergingAudio).Info("merging narration clips")
	clips := make([]string, job.TotalScenes)
	for i := range clips {
		clips[i] = filepath.Join(scratchDir, "audio", NarrationClipName(i))
	}
	audioList := filepath.Join(scratchDir, "audio_list.txt")
	fullAudio := filepath.Join(scratchDir, "full_audio.mp3")
	if err := a.audio.MergeNarration(ctx, clips, audioList, fullAudio); err != nil {
		return nil, a.failed(log, models.StageMergingAudio, err)
	}

	log.WithField("stage", models.StageEncoding).Info("encoding final video")
	outputPath := filepath.Join(scratchDir, "output", job.OutputFilename)
	if err := a.encoder.Encode(ctx, job, concatFile, fullAudio, outputPath); err != nil {
		return nil, a.failed(log, models.StageEncoding, err)
	}

	log.WithField("stage", models.StagePublishing).Info("uploading final video")
	videoURL, size, err := a.publisher.Publish(ctx, job, outputPath)
	if err != nil {
		return nil, a.failed(log, models.StagePublishing, err)
	}

	result := &models.AssemblyResult{
		VideoURL:  videoURL,
		SizeBytes: size,
		Elapsed:   time.Since(start),
	}
	log.WithFields(logrus.Fields{
		"stage":     models.StageDone,
		"video_url": result.VideoURL,
		"size_mb":   fmt.Sprintf("%.2f", float64(result.SizeBytes)/(1024*1024)),
		"elapsed":   result.Elapsed.Round(time.Millisecond),
	}).Info("assembly complete")
	return result, nil
}

func (a *Assembler) failed(log *logrus.Entry, stage models.Stage, err error) error {
	log.WithFields(logrus.Fields{
		"stage":        models.StageFailed,
		"failed_stage": stage,
	}).WithError(err).Error("assembly failed")
	return err
}
