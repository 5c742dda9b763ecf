package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qwazi12/Bassic-Finance/models"
)

// Assembler runs one job to completion.
type Assembler interface {
	Run(ctx context.Context, job *models.AssemblyJob) (*models.AssemblyResult, error)
}

// Notifier reports job outcomes; implementations may be no-ops.
type Notifier interface {
	NotifySuccess(ctx context.Context, job *models.AssemblyJob, result *models.AssemblyResult)
	NotifyFailure(ctx context.Context, job *models.AssemblyJob, err error)
}

// AssembleHandler serves the synchronous assembly endpoint.
type AssembleHandler struct {
	assembler Assembler
	notifier  Notifier
}

// NewAssembleHandler creates a new assemble handler
func NewAssembleHandler(assembler Assembler, notifier Notifier) *AssembleHandler {
	return &AssembleHandler{
		assembler: assembler,
		notifier:  notifier,
	}
}

// Assemble handles POST /assemble. The call is synchronous: the
// response is sent only after the job has fully succeeded or failed.
// The caller's request deadline is the only cancellation mechanism.
func (h *AssembleHandler) Assemble(c *gin.Context) {
	var req models.AssembleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	job, err := jobFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.assembler.Run(c.Request.Context(), job)
	if err != nil {
		h.notifier.NotifyFailure(c.Request.Context(), job, err)
		c.JSON(http.StatusInternalServerError, errorBody(err))
		return
	}

	h.notifier.NotifySuccess(c.Request.Context(), job, result)
	c.JSON(http.StatusOK, models.AssembleResponse{
		Status:                "success",
		VideoURL:              result.VideoURL,
		VideoSizeMB:           math.Round(float64(result.SizeBytes)/(1024*1024)*100) / 100,
		ProcessingTimeSeconds: math.Round(result.Elapsed.Seconds()*10) / 10,
	})
}

// Health handles GET /health.
func (h *AssembleHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "video-assembler",
	})
}

// jobFromRequest validates the request and builds the immutable job.
func jobFromRequest(req *models.AssembleRequest) (*models.AssemblyJob, error) {
	if req.TotalScenes < 1 {
		return nil, errors.New("total_scenes must be at least 1")
	}
	if req.DurationPerScene <= 0 {
		return nil, errors.New("duration_per_scene must be positive")
	}
	if req.FPS < 1 {
		return nil, errors.New("fps must be at least 1")
	}
	width, height, err := parseResolution(req.Resolution)
	if err != nil {
		return nil, err
	}

	return &models.AssemblyJob{
		EpisodeNumber:    req.EpisodeNumber,
		EpisodeTitle:     req.EpisodeTitle,
		ImagesBucket:     req.ImagesBucket,
		ImagesPath:       req.ImagesPath,
		AudioBucket:      req.AudioBucket,
		AudioPath:        req.AudioPath,
		OutputBucket:     req.OutputBucket,
		OutputFilename:   req.OutputFilename,
		TotalScenes:      req.TotalScenes,
		DurationPerScene: req.DurationPerScene,
		FPS:              req.FPS,
		Width:            width,
		Height:           height,
	}, nil
}

func parseResolution(resolution string) (int, int, error) {
	widthStr, heightStr, found := strings.Cut(resolution, "x")
	if !found {
		return 0, 0, fmt.Errorf("resolution must look like \"1920x1080\", got %q", resolution)
	}
	width, err := strconv.Atoi(widthStr)
	if err != nil || width < 1 {
		return 0, 0, fmt.Errorf("invalid resolution width %q", widthStr)
	}
	height, err := strconv.Atoi(heightStr)
	if err != nil || height < 1 {
		return 0, 0, fmt.Errorf("invalid resolution height %q", heightStr)
	}
	return width, height, nil
}

// errorBody shapes a job failure for the caller. Encode failures carry
// the encoder's stderr in details so the operator can diagnose and
// resubmit.
func errorBody(err error) models.ErrorResponse {
	var encodeErr *models.EncodeError
	if errors.As(err, &encodeErr) {
		return models.ErrorResponse{Error: "video assembly failed", Details: encodeErr.Stderr}
	}
	return models.ErrorResponse{Error: err.Error()}
}
