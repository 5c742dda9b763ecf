package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qwazi12/Bassic-Finance/models"
)

// NotifyService reports job outcomes to the notification service, which
// owns the Slack formatting. Notifications are best effort: a failure
// here is logged and never fails the job. An empty service URL disables
// notifications entirely.
type NotifyService struct {
	serviceURL string
	httpClient *http.Client
}

// NewNotifyService creates a new notify service
func NewNotifyService(serviceURL string) *NotifyService {
	return &NotifyService{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type notifyPayload struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	VideoURL string `json:"video_url,omitempty"`
	Status   string `json:"status"`
}

// NotifySuccess reports a finished episode.
func (ns *NotifyService) NotifySuccess(ctx context.Context, job *models.AssemblyJob, result *models.AssemblyResult) {
	ns.send(ctx, notifyPayload{
		Title: fmt.Sprintf("Episode %d Video Ready", job.EpisodeNumber),
		Message: fmt.Sprintf("%q assembled in %.1fs (%.2f MB).",
			job.EpisodeTitle, result.Elapsed.Seconds(), float64(result.SizeBytes)/(1024*1024)),
		VideoURL: result.VideoURL,
		Status:   "success",
	})
}

// NotifyFailure reports a failed assembly.
func (ns *NotifyService) NotifyFailure(ctx context.Context, job *models.AssemblyJob, jobErr error) {
	ns.send(ctx, notifyPayload{
		Title:   fmt.Sprintf("Episode %d Assembly Failed", job.EpisodeNumber),
		Message: jobErr.Error(),
		Status:  "error",
	})
}

func (ns *NotifyService) send(ctx context.Context, payload notifyPayload) {
	if ns.serviceURL == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Warn("failed to marshal notification")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ns.serviceURL+"/notify", bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).Warn("failed to build notification request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ns.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("notification failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Warn("notification rejected")
	}
}
