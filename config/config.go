package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Length-mismatch policies for the encode stage. Truncate clamps the
// output to the shorter of the visual timeline and the narration track;
// Error rejects the job before encoding when the two disagree by more
// than one frame interval.
const (
	PolicyTruncate = "truncate"
	PolicyError    = "error"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port    string
	TempDir string

	// External tools
	FFmpegPath  string
	FFprobePath string

	// Fetch stage
	MaxConcurrentFetches int

	// Encode settings
	VideoPreset          string
	VideoCRF             int
	PixelFormat          string
	AudioBitrate         string
	AudioSampleRate      int
	LengthMismatchPolicy string

	// Optional notification service endpoint (empty disables it)
	NotifyServiceURL string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		TempDir: getEnv("TEMP_DIR", os.TempDir()),

		FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getEnv("FFPROBE_PATH", "ffprobe"),

		MaxConcurrentFetches: getEnvAsInt("MAX_CONCURRENT_FETCHES", 8),

		VideoPreset:          getEnv("VIDEO_PRESET", "medium"),
		VideoCRF:             getEnvAsInt("VIDEO_CRF", 21),
		PixelFormat:          getEnv("PIXEL_FORMAT", "yuv420p"),
		AudioBitrate:         getEnv("AUDIO_BITRATE", "192k"),
		AudioSampleRate:      getEnvAsInt("AUDIO_SAMPLE_RATE", 48000),
		LengthMismatchPolicy: getEnv("LENGTH_MISMATCH_POLICY", PolicyTruncate),

		NotifyServiceURL: getEnv("NOTIFY_SERVICE_URL", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.TempDir == "" {
		return errors.New("TEMP_DIR must not be empty")
	}
	if c.MaxConcurrentFetches <= 0 {
		return errors.New("MAX_CONCURRENT_FETCHES must be positive")
	}
	if c.VideoCRF < 0 || c.VideoCRF > 51 {
		return errors.New("VIDEO_CRF must be between 0 and 51")
	}
	if c.AudioSampleRate <= 0 {
		return errors.New("AUDIO_SAMPLE_RATE must be positive")
	}
	if c.LengthMismatchPolicy != PolicyTruncate && c.LengthMismatchPolicy != PolicyError {
		return fmt.Errorf("LENGTH_MISMATCH_POLICY must be %q or %q", PolicyTruncate, PolicyError)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, TempDir: %s, Fetches: %d, CRF: %d, Policy: %s}",
		c.Port, c.TempDir, c.MaxConcurrentFetches, c.VideoCRF, c.LengthMismatchPolicy)
}
