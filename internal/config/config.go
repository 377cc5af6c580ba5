package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go-vastu-inspector/internal/analyzer"
)

// Recognizer backends
const (
	RecognizerTesseract = "tesseract"
	RecognizerRemote    = "remote"
)

type Config struct {
	// Server
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64
	LogLevel           string

	// Pipeline
	ConfidenceThreshold float64
	LineTolerance       float64
	MergeRatio          float64
	LuminanceThreshold  int64
	CanvasScale         float64
	Binarize            bool
	CropToPlan          bool
	MinPhraseLength     int64
	FuzzyAliasDistance  int64

	// Recognizer
	Recognizer   string
	OCRLanguage  string
	RemoteOCRURL string

	// Storage
	AzureStorageAccount string
	AzureStorageKey     string

	// Annotation
	MarkerColor string
	GridColor   string

	// Batch
	MaxWorkers   int64
	MaxBatchSize int64
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob storage credentials are configured
func (c *Config) AzureEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

// PipelineOptions converts the pipeline settings into analyzer options
func (c *Config) PipelineOptions() analyzer.AnalysisOptions {
	return analyzer.AnalysisOptions{
		CanvasScale:         c.CanvasScale,
		Binarize:            c.Binarize,
		LuminanceThreshold:  uint8(c.LuminanceThreshold),
		CropToPlan:          c.CropToPlan,
		ConfidenceThreshold: c.ConfidenceThreshold,
		LineTolerance:       c.LineTolerance,
		MergeRatio:          c.MergeRatio,
		MinPhraseLength:     int(c.MinPhraseLength),
		FuzzyAliasDistance:  int(c.FuzzyAliasDistance),
	}
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func LoadFromEnv() (*Config, error) {
	defaults := analyzer.DefaultOptions()

	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 45*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 20*1024*1024), // 20MB
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),

		ConfidenceThreshold: parseFloatOrDefault("CONFIDENCE_THRESHOLD", defaults.ConfidenceThreshold),
		LineTolerance:       parseFloatOrDefault("LINE_TOLERANCE", defaults.LineTolerance),
		MergeRatio:          parseFloatOrDefault("MERGE_RATIO", defaults.MergeRatio),
		LuminanceThreshold:  parseIntOrDefault("LUMINANCE_THRESHOLD", int64(defaults.LuminanceThreshold)),
		CanvasScale:         parseFloatOrDefault("CANVAS_SCALE", defaults.CanvasScale),
		Binarize:            parseBoolOrDefault("BINARIZE", defaults.Binarize),
		CropToPlan:          parseBoolOrDefault("CROP_TO_PLAN", defaults.CropToPlan),
		MinPhraseLength:     parseIntOrDefault("MIN_PHRASE_LENGTH", int64(defaults.MinPhraseLength)),
		FuzzyAliasDistance:  parseIntOrDefault("FUZZY_ALIAS_DISTANCE", int64(defaults.FuzzyAliasDistance)),

		Recognizer:   strings.ToLower(getEnvOrDefault("RECOGNIZER", RecognizerTesseract)),
		OCRLanguage:  getEnvOrDefault("OCR_LANGUAGE", "eng"),
		RemoteOCRURL: os.Getenv("REMOTE_OCR_URL"),

		AzureStorageAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:     os.Getenv("AZURE_STORAGE_KEY"),

		MarkerColor: getEnvOrDefault("MARKER_COLOR", "#00C853"),
		GridColor:   getEnvOrDefault("GRID_COLOR", "#FF1744"),

		MaxWorkers:   parseIntOrDefault("MAX_WORKERS", 4),
		MaxBatchSize: parseIntOrDefault("MAX_BATCH_SIZE", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field requirements
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.AnalysisTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.AnalysisTimeout)
	}

	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be within 0-100 (got %g)", c.ConfidenceThreshold)
	}
	if c.LineTolerance <= 0 {
		return fmt.Errorf("LINE_TOLERANCE must be > 0 (got %g)", c.LineTolerance)
	}
	if c.MergeRatio <= 0 {
		return fmt.Errorf("MERGE_RATIO must be > 0 (got %g)", c.MergeRatio)
	}
	if c.LuminanceThreshold < 0 || c.LuminanceThreshold > 255 {
		return fmt.Errorf("LUMINANCE_THRESHOLD must be within 0-255 (got %d)", c.LuminanceThreshold)
	}
	if c.CanvasScale <= 0 || c.CanvasScale > 8 {
		return fmt.Errorf("CANVAS_SCALE must be within (0, 8] (got %g)", c.CanvasScale)
	}
	if c.MinPhraseLength < 1 {
		return fmt.Errorf("MIN_PHRASE_LENGTH must be >= 1 (got %d)", c.MinPhraseLength)
	}
	if c.FuzzyAliasDistance < 0 || c.FuzzyAliasDistance > 3 {
		return fmt.Errorf("FUZZY_ALIAS_DISTANCE must be within 0-3 (got %d)", c.FuzzyAliasDistance)
	}

	switch c.Recognizer {
	case RecognizerTesseract:
	case RecognizerRemote:
		u, err := url.Parse(c.RemoteOCRURL)
		if c.RemoteOCRURL == "" || err != nil || u.Host == "" {
			return fmt.Errorf("REMOTE_OCR_URL must be an absolute URL when RECOGNIZER=remote (got %q)", c.RemoteOCRURL)
		}
	default:
		return fmt.Errorf("RECOGNIZER must be %q or %q (got %q)", RecognizerTesseract, RecognizerRemote, c.Recognizer)
	}

	if (c.AzureStorageAccount == "") != (c.AzureStorageKey == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}

	if c.MaxWorkers < 1 {
		return fmt.Errorf("MAX_WORKERS must be >= 1 (got %d)", c.MaxWorkers)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("MAX_BATCH_SIZE must be >= 1 (got %d)", c.MaxBatchSize)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
