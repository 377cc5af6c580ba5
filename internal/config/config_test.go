package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vastu-inspector/internal/analyzer"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, RecognizerTesseract, cfg.Recognizer)
	assert.False(t, cfg.AzureEnabled())
	assert.Equal(t, analyzer.DefaultOptions(), cfg.PipelineOptions())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CONFIDENCE_THRESHOLD", "60")
	t.Setenv("LINE_TOLERANCE", "15")
	t.Setenv("MERGE_RATIO", "0.5")
	t.Setenv("LUMINANCE_THRESHOLD", "128")
	t.Setenv("CANVAS_SCALE", "1.5")
	t.Setenv("BINARIZE", "false")
	t.Setenv("CROP_TO_PLAN", "true")
	t.Setenv("FUZZY_ALIAS_DISTANCE", "0")
	t.Setenv("RECOGNIZER", "REMOTE")
	t.Setenv("REMOTE_OCR_URL", "http://ocr.internal:5000/words")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "plans")
	t.Setenv("AZURE_STORAGE_KEY", "c2VjcmV0")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	opts := cfg.PipelineOptions()
	assert.Equal(t, 60.0, opts.ConfidenceThreshold)
	assert.Equal(t, 15.0, opts.LineTolerance)
	assert.Equal(t, 0.5, opts.MergeRatio)
	assert.Equal(t, uint8(128), opts.LuminanceThreshold)
	assert.Equal(t, 1.5, opts.CanvasScale)
	assert.False(t, opts.Binarize)
	assert.True(t, opts.CropToPlan)
	assert.Equal(t, 0, opts.FuzzyAliasDistance)
	assert.Equal(t, RecognizerRemote, cfg.Recognizer)
	assert.True(t, cfg.AzureEnabled())
	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddress())
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port", map[string]string{"PORT": "http"}, "invalid PORT"},
		{"body size", map[string]string{"MAX_REQUEST_BODY_SIZE": "0"}, "MAX_REQUEST_BODY_SIZE"},
		{"confidence", map[string]string{"CONFIDENCE_THRESHOLD": "150"}, "CONFIDENCE_THRESHOLD"},
		{"luminance", map[string]string{"LUMINANCE_THRESHOLD": "300"}, "LUMINANCE_THRESHOLD"},
		{"scale", map[string]string{"CANVAS_SCALE": "-1"}, "CANVAS_SCALE"},
		{"recognizer", map[string]string{"RECOGNIZER": "easyocr"}, "RECOGNIZER"},
		{"remote without url", map[string]string{"RECOGNIZER": "remote"}, "REMOTE_OCR_URL"},
		{"half azure", map[string]string{"AZURE_STORAGE_ACCOUNT": "plans"}, "AZURE_STORAGE"},
		{"workers", map[string]string{"MAX_WORKERS": "0"}, "MAX_WORKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseHelpers_IgnoreGarbage(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("BINARIZE", "maybe")
	t.Setenv("MERGE_RATIO", "wide")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Binarize)
	assert.Equal(t, 0.9, cfg.MergeRatio)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("VASTU_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("VASTU_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("VASTU_TEST_DOTENV"))
}
