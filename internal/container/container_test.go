package container

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/internal/config"
)

func testConfig(t *testing.T, ocrURL string) *config.Config {
	t.Helper()
	opts := analyzer.DefaultOptions()
	return &config.Config{
		Host:                "127.0.0.1",
		Port:                "8080",
		RequestTimeout:      5 * time.Second,
		ImageFetchTimeout:   5 * time.Second,
		AnalysisTimeout:     5 * time.Second,
		MaxRequestBodySize:  1 << 20,
		ConfidenceThreshold: opts.ConfidenceThreshold,
		LineTolerance:       opts.LineTolerance,
		MergeRatio:          opts.MergeRatio,
		LuminanceThreshold:  int64(opts.LuminanceThreshold),
		CanvasScale:         opts.CanvasScale,
		Binarize:            opts.Binarize,
		MinPhraseLength:     int64(opts.MinPhraseLength),
		FuzzyAliasDistance:  int64(opts.FuzzyAliasDistance),
		Recognizer:          config.RecognizerRemote,
		RemoteOCRURL:        ocrURL,
		MarkerColor:         "#00C853",
		GridColor:           "#FF1744",
		MaxWorkers:          2,
		MaxBatchSize:        5,
	}
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig(t, "http://ocr.internal:9000/recognize")
	require.NoError(t, cfg.Validate())

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Same(t, cfg, c.Config())
	assert.NotNil(t, c.Service())

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recognizer":"remote"`)
}

func TestNewContainer_InvalidColors(t *testing.T) {
	cfg := testConfig(t, "http://ocr.internal:9000/recognize")
	cfg.MarkerColor = "green"

	_, err := NewContainer(cfg)
	assert.Error(t, err)
}
