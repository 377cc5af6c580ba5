package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/internal/config"
	"go-vastu-inspector/internal/recognizer"
	"go-vastu-inspector/internal/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		ImageFetchTimeout:   time.Second,
		AnalysisTimeout:     time.Second,
		MaxRequestBodySize:  1 << 20,
		OCRLanguage:         "eng",
		RemoteOCRURL:        "http://ocr.local/words",
		CanvasScale:         2,
		Binarize:            true,
		LuminanceThreshold:  115,
		ConfidenceThreshold: 70,
		LineTolerance:       20,
		MergeRatio:          0.9,
		MinPhraseLength:     3,
		FuzzyAliasDistance:  1,
	}
}

func TestRecognizerFactory(t *testing.T) {
	f := NewRecognizerFactory(testConfig())

	tess, err := f.CreateRecognizer(TesseractRecognizer)
	require.NoError(t, err)
	assert.IsType(t, &recognizer.Tesseract{}, tess)

	remote, err := f.CreateRecognizer(RemoteRecognizer)
	require.NoError(t, err)
	assert.IsType(t, &recognizer.Remote{}, remote)

	static, err := f.CreateRecognizer(StaticRecognizer)
	require.NoError(t, err)
	assert.IsType(t, &recognizer.Static{}, static)

	_, err = f.CreateRecognizer("easyocr")
	assert.Error(t, err)
}

func TestStorageFactory(t *testing.T) {
	cfg := testConfig()
	f := NewStorageFactory(cfg)

	fetcher, err := f.CreateStorage(HTTPStorage)
	require.NoError(t, err)
	assert.IsType(t, &storage.HTTPPlanFetcher{}, fetcher)

	_, err = f.CreateStorage(AzureStorage)
	assert.Error(t, err, "azure needs credentials")

	_, err = f.CreateStorage("local")
	assert.Error(t, err)
}

func TestComponentFactory_Analyzer(t *testing.T) {
	components := NewComponentFactory(testConfig())

	rec, err := components.RecognizerFactory.CreateRecognizer(StaticRecognizer)
	require.NoError(t, err)
	a, err := components.AnalyzerFactory.CreateAnalyzer(rec)
	require.NoError(t, err)

	assert.Equal(t, analyzer.DefaultOptions(), a.Options())
}
