package factory

import (
	"fmt"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/internal/config"
	"go-vastu-inspector/internal/recognizer"
	"go-vastu-inspector/internal/storage"
)

// RecognizerType represents different text recognition backends
type RecognizerType string

const (
	// TesseractRecognizer runs the local Tesseract engine
	TesseractRecognizer RecognizerType = config.RecognizerTesseract
	// RemoteRecognizer posts canvases to an OCR endpoint
	RemoteRecognizer RecognizerType = config.RecognizerRemote
	// StaticRecognizer returns no words; pre-computed words go through AnalyzeWords
	StaticRecognizer RecognizerType = "static"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based plan fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// RecognizerFactory creates text recognizers
type RecognizerFactory interface {
	CreateRecognizer(recognizerType RecognizerType) (analyzer.TextRecognizer, error)
}

// AnalyzerFactory creates plan analyzers
type AnalyzerFactory interface {
	CreateAnalyzer(recognizer analyzer.TextRecognizer) (analyzer.PlanAnalyzer, error)
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.PlanFetcher, error)
}

// recognizerFactory implements RecognizerFactory
type recognizerFactory struct {
	cfg *config.Config
}

// NewRecognizerFactory creates a new recognizer factory
func NewRecognizerFactory(cfg *config.Config) RecognizerFactory {
	return &recognizerFactory{cfg: cfg}
}

// CreateRecognizer creates a recognizer based on the specified type
func (f *recognizerFactory) CreateRecognizer(recognizerType RecognizerType) (analyzer.TextRecognizer, error) {
	switch recognizerType {
	case TesseractRecognizer:
		return recognizer.NewTesseract(f.cfg.OCRLanguage)
	case RemoteRecognizer:
		return recognizer.NewRemote(f.cfg.RemoteOCRURL, nil, f.cfg.AnalysisTimeout)
	case StaticRecognizer:
		return recognizer.NewStatic(nil), nil
	default:
		return nil, fmt.Errorf("unsupported recognizer type: %s", recognizerType)
	}
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct {
	options analyzer.AnalysisOptions
}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory(options analyzer.AnalysisOptions) AnalyzerFactory {
	return &analyzerFactory{options: options}
}

// CreateAnalyzer creates an analyzer around recognizer
func (f *analyzerFactory) CreateAnalyzer(recognizer analyzer.TextRecognizer) (analyzer.PlanAnalyzer, error) {
	return analyzer.NewPlanAnalyzer(recognizer, f.options)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.PlanFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPPlanFetcher(f.cfg.ImageFetchTimeout, storage.WithMaxSize(f.cfg.MaxRequestBodySize)), nil
	case AzureStorage:
		if !f.cfg.AzureEnabled() {
			return nil, fmt.Errorf("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")
		}
		return storage.NewAzureBlobFetcher(f.cfg.AzureStorageAccount, f.cfg.AzureStorageKey)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	RecognizerFactory RecognizerFactory
	AnalyzerFactory   AnalyzerFactory
	StorageFactory    StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		RecognizerFactory: NewRecognizerFactory(cfg),
		AnalyzerFactory:   NewAnalyzerFactory(cfg.PipelineOptions()),
		StorageFactory:    NewStorageFactory(cfg),
	}
}
