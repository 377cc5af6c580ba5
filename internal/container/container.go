package container

import (
	"fmt"
	"net/http"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/internal/annotate"
	"go-vastu-inspector/internal/config"
	"go-vastu-inspector/internal/factory"
	"go-vastu-inspector/internal/logger"
	"go-vastu-inspector/internal/observer"
	"go-vastu-inspector/internal/repository"
	"go-vastu-inspector/internal/service"
	"go-vastu-inspector/internal/storage"
	"go-vastu-inspector/internal/transport"
	"go-vastu-inspector/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config              *config.Config
	planAnalyzer        analyzer.PlanAnalyzer
	planRepository      repository.PlanRepository
	publisher           *observer.EventPublisher
	metrics             *observer.MetricsObserver
	planAnalysisService service.PlanAnalysisService
	handler             http.Handler
}

// NewContainer builds the dependency graph for cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)

	recognizer, err := components.RecognizerFactory.CreateRecognizer(factory.RecognizerType(cfg.Recognizer))
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer: %w", err)
	}
	planAnalyzer, err := components.AnalyzerFactory.CreateAnalyzer(recognizer)
	if err != nil {
		recognizer.Close()
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	httpFetcher, err := components.StorageFactory.CreateStorage(factory.HTTPStorage)
	if err != nil {
		planAnalyzer.Close()
		return nil, err
	}
	var blobFetcher storage.PlanFetcher
	if cfg.AzureEnabled() {
		blobFetcher, err = components.StorageFactory.CreateStorage(factory.AzureStorage)
		if err != nil {
			planAnalyzer.Close()
			return nil, fmt.Errorf("failed to create azure storage: %w", err)
		}
	}
	urlValidator := validation.NewURLValidator()
	planRepository := repository.NewPlanRepository(httpFetcher, blobFetcher, urlValidator)

	style, err := annotate.ParseStyle(cfg.MarkerColor, cfg.GridColor)
	if err != nil {
		planAnalyzer.Close()
		return nil, err
	}

	publisher := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	planAnalysisService := service.NewPlanAnalysisService(
		planRepository,
		planAnalyzer,
		annotate.New(style),
		publisher,
		service.Settings{
			AnalysisTimeout: cfg.AnalysisTimeout,
			MaxWorkers:      int(cfg.MaxWorkers),
			MaxBatchSize:    int(cfg.MaxBatchSize),
			BatchValidator:  urlValidator,
		},
	)
	handler := transport.NewHandler(planAnalysisService, metrics, transport.Settings{
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		RequestTimeout:     cfg.RequestTimeout,
		Recognizer:         cfg.Recognizer,
	})

	return &Container{
		config:              cfg,
		planAnalyzer:        planAnalyzer,
		planRepository:      planRepository,
		publisher:           publisher,
		metrics:             metrics,
		planAnalysisService: planAnalysisService,
		handler:             handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the plan analysis service
func (c *Container) Service() service.PlanAnalysisService {
	return c.planAnalysisService
}

// Close waits for pending observer notifications and releases the recognizer
func (c *Container) Close() error {
	c.publisher.Flush()
	return c.planAnalyzer.Close()
}
