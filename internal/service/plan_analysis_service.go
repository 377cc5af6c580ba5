package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"go-vastu-inspector/internal/analyzer"
	"go-vastu-inspector/internal/annotate"
	apperrors "go-vastu-inspector/internal/errors"
	"go-vastu-inspector/internal/logger"
	"go-vastu-inspector/internal/observer"
	"go-vastu-inspector/internal/repository"
	"go-vastu-inspector/pkg/models"
	"go-vastu-inspector/pkg/validation"
)

const (
	SourceUpload = "upload"
	SourceURL    = "url"
	SourceWords  = "words"
)

// PlanAnalysisService runs Vastu analyses for the transport layer
type PlanAnalysisService interface {
	// AnalyzeUpload analyzes an uploaded plan image
	AnalyzeUpload(ctx context.Context, data []byte, expectedLabels []string) (*models.AnalysisResponse, error)

	// AnalyzeURL fetches and analyzes the plan behind planURL
	AnalyzeURL(ctx context.Context, planURL string, expectedLabels []string) (*models.AnalysisResponse, error)

	// AnalyzeWords evaluates pre-computed OCR words
	AnalyzeWords(ctx context.Context, request models.WordsAnalysisRequest) (*models.AnalysisResponse, error)

	// AnalyzeBatch analyzes several plan URLs concurrently
	AnalyzeBatch(ctx context.Context, planURLs []string) (*models.BatchResponse, error)

	// Rules describes the active alias and rule tables
	Rules() models.RulesResponse

	// ValidatePlanURL validates a plan URL without fetching it
	ValidatePlanURL(planURL string) error
}

// BatchValidator rejects malformed batches before any plan is fetched
type BatchValidator interface {
	ValidateBatch(urls []string, maxBatch int) error
}

// Settings tunes a PlanAnalysisService
type Settings struct {
	AnalysisTimeout time.Duration
	MaxWorkers      int
	MaxBatchSize    int
	BatchValidator  BatchValidator
}

type planAnalysisService struct {
	planRepo  repository.PlanRepository
	analyzer  analyzer.PlanAnalyzer
	matcher   *analyzer.AliasMatcher
	annotator *annotate.Annotator
	validator *validation.PlanValidator
	publisher observer.Subject
	settings  Settings
}

// NewPlanAnalysisService creates a new plan analysis service. planRepo may
// be nil when only uploads and words are analyzed; publisher may be nil.
func NewPlanAnalysisService(
	planRepo repository.PlanRepository,
	planAnalyzer analyzer.PlanAnalyzer,
	annotator *annotate.Annotator,
	publisher observer.Subject,
	settings Settings,
) PlanAnalysisService {
	if annotator == nil {
		annotator = annotate.New(annotate.DefaultStyle())
	}
	if settings.MaxWorkers <= 0 {
		settings.MaxWorkers = 1
	}
	if settings.MaxBatchSize <= 0 {
		settings.MaxBatchSize = 10
	}
	return &planAnalysisService{
		planRepo:  planRepo,
		analyzer:  planAnalyzer,
		matcher:   analyzer.NewAliasMatcher(planAnalyzer.Aliases(), planAnalyzer.Options().FuzzyAliasDistance),
		annotator: annotator,
		validator: validation.NewPlanValidator(),
		publisher: publisher,
		settings:  settings,
	}
}

// run carries the bookkeeping of one analysis
type run struct {
	id      string
	source  string
	planURL string
	start   time.Time
}

func (s *planAnalysisService) newRun(source, planURL string) *run {
	return &run{id: uuid.NewString(), source: source, planURL: planURL, start: time.Now()}
}

// AnalyzeUpload analyzes an uploaded plan image
func (s *planAnalysisService) AnalyzeUpload(ctx context.Context, data []byte, expectedLabels []string) (response *models.AnalysisResponse, err error) {
	r := s.newRun(SourceUpload, "")
	defer s.recoverRun(ctx, r, &response, &err)
	s.publish(ctx, r, observer.AnalysisEvent{EventType: observer.AnalysisStarted})
	return s.analyzeImage(ctx, r, data, expectedLabels)
}

// AnalyzeURL fetches and analyzes the plan behind planURL
func (s *planAnalysisService) AnalyzeURL(ctx context.Context, planURL string, expectedLabels []string) (response *models.AnalysisResponse, err error) {
	r := s.newRun(SourceURL, planURL)
	defer s.recoverRun(ctx, r, &response, &err)
	s.publish(ctx, r, observer.AnalysisEvent{EventType: observer.AnalysisStarted})

	if err = s.ValidatePlanURL(planURL); err != nil {
		return nil, s.fail(ctx, r, apperrors.NewValidationError("invalid plan URL", err))
	}

	data, err := s.planRepo.FetchPlan(ctx, planURL)
	if err != nil {
		s.publish(ctx, r, observer.AnalysisEvent{EventType: observer.ImageFetchFailed, ErrorMessage: err.Error()})
		return nil, s.fail(ctx, r, err)
	}
	s.publish(ctx, r, observer.AnalysisEvent{
		EventType: observer.ImageFetched,
		Success:   true,
		Metadata:  map[string]interface{}{"bytes": len(data)},
	})

	return s.analyzeImage(ctx, r, data, expectedLabels)
}

// AnalyzeWords evaluates pre-computed OCR words
func (s *planAnalysisService) AnalyzeWords(ctx context.Context, request models.WordsAnalysisRequest) (response *models.AnalysisResponse, err error) {
	r := s.newRun(SourceWords, "")
	defer s.recoverRun(ctx, r, &response, &err)
	s.publish(ctx, r, observer.AnalysisEvent{EventType: observer.AnalysisStarted})

	canvas := analyzer.Size{Width: request.CanvasWidth, Height: request.CanvasHeight}
	issues := s.validator.ValidateWords(request.Words, canvas)
	if s.validator.HasCriticalIssues(issues) {
		return nil, s.fail(ctx, r, apperrors.NewValidationError(s.validator.CriticalSummary(issues), nil))
	}

	result, err := s.execute(ctx, r, func(ctx context.Context) (*analyzer.Result, error) {
		return s.analyzer.AnalyzeWords(ctx, request.Words, canvas)
	})
	if err != nil {
		return nil, s.fail(ctx, r, err)
	}

	return s.complete(ctx, r, result, request.ExpectedLabels, s.validator.ConvertIssuesToMessages(issues))
}

// AnalyzeBatch analyzes several plan URLs on a worker pool. Results keep
// request order; a failed plan does not fail the batch.
func (s *planAnalysisService) AnalyzeBatch(ctx context.Context, planURLs []string) (*models.BatchResponse, error) {
	if len(planURLs) == 0 {
		return nil, apperrors.NewValidationError("no plan URLs provided", nil)
	}
	if len(planURLs) > s.settings.MaxBatchSize {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("batch of %d URLs exceeds the limit of %d", len(planURLs), s.settings.MaxBatchSize), nil)
	}
	if s.settings.BatchValidator != nil {
		if err := s.settings.BatchValidator.ValidateBatch(planURLs, s.settings.MaxBatchSize); err != nil {
			return nil, err
		}
	}

	workers := s.settings.MaxWorkers
	if workers > len(planURLs) {
		workers = len(planURLs)
	}
	pool := analyzer.NewWorkerPool(workers)
	pool.Start()
	defer pool.Close()

	items := make([]models.BatchItem, len(planURLs))
	for i, planURL := range planURLs {
		i, planURL := i, planURL
		pool.Submit(func() {
			items[i] = models.BatchItem{URL: planURL}
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithField("plan_url", planURL).WithField("panic", rec).Error("Recovered from panic in batch job")
					items[i].Response = nil
					items[i].Error = ErrorResponseFor(apperrors.NewInternalError("plan analysis panicked", fmt.Errorf("%v", rec)))
				}
			}()
			response, err := s.AnalyzeURL(ctx, planURL, nil)
			if err != nil {
				items[i].Error = ErrorResponseFor(err)
				return
			}
			items[i].Response = response
		})
	}
	pool.Wait()

	batch := &models.BatchResponse{Results: items}
	for _, item := range items {
		if item.Error != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}
	return batch, nil
}

// Rules describes the active alias and rule tables
func (s *planAnalysisService) Rules() models.RulesResponse {
	rules := s.analyzer.Rules()
	views := make([]models.RuleView, 0, len(rules))
	for _, entry := range s.analyzer.Aliases() {
		allowed, _ := rules.Lookup(entry.Category)
		names := make([]string, 0, len(allowed))
		for _, d := range allowed {
			names = append(names, string(d))
		}
		views = append(views, models.RuleView{
			Category: entry.Category,
			Aliases:  append([]string(nil), entry.Aliases...),
			Allowed:  names,
			Display:  rules.AllowedString(entry.Category),
		})
	}

	directions := make([]string, 0, 8)
	for _, d := range analyzer.Directions() {
		directions = append(directions, string(d))
	}
	return models.RulesResponse{Rules: views, Directions: directions}
}

// ValidatePlanURL validates a plan URL without fetching it
func (s *planAnalysisService) ValidatePlanURL(planURL string) error {
	if s.planRepo == nil {
		return errors.New("plan URLs are not supported")
	}
	return s.planRepo.ValidatePlanURL(planURL)
}

func (s *planAnalysisService) analyzeImage(ctx context.Context, r *run, data []byte, expectedLabels []string) (*models.AnalysisResponse, error) {
	var warnings []string
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		issues := s.validator.ValidateDimensions(cfg.Width, cfg.Height)
		if s.validator.HasCriticalIssues(issues) {
			return nil, s.fail(ctx, r, apperrors.NewValidationError(s.validator.CriticalSummary(issues), nil))
		}
		warnings = s.validator.ConvertIssuesToMessages(issues)
	}

	result, err := s.execute(ctx, r, func(ctx context.Context) (*analyzer.Result, error) {
		return s.analyzer.AnalyzeImage(ctx, data)
	})
	if err != nil {
		return nil, s.fail(ctx, r, err)
	}
	if result.Legibility != nil {
		warnings = append(warnings, s.validator.ConvertIssuesToMessages(s.validator.ValidateLegibility(*result.Legibility))...)
	}

	return s.complete(ctx, r, result, expectedLabels, warnings)
}

// recoverRun turns a panic anywhere in a run into an internal error and a
// failed event. It must be deferred directly by the public entry points.
func (s *planAnalysisService) recoverRun(ctx context.Context, r *run, response **models.AnalysisResponse, err *error) {
	rec := recover()
	if rec == nil {
		return
	}
	logger.WithAnalysis(r.id).WithField("panic", rec).Error("Recovered from panic during plan analysis")
	*response = nil
	*err = s.fail(ctx, r, apperrors.NewInternalError("plan analysis panicked", fmt.Errorf("%v", rec)))
}

// execute runs fn under the analysis timeout with progress forwarded to the
// observers
func (s *planAnalysisService) execute(ctx context.Context, r *run, fn func(context.Context) (*analyzer.Result, error)) (*analyzer.Result, error) {
	if s.settings.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.AnalysisTimeout)
		defer cancel()
	}
	ctx = analyzer.ContextWithProgress(ctx, func(percent int, stage string) {
		s.publish(ctx, r, observer.AnalysisEvent{
			EventType: observer.AnalysisProgress,
			Progress:  percent,
			Stage:     stage,
		})
	})

	result, err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !apperrors.IsType(err, apperrors.ErrorTypeTimeout) {
		err = apperrors.NewTimeoutError("plan analysis timed out", err)
	}
	return result, err
}

func (s *planAnalysisService) complete(ctx context.Context, r *run, result *analyzer.Result, expectedLabels []string, warnings []string) (*models.AnalysisResponse, error) {
	response := &models.AnalysisResponse{
		AnalysisID:         r.id,
		PlanURL:            r.planURL,
		Timestamp:          r.start.Format(time.RFC3339),
		Report:             BuildReport(result.Evaluation, s.analyzer.Rules(), s.annotator),
		Canvas:             result.Canvas,
		Labels:             result.Labels,
		Evaluation:         result.Evaluation,
		Legibility:         result.Legibility,
		Warnings:           warnings,
		RecognitionQuality: RecognitionQuality(expectedLabels, result.Features, s.matcher),
	}
	if response.Labels == nil {
		response.Labels = []analyzer.Label{}
	}
	if response.Evaluation.Rows == nil {
		response.Evaluation.Rows = []analyzer.EvaluationRow{}
	}
	if result.Empty() {
		response.Message = NoLabelsMessage
	}

	if result.Image != nil {
		annotated := s.annotator.Render(result.Image, result.Features)
		dataURL, err := s.annotator.DataURL(annotated)
		if err != nil {
			return nil, s.fail(ctx, r, apperrors.NewInternalError("failed to encode annotated plan", err))
		}
		response.AnalyzedImage = dataURL
	}

	elapsed := time.Since(r.start)
	response.ProcessingTimeSec = elapsed.Seconds()

	s.publish(ctx, r, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		ProcessingTime: elapsed,
		Success:        true,
		Score:          result.Evaluation.Score,
		RoomsAnalyzed:  response.Report.Summary.TotalRoomsAnalyzed,
		RoomsVerified:  response.Report.Summary.VerifiedPlacements,
		Metadata:       map[string]interface{}{"labels": len(result.Labels), "words": result.Words},
	})
	return response, nil
}

// fail publishes the terminal event of a failed run and returns err
func (s *planAnalysisService) fail(ctx context.Context, r *run, err error) error {
	s.publish(ctx, r, observer.AnalysisEvent{
		EventType:      observer.AnalysisFailed,
		ProcessingTime: time.Since(r.start),
		ErrorMessage:   err.Error(),
	})
	return err
}

func (s *planAnalysisService) publish(ctx context.Context, r *run, event observer.AnalysisEvent) {
	if s.publisher == nil {
		return
	}
	event.AnalysisID = r.id
	event.Source = r.source
	event.PlanURL = r.planURL
	s.publisher.NotifyObservers(ctx, event)
}

// ErrorResponseFor converts an error into its JSON form
func ErrorResponseFor(err error) *models.ErrorResponse {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return &models.ErrorResponse{
			Error:   appErr.Message,
			Type:    string(appErr.Type),
			Message: appErr.Error(),
		}
	}
	return &models.ErrorResponse{
		Error:   "internal server error",
		Type:    string(apperrors.ErrorTypeInternal),
		Message: err.Error(),
	}
}
