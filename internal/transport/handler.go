package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "go-vastu-inspector/internal/errors"
	"go-vastu-inspector/internal/logger"
	"go-vastu-inspector/internal/observer"
	"go-vastu-inspector/internal/service"
	"go-vastu-inspector/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const welcomeMessage = "Welcome to the Vastu Analysis API. See /rules for the active Vastu rules."

// Settings configures the HTTP layer
type Settings struct {
	MaxRequestBodySize int64
	RequestTimeout     time.Duration
	Recognizer         string
}

type handler struct {
	service  service.PlanAnalysisService
	metrics  *observer.MetricsObserver
	settings Settings
}

// NewHandler builds the gin engine serving the analysis API. metrics may
// be nil, in which case GET /metrics reports an empty snapshot.
func NewHandler(svc service.PlanAnalysisService, metrics *observer.MetricsObserver, settings Settings) http.Handler {
	h := &handler{service: svc, metrics: metrics, settings: settings}

	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		corsMiddleware(),
		requestSizeLimiter(settings.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/", welcome)
	r.GET("/health", h.healthCheck)
	r.GET("/rules", h.rules)
	r.GET("/metrics", h.metricsSnapshot)

	analyze := r.Group("/analyze")
	analyze.POST("/", h.analyzeUpload)
	analyze.POST("/url", h.analyzeURL)
	analyze.POST("/words", h.analyzeWords)
	analyze.POST("/batch", h.analyzeBatch)

	return r
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.settings.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.settings.RequestTimeout)
}

func (h *handler) analyzeUpload(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respondError(c, http.StatusRequestEntityTooLarge, "plan exceeds the request size limit", err)
			return
		}
		respondError(c, http.StatusBadRequest, "missing plan file", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable plan file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable plan file", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"filename": fileHeader.Filename,
		"bytes":    len(data),
	}).Debug("Received plan upload")

	response, err := h.service.AnalyzeUpload(ctx, data, splitLabels(c.PostFormArray("expected_labels")))
	if err != nil {
		respondAppError(c, "plan analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *handler) analyzeURL(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req models.URLAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.AnalyzeURL(ctx, strings.TrimSpace(req.URL), req.ExpectedLabels)
	if err != nil {
		respondAppError(c, "plan analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *handler) analyzeWords(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req models.WordsAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.AnalyzeWords(ctx, req)
	if err != nil {
		respondAppError(c, "plan analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *handler) analyzeBatch(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req models.BatchAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	response, err := h.service.AnalyzeBatch(ctx, req.URLs)
	if err != nil {
		respondAppError(c, "batch analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *handler) rules(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Rules())
}

func (h *handler) metricsSnapshot(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, observer.MetricsSnapshot{})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

func (h *handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:     "available",
		Recognizer: h.settings.Recognizer,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

// bindJSON decodes the request body into req and answers 400 or 413 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if isBodyTooLarge(err) {
			respondError(c, http.StatusRequestEntityTooLarge, "request exceeds the size limit", err)
			return false
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"ip": c.ClientIP(),
		}).Error("Invalid request format")
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return false
	}
	return true
}

// splitLabels accepts repeated form fields as well as comma separated lists
func splitLabels(values []string) []string {
	var labels []string
	for _, value := range values {
		for _, label := range strings.Split(value, ",") {
			if label = strings.TrimSpace(label); label != "" {
				labels = append(labels, label)
			}
		}
	}
	return labels
}

func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Debug("Processing request")

		c.Next()

		logger.WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Info("Request completed")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondAppError(c *gin.Context, message string, err error) {
	respondError(c, determineStatusCode(err), message, err)
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	response := models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		response.Error = appErr.Message
		response.Type = string(appErr.Type)
	}
	c.AbortWithStatusJSON(code, response)
}
