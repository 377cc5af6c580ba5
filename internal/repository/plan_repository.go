package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "go-vastu-inspector/internal/errors"
	"go-vastu-inspector/internal/storage"
)

// planRepository routes Azure blob URLs to the blob fetcher and everything
// else to the HTTP fetcher
type planRepository struct {
	http      storage.PlanFetcher
	blob      storage.PlanFetcher
	validator URLValidator
}

// NewPlanRepository creates a plan repository. blob may be nil when no
// storage account is configured.
func NewPlanRepository(http storage.PlanFetcher, blob storage.PlanFetcher, validator URLValidator) PlanRepository {
	return &planRepository{
		http:      http,
		blob:      blob,
		validator: validator,
	}
}

// FetchPlan validates planURL and downloads it, translating storage
// failures into application errors
func (r *planRepository) FetchPlan(ctx context.Context, planURL string) ([]byte, error) {
	if err := r.ValidatePlanURL(planURL); err != nil {
		return nil, err
	}

	fetcher := r.http
	if storage.IsAzureBlobURL(planURL) && r.blob != nil {
		fetcher = r.blob
	}
	if fetcher == nil {
		return nil, apperrors.NewInternalError("no plan fetcher configured", ErrAzureNotConfigured)
	}

	data, err := fetcher.FetchPlan(ctx, planURL)
	if err != nil {
		return nil, classifyFetchError(ctx, err)
	}
	return data, nil
}

// ValidatePlanURL validates if the provided URL is acceptable
func (r *planRepository) ValidatePlanURL(planURL string) error {
	if r.validator == nil {
		if planURL == "" {
			return apperrors.NewValidationError("URL cannot be empty", nil)
		}
		return nil
	}
	return r.validator.ValidatePlanURL(planURL)
}

func classifyFetchError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrPlanNotFound):
		return apperrors.NewNotFoundError("plan image not found", err)
	case errors.Is(err, storage.ErrPlanTooLarge):
		return apperrors.NewValidationError("plan image too large", err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewTimeoutError("timed out fetching plan image", err)
	default:
		return apperrors.NewNetworkError(fmt.Sprintf("failed to fetch plan image: %v", err), err)
	}
}
