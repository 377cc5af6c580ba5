package repository

import (
	"context"
)

// PlanRepository defines the interface for plan image access operations
type PlanRepository interface {
	// FetchPlan retrieves the encoded plan image behind a URL
	FetchPlan(ctx context.Context, planURL string) ([]byte, error)

	// ValidatePlanURL validates if the provided URL is acceptable
	ValidatePlanURL(planURL string) error
}

// URLValidator checks plan URLs before any network access
type URLValidator interface {
	ValidatePlanURL(planURL string) error
}
