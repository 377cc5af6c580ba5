package validation

import (
	"fmt"
	"net/url"
	"strings"

	apperrors "go-vastu-inspector/internal/errors"
)

// URLValidator handles plan URL validation logic
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator creates a new URL validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidatePlanURL validates if the provided URL can be fetched as a plan image
func (v *URLValidator) ValidatePlanURL(planURL string) error {
	if strings.TrimSpace(planURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(planURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !v.isSchemeAllowed(strings.ToLower(parsedURL.Scheme)) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

// ValidateBatch checks the size of a batch and every URL in it
func (v *URLValidator) ValidateBatch(urls []string, maxBatch int) error {
	if len(urls) == 0 {
		return apperrors.NewValidationError("batch must contain at least one URL", nil)
	}
	if maxBatch > 0 && len(urls) > maxBatch {
		return apperrors.NewValidationError(
			fmt.Sprintf("batch of %d URLs exceeds the limit of %d", len(urls), maxBatch), nil)
	}
	for i, u := range urls {
		if err := v.ValidatePlanURL(u); err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("urls[%d] is invalid", i), err)
		}
	}
	return nil
}

// isSchemeAllowed checks if the URL scheme is in the allowed list
func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed checks if the URL host is in the allowed list
// Returns true if no host restrictions are set (empty allowedHosts)
func (v *URLValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}
