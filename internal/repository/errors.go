package repository

import "errors"

var (
	// ErrAzureNotConfigured indicates a blob URL was given without storage credentials
	ErrAzureNotConfigured = errors.New("azure storage is not configured")
)
