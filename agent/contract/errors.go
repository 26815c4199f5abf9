package contract

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrSchemaViolation = errors.New("model response violates schema")

	ErrGatewayUnavailable = errors.New("language model gateway unavailable")
	ErrExtractionFailed   = errors.New("document extraction failed")
	ErrStorageUnavailable = errors.New("storage backend unavailable")

	ErrSessionNotFound = errors.New("session not found")
	ErrNothingToExport = errors.New("session has no results to export")
	ErrExportFailed    = errors.New("proposal export failed")
)
