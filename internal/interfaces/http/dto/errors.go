package dto

import (
	"net/http"
	"strings"
)

// Error codes returned by the API.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// Input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidRange = "ERR_INVALID_RANGE"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound       = "ERR_NOT_FOUND"
	ErrCodeConflict       = "ERR_CONFLICT"
	ErrCodeBucketArchived = "ERR_BUCKET_ARCHIVED"
)

// Ledger error codes
const (
	// ErrCodeMalformedRecord means a stored record could not be interpreted
	ErrCodeMalformedRecord = "ERR_MALFORMED_RECORD"
	// ErrCodeStoreFailure means a store query failed while computing a balance
	ErrCodeStoreFailure = "ERR_STORE_FAILURE"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited    = "ERR_RATE_LIMITED"
	ErrCodeTooManyClients = "ERR_TOO_MANY_CLIENTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidRange: http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeConflict:       http.StatusConflict,
	ErrCodeBucketArchived: http.StatusConflict,

	ErrCodeMalformedRecord: http.StatusUnprocessableEntity,
	ErrCodeStoreFailure:    http.StatusServiceUnavailable,

	ErrCodeRateLimited:    http.StatusTooManyRequests,
	ErrCodeTooManyClients: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped domain validation codes (INVALID_*) are 400, anything else is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"INVALID_RANGE":    ErrCodeInvalidRange,
	"MALFORMED_RECORD": ErrCodeMalformedRecord,
	"STORE_FAILURE":    ErrCodeStoreFailure,
	"BUCKET_ARCHIVED":  ErrCodeBucketArchived,
	"VALIDATION_ERROR": ErrCodeValidation,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Codes without a mapping pass through unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
