package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Provider call errors
const (
	// ErrCodeTimeout indicates a provider call exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the provider throttled the request.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeUnauthorized indicates a missing or rejected credential.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeExternalService indicates any other non-2xx provider response.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	// ErrCodeConnectionFailed indicates the provider could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
)

// Document errors
const (
	// ErrCodeUnsupportedFormat indicates a document or export format that is not handled.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeParseError indicates a document that could not be parsed.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeSizeLimitExceeded indicates a document larger than the configured limit.
	ErrCodeSizeLimitExceeded ErrorCode = "SIZE_LIMIT_EXCEEDED"
)

// Lookup and validation errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Generation errors
const (
	// ErrCodeMalformedOutput indicates model output without any recognizable speaker turn.
	ErrCodeMalformedOutput ErrorCode = "MALFORMED_OUTPUT"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:          true,
	ErrCodeRateLimited:      true,
	ErrCodeConnectionFailed: true,
	ErrCodeExternalService:  false,
	ErrCodeMalformedOutput:  false,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
