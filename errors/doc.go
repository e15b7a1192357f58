// Package errors defines the structured error type shared by every stage of
// the transcript pipeline. Each failure kind (authentication, rate limit,
// timeout, upstream, unsupported format, parse, size limit, not found,
// malformed output) maps to a machine-readable ErrorCode with a retryable flag.
package errors
