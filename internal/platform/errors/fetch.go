package errors

// Upstream HTTP helpers for mapping response statuses and transport failures to
// project ErrorCodes and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"net"
	"net/http"
)

// StatusCodeOf maps an upstream HTTP status to an ErrorCode
// 404/410 are terminal; 408/429/5xx are transient; other 4xx are invalid requests
func StatusCodeOf(status int) ErrorCode {
	switch {
	case status == http.StatusNotFound, status == http.StatusGone:
		return ErrorCodeNotFound
	case status == http.StatusTooManyRequests:
		return ErrorCodeTooManyRequests
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrorCodeTimeout
	case status >= 500:
		return ErrorCodeUnavailable
	case status >= 400:
		return ErrorCodeInvalidArgument
	default:
		return ErrorCodeUnknown
	}
}

// FromHTTPStatus builds an error for a non-2xx upstream status with the mapped code
func FromHTTPStatus(status int, format string, a ...any) error {
	return &Error{code: StatusCodeOf(status), msg: fmt.Sprintf(format, a...), status: status}
}

// FromTransport wraps a client-side failure (dial, TLS, timeout) with a mapped code
// context cancellation keeps Unavailable; deadlines and net timeouts map to Timeout
func FromTransport(err error, msg string) error {
	if err == nil {
		return nil
	}
	if IsTimeout(err) {
		return Wrap(err, ErrorCodeTimeout, msg)
	}
	return Wrap(err, ErrorCodeUnavailable, msg)
}

// IsTimeout reports whether err is a deadline or a net.Error timeout
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return stderrs.As(err, &ne) && ne.Timeout()
}

// IsTransientStatus reports whether an upstream status is worth another attempt
func IsTransientStatus(status int) bool {
	switch StatusCodeOf(status) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests, ErrorCodeTimeout:
		return true
	default:
		return false
	}
}
