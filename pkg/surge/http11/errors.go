package http11

import "errors"

// Parse errors. Pre-allocated so the hot path never formats strings.
var (
	// ErrMalformedRequestLine indicates the request line does not split
	// into exactly METHOD SP TARGET SP VERSION, or the version token is
	// not a recognized HTTP version string.
	ErrMalformedRequestLine = errors.New("http11: malformed request line")

	// ErrInvalidMethod indicates the method token is not a recognized
	// HTTP method. Unknown methods are rejected, never coerced.
	ErrInvalidMethod = errors.New("http11: invalid HTTP method")

	// ErrMalformedHeader indicates a header line lacks a colon, carries
	// whitespace before the colon, or embeds CR/LF in name or value.
	ErrMalformedHeader = errors.New("http11: malformed header")

	// ErrInvalidContentLength indicates the Content-Length value is not
	// a non-negative integer.
	ErrInvalidContentLength = errors.New("http11: invalid Content-Length")

	// ErrTruncatedRequest indicates the stream ended mid-request: after
	// at least one byte of the head was read but before the blank line,
	// or before Content-Length body bytes arrived.
	ErrTruncatedRequest = errors.New("http11: truncated request")

	// ErrHeaderTooLarge indicates a single header name or value exceeds
	// its size limit.
	ErrHeaderTooLarge = errors.New("http11: header name or value too large")

	// ErrHeadersTooLarge indicates the head section exceeds
	// MaxRequestLineSize+MaxHeadersSize before the blank line was seen.
	ErrHeadersTooLarge = errors.New("http11: headers too large")
)

// Serialization errors.
var (
	// ErrInvalidStatusCode indicates a status code outside 100-599.
	ErrInvalidStatusCode = errors.New("http11: invalid status code")
)

// IsParseError reports whether err belongs to the parse failure
// taxonomy. The connection loop uses this to decide whether a
// best-effort 400 can still be sent before closing.
func IsParseError(err error) bool {
	return errors.Is(err, ErrMalformedRequestLine) ||
		errors.Is(err, ErrInvalidMethod) ||
		errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrInvalidContentLength) ||
		errors.Is(err, ErrTruncatedRequest) ||
		errors.Is(err, ErrHeaderTooLarge) ||
		errors.Is(err, ErrHeadersTooLarge)
}
