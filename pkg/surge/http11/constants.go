// Package http11 implements the HTTP/1.1 wire layer: request parsing,
// response serialization, and per-connection keep-alive serving.
package http11

// HTTP method IDs. The parser maps method tokens to these numeric IDs;
// unrecognized tokens are rejected, never coerced.
const (
	MethodUnknown uint8 = 0
	MethodGET     uint8 = 1
	MethodPOST    uint8 = 2
	MethodPUT     uint8 = 3
	MethodDELETE  uint8 = 4
	MethodPATCH   uint8 = 5
	MethodHEAD    uint8 = 6
	MethodOPTIONS uint8 = 7
	MethodCONNECT uint8 = 8
	MethodTRACE   uint8 = 9
)

// Method tokens as byte slices for zero-allocation comparison.
var methodTokens = [...][]byte{
	MethodGET:     []byte("GET"),
	MethodPOST:    []byte("POST"),
	MethodPUT:     []byte("PUT"),
	MethodDELETE:  []byte("DELETE"),
	MethodPATCH:   []byte("PATCH"),
	MethodHEAD:    []byte("HEAD"),
	MethodOPTIONS: []byte("OPTIONS"),
	MethodCONNECT: []byte("CONNECT"),
	MethodTRACE:   []byte("TRACE"),
}

// Method tokens as strings, pre-compiled so MethodString never allocates.
var methodNames = [...]string{
	MethodGET:     "GET",
	MethodPOST:    "POST",
	MethodPUT:     "PUT",
	MethodDELETE:  "DELETE",
	MethodPATCH:   "PATCH",
	MethodHEAD:    "HEAD",
	MethodOPTIONS: "OPTIONS",
	MethodCONNECT: "CONNECT",
	MethodTRACE:   "TRACE",
}

// Pre-compiled status lines with CRLF for the status codes this engine
// actually emits. Uncommon codes are built on the fly by statusLine
// (1 allocation).
var (
	status200Bytes = []byte("HTTP/1.1 200 OK\r\n")
	status201Bytes = []byte("HTTP/1.1 201 Created\r\n")
	status204Bytes = []byte("HTTP/1.1 204 No Content\r\n")
	status301Bytes = []byte("HTTP/1.1 301 Moved Permanently\r\n")
	status302Bytes = []byte("HTTP/1.1 302 Found\r\n")
	status304Bytes = []byte("HTTP/1.1 304 Not Modified\r\n")
	status400Bytes = []byte("HTTP/1.1 400 Bad Request\r\n")
	status401Bytes = []byte("HTTP/1.1 401 Unauthorized\r\n")
	status403Bytes = []byte("HTTP/1.1 403 Forbidden\r\n")
	status404Bytes = []byte("HTTP/1.1 404 Not Found\r\n")
	status405Bytes = []byte("HTTP/1.1 405 Method Not Allowed\r\n")
	status408Bytes = []byte("HTTP/1.1 408 Request Timeout\r\n")
	status411Bytes = []byte("HTTP/1.1 411 Length Required\r\n")
	status413Bytes = []byte("HTTP/1.1 413 Payload Too Large\r\n")
	status414Bytes = []byte("HTTP/1.1 414 URI Too Long\r\n")
	status500Bytes = []byte("HTTP/1.1 500 Internal Server Error\r\n")
	status501Bytes = []byte("HTTP/1.1 501 Not Implemented\r\n")
	status503Bytes = []byte("HTTP/1.1 503 Service Unavailable\r\n")
)

// Header names used by the engine itself. Handlers may of course set
// arbitrary names; these exist for zero-allocation lookups.
var (
	HeaderContentLength   = []byte("Content-Length")
	HeaderContentType     = []byte("Content-Type")
	HeaderContentEncoding = []byte("Content-Encoding")
	HeaderConnection      = []byte("Connection")
	HeaderHost            = []byte("Host")
	HeaderUserAgent       = []byte("User-Agent")
	HeaderAcceptEncoding  = []byte("Accept-Encoding")

	headerTransferEncoding = []byte("Transfer-Encoding")
	headerKeepAlive        = []byte("keep-alive")
	headerClose            = []byte("close")
)

// Common Content-Type values.
var (
	ContentTypePlain       = []byte("text/plain")
	ContentTypeOctetStream = []byte("application/octet-stream")
)

// Protocol constants.
var (
	http11Bytes   = []byte("HTTP/1.1")
	http10Bytes   = []byte("HTTP/1.0")
	crlfBytes     = []byte("\r\n")
	crlfcrlfBytes = []byte("\r\n\r\n")
	colonSpace    = []byte(": ")
	commaSpace    = []byte(", ")
)

const http11Proto = "HTTP/1.1"

// Parse limits, per RFC 7230 recommendations.
const (
	// MaxHeaders is how many headers fit in inline storage before the
	// ordered overflow slice kicks in.
	MaxHeaders = 32

	// MaxHeaderName is the maximum length of a header name.
	MaxHeaderName = 64

	// MaxHeaderValue is the maximum header value length for inline
	// storage. Longer values (large cookies, joined duplicates) go to
	// overflow storage.
	MaxHeaderValue = 128

	// MaxHeaderValueSize is the hard cap on a single header value.
	MaxHeaderValueSize = 8192

	// MaxRequestLineSize caps the request line (method + target + version).
	MaxRequestLineSize = 8192

	// MaxHeadersSize caps the total header section.
	MaxHeadersSize = 8192
)
