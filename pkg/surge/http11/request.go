package http11

// Request is a fully parsed HTTP/1.1 request.
//
// methodBytes, pathBytes, queryBytes and protoBytes are zero-copy
// slices into the parser's buffer: valid only until the next Parse call
// on the same parser or until the request is returned to the pool.
// Body is owned by the request and contains exactly Content-Length
// bytes (empty when the header is absent; this engine does not support
// chunked transfer coding).
type Request struct {
	// MethodID is the numeric method for O(1) switching.
	MethodID uint8

	methodBytes []byte // "GET"
	pathBytes   []byte // "/files/notes.txt"
	queryBytes  []byte // "a=1&b=2" without the '?'
	protoBytes  []byte // "HTTP/1.1"

	// Header holds the request headers in arrival order.
	Header Header

	// Body is the raw request body, length equal to Content-Length.
	Body []byte

	// Proto is the version token, ProtoMinor its minor digit
	// (1 for HTTP/1.1, 0 for HTTP/1.0). Only HTTP/1.x is accepted.
	Proto      string
	ProtoMinor int

	// ContentLength is the parsed Content-Length, 0 when absent.
	ContentLength int64

	// Close is true when the request carries "Connection: close", or
	// when framing forces a close (unsupported transfer coding).
	Close bool

	// RemoteAddr is the client network address, set by the connection.
	RemoteAddr string
}

// Method returns the method token as a string.
//
// Allocation behavior: 0 allocs/op
func (r *Request) Method() string {
	return MethodString(r.MethodID)
}

// Path returns the target path as a string (1 allocation).
// Use PathBytes for the zero-copy form.
func (r *Request) Path() string {
	return string(r.pathBytes)
}

// PathBytes returns the target path as a zero-copy slice.
// Valid only for the request lifetime.
func (r *Request) PathBytes() []byte {
	return r.pathBytes
}

// Query returns the raw query string without the leading '?'.
func (r *Request) Query() string {
	return string(r.queryBytes)
}

// GetHeader returns a header value by name, case-insensitively.
//
// Allocation behavior: 0 allocs/op
func (r *Request) GetHeader(name []byte) []byte {
	return r.Header.Get(name)
}

// GetHeaderString returns a header value as a string, "" when absent.
func (r *Request) GetHeaderString(name string) string {
	return r.Header.GetString([]byte(name))
}

// HasBody reports whether the request carried a non-empty body.
func (r *Request) HasBody() bool {
	return len(r.Body) > 0
}

// ShouldClose reports whether the connection must close after this
// request per the negotiated keep-alive policy: explicit
// "Connection: close", or HTTP/1.0 without "Connection: keep-alive".
func (r *Request) ShouldClose() bool {
	if r.Close {
		return true
	}
	if r.ProtoMinor == 0 {
		return !equalFold(r.Header.Get(HeaderConnection), headerKeepAlive)
	}
	return false
}

// Reset clears the request for pooled reuse.
//
// Allocation behavior: 0 allocs/op
func (r *Request) Reset() {
	r.MethodID = MethodUnknown
	r.methodBytes = nil
	r.pathBytes = nil
	r.queryBytes = nil
	r.protoBytes = nil
	r.Header.Reset()
	r.Body = nil
	r.Proto = ""
	r.ProtoMinor = 0
	r.ContentLength = 0
	r.Close = false
	r.RemoteAddr = ""
}
