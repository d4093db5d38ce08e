package http11

import (
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Response is a structured HTTP/1.1 response: status code, headers in
// insertion order, and an optional body.
//
// Handlers build a Response; the connection loop serializes it with
// WriteTo. The Content-Length invariant is maintained by the SetBody
// family: whenever a body is assigned, Content-Length reflects its
// exact byte length. WriteTo adds nothing implicitly.
type Response struct {
	// Status is the HTTP status code, 100-599.
	Status int

	// Header holds the response headers in insertion order.
	Header Header

	// Body is the response body, written verbatim after the blank line.
	Body []byte
}

// NewResponse returns a pooled Response with the given status and no
// headers or body. Return it with PutResponse after serialization.
func NewResponse(status int) *Response {
	resp := GetResponse()
	resp.Status = status
	return resp
}

// SetBody assigns the body and sets Content-Length to its exact byte
// length. A nil or empty body yields "Content-Length: 0", keeping
// keep-alive framing unambiguous.
func (r *Response) SetBody(body []byte) {
	r.Body = body
	r.Header.Set(HeaderContentLength, strconv.AppendInt(nil, int64(len(body)), 10))
}

// SetText assigns a text/plain body.
func (r *Response) SetText(body []byte) {
	r.Header.Set(HeaderContentType, ContentTypePlain)
	r.SetBody(body)
}

// SetOctetStream assigns an application/octet-stream body.
func (r *Response) SetOctetStream(body []byte) {
	r.Header.Set(HeaderContentType, ContentTypeOctetStream)
	r.SetBody(body)
}

// WriteTo serializes the response to w: status line, headers in
// insertion order as "Name: value\r\n", a blank line, then the body
// verbatim. Total bytes written equal head length plus len(Body).
//
// The head is assembled in a pooled buffer so the wire sees a single
// contiguous write ahead of the body.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	if r.Status < 100 || r.Status > 599 {
		return 0, ErrInvalidStatusCode
	}

	head := bytebufferpool.Get()
	defer bytebufferpool.Put(head)

	head.Write(statusLine(r.Status))
	r.Header.VisitAll(func(name, value []byte) bool {
		head.Write(name)
		head.Write(colonSpace)
		head.Write(value)
		head.Write(crlfBytes)
		return true
	})
	head.Write(crlfBytes)

	var written int64
	n, err := w.Write(head.B)
	written += int64(n)
	if err != nil {
		return written, err
	}

	if len(r.Body) > 0 {
		n, err = w.Write(r.Body)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// Reset clears the response for pooled reuse.
func (r *Response) Reset() {
	r.Status = 0
	r.Header.Reset()
	r.Body = nil
}

// statusLine returns the pre-compiled status line for codes this engine
// emits; uncommon codes are built on the fly (1 allocation).
func statusLine(code int) []byte {
	switch code {
	case 200:
		return status200Bytes
	case 201:
		return status201Bytes
	case 204:
		return status204Bytes
	case 301:
		return status301Bytes
	case 302:
		return status302Bytes
	case 304:
		return status304Bytes
	case 400:
		return status400Bytes
	case 401:
		return status401Bytes
	case 403:
		return status403Bytes
	case 404:
		return status404Bytes
	case 405:
		return status405Bytes
	case 408:
		return status408Bytes
	case 411:
		return status411Bytes
	case 413:
		return status413Bytes
	case 414:
		return status414Bytes
	case 500:
		return status500Bytes
	case 501:
		return status501Bytes
	case 503:
		return status503Bytes
	default:
		return []byte("HTTP/1.1 " + strconv.Itoa(code) + " " + StatusText(code) + "\r\n")
	}
}

// StatusText returns the reason phrase for code, per RFC 7231 section 6.
func StatusText(code int) string {
	switch code {
	case 100:
		return "Continue"
	case 101:
		return "Switching Protocols"
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 202:
		return "Accepted"
	case 204:
		return "No Content"
	case 206:
		return "Partial Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 303:
		return "See Other"
	case 304:
		return "Not Modified"
	case 307:
		return "Temporary Redirect"
	case 308:
		return "Permanent Redirect"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 406:
		return "Not Acceptable"
	case 408:
		return "Request Timeout"
	case 409:
		return "Conflict"
	case 410:
		return "Gone"
	case 411:
		return "Length Required"
	case 412:
		return "Precondition Failed"
	case 413:
		return "Payload Too Large"
	case 414:
		return "URI Too Long"
	case 415:
		return "Unsupported Media Type"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 502:
		return "Bad Gateway"
	case 503:
		return "Service Unavailable"
	case 504:
		return "Gateway Timeout"
	case 505:
		return "HTTP Version Not Supported"
	default:
		return "Unknown"
	}
}
