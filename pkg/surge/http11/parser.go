package http11

import (
	"bytes"
	"io"
	"sync"
)

// readBufPool provides scratch buffers for head reads, one per call.
var readBufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 4096)
		return &buf
	},
}

// Parser turns a byte stream into Requests, one logical request per
// Parse call. Bytes read beyond the current request boundary are
// retained for the next call, so the stream position is always left at
// the start of the next request for keep-alive reuse.
//
// Returned Requests come from a pool; callers must hand them back with
// PutRequest. Zero-copy slices in the request reference the parser's
// internal buffer and are invalidated by the next Parse.
type Parser struct {
	// buf accumulates the head (request line + headers) of the request
	// currently being parsed, plus any excess from the same read.
	buf []byte

	// unread holds excess bytes past the current request boundary.
	// They belong to the next request on the connection.
	unread []byte
}

// NewParser returns a Parser with a pre-sized head buffer.
func NewParser() *Parser {
	return &Parser{
		buf: make([]byte, 0, MaxRequestLineSize+MaxHeadersSize),
	}
}

// Parse reads exactly one request from r.
//
// Returns io.EOF when the stream ends cleanly before any byte of a new
// request (the keep-alive idle close), ErrTruncatedRequest when it ends
// mid-request, and the relevant parse error for malformed input. On any
// error no request is returned and the pooled object is reclaimed.
func (p *Parser) Parse(r io.Reader) (*Request, error) {
	p.buf = p.buf[:0]
	if len(p.unread) > 0 {
		p.buf = append(p.buf, p.unread...)
		p.unread = p.unread[:0]
	}

	headEnd, err := p.readHead(r)
	if err != nil {
		return nil, err
	}

	req := GetRequest()

	pos, err := p.parseRequestLine(req, p.buf[:headEnd])
	if err != nil {
		PutRequest(req)
		return nil, err
	}

	if err := p.parseHeaders(req, p.buf[pos:headEnd]); err != nil {
		PutRequest(req)
		return nil, err
	}

	if err := p.applyFramingHeaders(req); err != nil {
		PutRequest(req)
		return nil, err
	}

	if err := p.readBody(req, r, p.buf[headEnd:]); err != nil {
		PutRequest(req)
		return nil, err
	}

	return req, nil
}

// readHead reads until the blank line ending the header section and
// returns the index just past it. Excess bytes stay in p.buf for
// readBody to consume first.
func (p *Parser) readHead(r io.Reader) (int, error) {
	// A pipelined previous read may already hold the full head.
	if idx := bytes.Index(p.buf, crlfcrlfBytes); idx != -1 {
		return idx + 4, nil
	}

	bufPtr := readBufPool.Get().(*[]byte)
	defer readBufPool.Put(bufPtr)
	tmp := *bufPtr

	for {
		n, err := r.Read(tmp)
		if n > 0 {
			// Search from 3 bytes back so a terminator split across
			// reads is still found.
			from := len(p.buf) - 3
			if from < 0 {
				from = 0
			}
			p.buf = append(p.buf, tmp[:n]...)

			if idx := bytes.Index(p.buf[from:], crlfcrlfBytes); idx != -1 {
				return from + idx + 4, nil
			}
			if len(p.buf) > MaxRequestLineSize+MaxHeadersSize {
				return 0, ErrHeadersTooLarge
			}
		}
		if err != nil {
			if err == io.EOF {
				if len(p.buf) == 0 {
					// Client closed between requests.
					return 0, io.EOF
				}
				return 0, ErrTruncatedRequest
			}
			return 0, err
		}
	}
}

// parseRequestLine parses "METHOD SP TARGET SP VERSION CRLF" and
// returns the offset just past its CRLF.
func (p *Parser) parseRequestLine(req *Request, buf []byte) (int, error) {
	lineEnd := bytes.Index(buf, crlfBytes)
	if lineEnd == -1 {
		return 0, ErrMalformedRequestLine
	}
	line := buf[:lineEnd]
	if len(line) > MaxRequestLineSize {
		return 0, ErrMalformedRequestLine
	}

	sp1 := bytes.IndexByte(line, ' ')
	if sp1 == -1 {
		return 0, ErrMalformedRequestLine
	}
	sp2 := bytes.IndexByte(line[sp1+1:], ' ')
	if sp2 == -1 {
		return 0, ErrMalformedRequestLine
	}
	sp2 += sp1 + 1

	method := line[:sp1]
	target := line[sp1+1 : sp2]
	version := line[sp2+1:]

	req.MethodID = ParseMethodID(method)
	if req.MethodID == MethodUnknown {
		return 0, ErrInvalidMethod
	}
	req.methodBytes = method

	if len(target) == 0 || (target[0] != '/' && target[0] != '*') {
		return 0, ErrMalformedRequestLine
	}
	if q := bytes.IndexByte(target, '?'); q != -1 {
		req.pathBytes = target[:q]
		req.queryBytes = target[q+1:]
	} else {
		req.pathBytes = target
		req.queryBytes = nil
	}

	switch {
	case bytes.Equal(version, http11Bytes):
		req.Proto = http11Proto
		req.ProtoMinor = 1
	case bytes.Equal(version, http10Bytes):
		req.Proto = "HTTP/1.0"
		req.ProtoMinor = 0
	default:
		return 0, ErrMalformedRequestLine
	}
	req.protoBytes = version

	return lineEnd + 2, nil
}

// parseHeaders parses "Name: value CRLF" lines until the blank line.
// Values are trimmed of surrounding spaces and tabs; a missing colon or
// whitespace before the colon is a malformed header.
func (p *Parser) parseHeaders(req *Request, buf []byte) error {
	pos := 0
	for {
		if pos+1 < len(buf) && buf[pos] == '\r' && buf[pos+1] == '\n' {
			return nil // blank line, end of headers
		}
		if pos >= len(buf) {
			return nil
		}

		lineEnd := bytes.Index(buf[pos:], crlfBytes)
		if lineEnd == -1 {
			return ErrMalformedHeader
		}
		line := buf[pos : pos+lineEnd]

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return ErrMalformedHeader
		}

		name := line[:colon]
		// RFC 7230 3.2.4: no whitespace between field name and colon.
		if name[colon-1] == ' ' || name[colon-1] == '\t' ||
			bytes.IndexByte(name, ' ') != -1 || bytes.IndexByte(name, '\t') != -1 {
			return ErrMalformedHeader
		}

		value := trimSpace(line[colon+1:])

		if err := req.Header.Add(name, value); err != nil {
			return err
		}

		pos += lineEnd + 2
	}
}

// applyFramingHeaders resolves Content-Length, Connection and
// Transfer-Encoding once all headers are stored, so the duplicate
// comma-join policy applies uniformly: two differing Content-Length
// headers join to "n, m", which fails integer parsing and rejects the
// request, matching the RFC 7230 3.3.3 smuggling rule.
func (p *Parser) applyFramingHeaders(req *Request) error {
	if v := req.Header.Get(HeaderContentLength); v != nil {
		n, err := parseContentLength(v)
		if err != nil {
			return err
		}
		req.ContentLength = n
	}

	if v := req.Header.Get(HeaderConnection); equalFold(v, headerClose) {
		req.Close = true
	}

	// Chunked transfer coding is outside this engine's subset. The body
	// is treated as empty and the connection closed after the response
	// so leftover chunk bytes can never desync the next request.
	if req.Header.Has(headerTransferEncoding) {
		req.ContentLength = 0
		req.Close = true
	}

	return nil
}

// readBody reads exactly Content-Length body bytes, consuming excess
// head-read bytes first. Whatever remains past the body boundary is
// retained for the next Parse call.
func (p *Parser) readBody(req *Request, r io.Reader, excess []byte) error {
	if req.ContentLength > 0 {
		body := make([]byte, req.ContentLength)
		n := copy(body, excess)
		excess = excess[n:]
		if n < len(body) {
			if _, err := io.ReadFull(r, body[n:]); err != nil {
				return ErrTruncatedRequest
			}
		}
		req.Body = body
	}

	if len(excess) > 0 {
		p.unread = append(p.unread[:0], excess...)
	}
	return nil
}

// parseContentLength parses a Content-Length value as a non-negative
// integer. Anything else, including the comma-joined form produced by
// duplicate headers, is rejected.
func parseContentLength(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, ErrInvalidContentLength
	}
	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrInvalidContentLength
		}
		n = n*10 + int64(c-'0')
		if n < 0 { // overflow
			return 0, ErrInvalidContentLength
		}
	}
	return n, nil
}

// trimSpace trims leading and trailing spaces and tabs (RFC 7230 OWS).
func trimSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}
