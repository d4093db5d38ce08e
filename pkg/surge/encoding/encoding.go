// Package encoding implements the response content-coding filter.
//
// The filter runs strictly after a handler produces its body and
// strictly before serialization: Apply rewrites Response.Body with the
// negotiated coder's output, sets Content-Encoding, and recomputes
// Content-Length to the encoded byte count. Empty bodies are never
// encoded; a compressed representation of nothing is worse than
// nothing.
package encoding

import (
	"bytes"

	"github.com/valyala/bytebufferpool"

	"github.com/yourusername/surge/pkg/surge/http11"
)

// Coder encodes response bodies under one content-coding token.
type Coder interface {
	// Token is the content-coding name as it appears in Accept-Encoding
	// and Content-Encoding, lowercase ("gzip", "br").
	Token() string

	// Encode appends the encoded form of src to dst.
	Encode(dst *bytebufferpool.ByteBuffer, src []byte) error
}

// Default is the coder set a server uses when none is configured:
// gzip only, matching the engine's observable contract that bodies are
// untouched unless the client offers gzip.
var Default = []Coder{NewGzip()}

// Negotiate returns the first configured coder whose token appears in
// the Accept-Encoding value, or nil when none matches. The value is
// scanned as a comma-separated list with optional whitespace, tokens
// compared case-insensitively. Coder preference follows configuration
// order, not list order.
func Negotiate(acceptEncoding []byte, coders []Coder) Coder {
	if len(acceptEncoding) == 0 || len(coders) == 0 {
		return nil
	}
	for _, c := range coders {
		if listContainsToken(acceptEncoding, c.Token()) {
			return c
		}
	}
	return nil
}

// Apply encodes resp.Body in place when the request's Accept-Encoding
// offers a configured coding. No-op for empty bodies, an empty offer,
// or no matching coder. On encoder failure the body is left untouched
// and the error returned; the caller serves the identity form.
func Apply(resp *http11.Response, acceptEncoding []byte, coders []Coder) error {
	if resp == nil || len(resp.Body) == 0 {
		return nil
	}
	coder := Negotiate(acceptEncoding, coders)
	if coder == nil {
		return nil
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := coder.Encode(buf, resp.Body); err != nil {
		return err
	}

	body := make([]byte, len(buf.B))
	copy(body, buf.B)

	resp.Header.Set(http11.HeaderContentEncoding, []byte(coder.Token()))
	resp.SetBody(body)
	return nil
}

// listContainsToken reports whether token appears as a member of the
// comma-separated list, ignoring surrounding whitespace and case.
// Quality values are not parsed; "gzip;q=0" still counts as an offer,
// an accepted simplification for this subset.
func listContainsToken(list []byte, token string) bool {
	start := 0
	for i := 0; i <= len(list); i++ {
		if i == len(list) || list[i] == ',' {
			member := trim(list[start:i])
			if semi := bytes.IndexByte(member, ';'); semi != -1 {
				member = trim(member[:semi])
			}
			if tokenEqual(member, token) {
				return true
			}
			start = i + 1
		}
	}
	return false
}

func trim(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

func tokenEqual(b []byte, token string) bool {
	if len(b) != len(token) {
		return false
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 'A' && c <= 'Z' {
			c += 32
		}
		if c != token[i] {
			return false
		}
	}
	return true
}
