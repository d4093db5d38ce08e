package encoding

import (
	"bytes"
	"io"
	"strconv"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/valyala/bytebufferpool"

	"github.com/yourusername/surge/pkg/surge/http11"
)

func TestNegotiate(t *testing.T) {
	gz := NewGzip()
	br := NewBrotli()

	cases := []struct {
		name   string
		accept string
		coders []Coder
		want   string
	}{
		{"exact match", "gzip", []Coder{gz}, "gzip"},
		{"comma list", "deflate, gzip, br", []Coder{gz}, "gzip"},
		{"case insensitive", "GZIP", []Coder{gz}, "gzip"},
		{"whitespace", "  gzip  ,  br ", []Coder{gz}, "gzip"},
		{"quality value still offers", "gzip;q=0.5", []Coder{gz}, "gzip"},
		{"no match", "deflate, zstd", []Coder{gz}, ""},
		{"substring is not a token", "supergzip", []Coder{gz}, ""},
		{"empty offer", "", []Coder{gz}, ""},
		{"no coders", "gzip", nil, ""},
		{"configuration order wins", "br, gzip", []Coder{gz, br}, "gzip"},
		{"second coder matches", "br", []Coder{gz, br}, "br"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := Negotiate([]byte(tt.accept), tt.coders)
			got := ""
			if c != nil {
				got = c.Token()
			}
			if got != tt.want {
				t.Errorf("Negotiate(%q) = %q, want %q", tt.accept, got, tt.want)
			}
		})
	}
}

func TestApplyGzip(t *testing.T) {
	body := bytes.Repeat([]byte("the quick brown fox "), 50)

	resp := http11.NewResponse(200)
	defer http11.PutResponse(resp)
	resp.SetText(body)

	if err := Apply(resp, []byte("gzip"), Default); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := resp.Header.GetString(http11.HeaderContentEncoding); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
	if got := resp.Header.GetString(http11.HeaderContentLength); got != strconv.Itoa(len(resp.Body)) {
		t.Errorf("Content-Length = %q, body is %d bytes", got, len(resp.Body))
	}
	if len(resp.Body) >= len(body) {
		t.Errorf("compressed body %d bytes, original %d", len(resp.Body), len(body))
	}

	zr, err := gzip.NewReader(bytes.NewReader(resp.Body))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decoded, body) {
		t.Error("decompressed body does not match original")
	}
}

func TestApplyNoMatchLeavesBodyUntouched(t *testing.T) {
	resp := http11.NewResponse(200)
	defer http11.PutResponse(resp)
	resp.SetText([]byte("plain text"))

	if err := Apply(resp, []byte("deflate, zstd"), Default); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if string(resp.Body) != "plain text" {
		t.Errorf("body = %q, want untouched", resp.Body)
	}
	if resp.Header.Has(http11.HeaderContentEncoding) {
		t.Error("Content-Encoding set without a matching offer")
	}
	if got := resp.Header.GetString(http11.HeaderContentLength); got != "10" {
		t.Errorf("Content-Length = %q, want 10", got)
	}
}

func TestApplyEmptyBodyNoop(t *testing.T) {
	resp := http11.NewResponse(200)
	defer http11.PutResponse(resp)
	resp.SetBody(nil)

	if err := Apply(resp, []byte("gzip"), Default); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if resp.Header.Has(http11.HeaderContentEncoding) {
		t.Error("empty body must never be encoded")
	}
	if got := resp.Header.GetString(http11.HeaderContentLength); got != "0" {
		t.Errorf("Content-Length = %q, want 0", got)
	}
}

func TestApplyEmptyOfferNoop(t *testing.T) {
	resp := http11.NewResponse(200)
	defer http11.PutResponse(resp)
	resp.SetText([]byte("abc"))

	if err := Apply(resp, nil, Default); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if string(resp.Body) != "abc" || resp.Header.Has(http11.HeaderContentEncoding) {
		t.Error("no Accept-Encoding must leave the response untouched")
	}
}

func TestBrotliCoder(t *testing.T) {
	br := NewBrotli()
	if br.Token() != "br" {
		t.Errorf("Token = %q, want br", br.Token())
	}

	src := bytes.Repeat([]byte("brotli round trip "), 40)
	var dst bytebufferpool.ByteBuffer
	if err := br.Encode(&dst, src); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(dst.B)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, src) {
		t.Error("brotli round trip mismatch")
	}
}

func TestDefaultIsGzipOnly(t *testing.T) {
	if len(Default) != 1 || Default[0].Token() != "gzip" {
		t.Errorf("Default coders = %v", Default)
	}
}

func TestGzipCoderReuse(t *testing.T) {
	// Pooled writers must not leak state across encodes.
	gz := NewGzip()
	for _, src := range [][]byte{
		[]byte("first payload"),
		[]byte("second, different payload"),
		bytes.Repeat([]byte("x"), 10000),
	} {
		var dst bytebufferpool.ByteBuffer
		if err := gz.Encode(&dst, src); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		zr, err := gzip.NewReader(bytes.NewReader(dst.B))
		if err != nil {
			t.Fatalf("NewReader: %v", err)
		}
		decoded, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if !bytes.Equal(decoded, src) {
			t.Errorf("round trip mismatch for %d-byte payload", len(src))
		}
	}
}
