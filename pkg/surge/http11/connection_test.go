package http11

import (
	"strings"
	"testing"
)

// echoPathHandler answers every request with its own path in the body.
func echoPathHandler(req *Request) *Response {
	resp := NewResponse(200)
	resp.SetText([]byte(req.Path()))
	return resp
}

func serveMock(t *testing.T, input string, config ConnConfig, h Handler) (*mockConn, error) {
	t.Helper()
	mc := newMockConn(input)
	conn := NewConn(mc, config, h)
	err := conn.Serve()
	return mc, err
}

func TestConnSingleRequest(t *testing.T) {
	mc, err := serveMock(t, "GET /hello HTTP/1.1\r\nHost: x\r\n\r\n",
		DefaultConnConfig(), echoPathHandler)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}

	out := mc.written()
	if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n") {
		t.Errorf("output = %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\n/hello") {
		t.Errorf("body missing from %q", out)
	}
}

func TestConnKeepAliveServesSequentially(t *testing.T) {
	input := "GET /one HTTP/1.1\r\nHost: x\r\n\r\n" +
		"GET /two HTTP/1.1\r\nHost: x\r\n\r\n" +
		"GET /three HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"

	mc := newMockConn(input)
	conn := NewConn(mc, DefaultConnConfig(), echoPathHandler)
	if err := conn.Serve(); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	if got := conn.RequestCount(); got != 3 {
		t.Errorf("RequestCount = %d, want 3", got)
	}

	out := mc.written()
	for _, body := range []string{"/one", "/two", "/three"} {
		if !strings.Contains(out, body) {
			t.Errorf("response for %s missing from %q", body, out)
		}
	}
	if got := strings.Count(out, "HTTP/1.1 200 OK\r\n"); got != 3 {
		t.Errorf("%d status lines, want 3", got)
	}
	if conn.State() != StateClosed {
		t.Errorf("State = %v, want closed", conn.State())
	}
}

func TestConnConnectionCloseStopsLoop(t *testing.T) {
	// The second request must never be served.
	input := "GET /first HTTP/1.1\r\nConnection: close\r\n\r\n" +
		"GET /second HTTP/1.1\r\n\r\n"

	mc := newMockConn(input)
	conn := NewConn(mc, DefaultConnConfig(), echoPathHandler)
	if err := conn.Serve(); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	if got := conn.RequestCount(); got != 1 {
		t.Errorf("RequestCount = %d, want 1", got)
	}
	out := mc.written()
	if !strings.Contains(out, "Connection: close\r\n") {
		t.Errorf("Connection: close header missing from %q", out)
	}
	if strings.Contains(out, "/second") {
		t.Errorf("second request was served: %q", out)
	}
}

func TestConnMalformedRequestGets400(t *testing.T) {
	mc, err := serveMock(t, "NOT A VALID REQUEST\r\n\r\n",
		DefaultConnConfig(), echoPathHandler)
	if err == nil {
		t.Fatal("Serve returned nil for malformed input")
	}
	if !IsParseError(err) {
		t.Errorf("Serve = %v, want a parse error", err)
	}

	out := mc.written()
	if !strings.HasPrefix(out, "HTTP/1.1 400 Bad Request\r\n") {
		t.Errorf("output = %q, want 400 response", out)
	}
	if !strings.Contains(out, "Connection: close\r\n") {
		t.Errorf("400 response should close: %q", out)
	}
}

func TestConnCleanEOFIsNotAnError(t *testing.T) {
	_, err := serveMock(t, "", DefaultConnConfig(), echoPathHandler)
	if err != nil {
		t.Errorf("Serve = %v, want nil for clean close", err)
	}
}

func TestConnMaxRequests(t *testing.T) {
	input := strings.Repeat("GET /r HTTP/1.1\r\nHost: x\r\n\r\n", 5)

	config := DefaultConnConfig()
	config.MaxRequests = 2

	mc := newMockConn(input)
	conn := NewConn(mc, config, echoPathHandler)
	if err := conn.Serve(); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	if got := conn.RequestCount(); got != 2 {
		t.Errorf("RequestCount = %d, want 2", got)
	}
	out := mc.written()
	if got := strings.Count(out, "HTTP/1.1 200 OK\r\n"); got != 2 {
		t.Errorf("%d responses, want 2", got)
	}
	// The final response announces the close.
	if !strings.Contains(out, "Connection: close\r\n") {
		t.Errorf("last response should carry Connection: close: %q", out)
	}
}

func TestConnNilHandlerResponse(t *testing.T) {
	broken := func(*Request) *Response { return nil }

	mc, err := serveMock(t, "GET / HTTP/1.1\r\nHost: x\r\n\r\n",
		DefaultConnConfig(), broken)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if !strings.HasPrefix(mc.written(), "HTTP/1.1 500 ") {
		t.Errorf("output = %q, want 500", mc.written())
	}
}

func TestConnPOSTBodyDelivered(t *testing.T) {
	var gotBody string
	h := func(req *Request) *Response {
		gotBody = string(req.Body)
		resp := NewResponse(201)
		resp.SetText([]byte("Uploaded successfully"))
		return resp
	}

	mc, err := serveMock(t,
		"POST /files/a HTTP/1.1\r\nContent-Length: 9\r\n\r\nfile data",
		DefaultConnConfig(), h)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if gotBody != "file data" {
		t.Errorf("handler saw body %q", gotBody)
	}
	if !strings.HasPrefix(mc.written(), "HTTP/1.1 201 Created\r\n") {
		t.Errorf("output = %q", mc.written())
	}
}

func TestConnStateTransitions(t *testing.T) {
	mc := newMockConn("")
	conn := NewConn(mc, DefaultConnConfig(), echoPathHandler)
	if conn.State() != StateNew {
		t.Errorf("State = %v, want new", conn.State())
	}
	if err := conn.Serve(); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if conn.State() != StateClosed {
		t.Errorf("State = %v, want closed", conn.State())
	}
}

func TestConnStateString(t *testing.T) {
	cases := map[ConnState]string{
		StateNew:       "new",
		StateActive:    "active",
		StateIdle:      "idle",
		StateClosed:    "closed",
		ConnState(-42): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
