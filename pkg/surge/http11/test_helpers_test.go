package http11

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

// mockConn is an in-memory net.Conn fed a fixed input stream; everything
// written to it is captured for inspection.
type mockConn struct {
	mu     sync.Mutex
	input  *bytes.Reader
	output bytes.Buffer
	closed bool
}

func newMockConn(input string) *mockConn {
	return &mockConn{input: bytes.NewReader([]byte(input))}
}

func (m *mockConn) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, io.EOF
	}
	return m.input.Read(p)
}

func (m *mockConn) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, net.ErrClosed
	}
	return m.output.Write(p)
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.output.String()
}

func (m *mockConn) LocalAddr() net.Addr  { return mockAddr("127.0.0.1:4221") }
func (m *mockConn) RemoteAddr() net.Addr { return mockAddr("127.0.0.1:54321") }

func (m *mockConn) SetDeadline(time.Time) error      { return nil }
func (m *mockConn) SetReadDeadline(time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(time.Time) error { return nil }

type mockAddr string

func (a mockAddr) Network() string { return "tcp" }
func (a mockAddr) String() string  { return string(a) }
