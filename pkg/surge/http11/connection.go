package http11

import (
	"bufio"
	"io"
	"net"
	"sync/atomic"
	"time"
)

// ConnState is the lifecycle state of a connection.
type ConnState int32

const (
	// StateNew is the initial state after accept.
	StateNew ConnState = iota

	// StateActive means a request is being parsed or handled.
	StateActive

	// StateIdle means the connection is waiting for the next request.
	StateIdle

	// StateClosed means the connection is done.
	StateClosed
)

// String returns the state name.
func (s ConnState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateActive:
		return "active"
	case StateIdle:
		return "idle"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Handler produces a Response for a parsed Request. It must never
// return nil and must never panic; the dispatch layer above owns
// converting handler failures into error responses.
//
// The returned Response is serialized and then reclaimed by the
// connection, so handlers should build it with NewResponse and must not
// retain it.
type Handler func(*Request) *Response

// ConnConfig configures a single connection.
type ConnConfig struct {
	// IdleTimeout is the per-cycle deadline: the most time allowed to
	// read one request and write its response. Zero disables deadlines.
	IdleTimeout time.Duration

	// MaxRequests caps requests served per connection. 0 is unlimited.
	MaxRequests int

	// ReadBufferSize and WriteBufferSize size the bufio layers.
	// Values other than DefaultBufferSize bypass the pools.
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultConnConfig returns the connection defaults.
func DefaultConnConfig() ConnConfig {
	return ConnConfig{
		IdleTimeout:     60 * time.Second,
		MaxRequests:     0,
		ReadBufferSize:  DefaultBufferSize,
		WriteBufferSize: DefaultBufferSize,
	}
}

// Conn drives the request/response cycle on one accepted connection:
// parse, dispatch through the handler, serialize, repeat while the
// keep-alive policy holds. Request handling is strictly sequential;
// there is no pipelining of in-flight requests, so responses trivially
// leave in arrival order.
type Conn struct {
	state    atomic.Int32
	requests atomic.Int32
	closed   atomic.Bool

	conn    net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer
	parser  *Parser
	handler Handler

	idleTimeout time.Duration
	maxRequests int32
}

// NewConn wraps an accepted net.Conn. The handler is stored once per
// connection so the serve loop allocates no closures per request.
func NewConn(nc net.Conn, config ConnConfig, handler Handler) *Conn {
	c := &Conn{
		conn:        nc,
		handler:     handler,
		idleTimeout: config.IdleTimeout,
		maxRequests: int32(config.MaxRequests),
	}
	c.state.Store(int32(StateNew))

	if config.ReadBufferSize == DefaultBufferSize || config.ReadBufferSize == 0 {
		c.reader = GetBufioReader(nc)
	} else {
		c.reader = bufio.NewReaderSize(nc, config.ReadBufferSize)
	}
	if config.WriteBufferSize == DefaultBufferSize || config.WriteBufferSize == 0 {
		c.writer = GetBufioWriter(nc)
	} else {
		c.writer = bufio.NewWriterSize(nc, config.WriteBufferSize)
	}
	c.parser = GetParser()

	return c
}

// State returns the current connection state.
func (c *Conn) State() ConnState {
	return ConnState(c.state.Load())
}

// RequestCount returns how many requests this connection has served.
func (c *Conn) RequestCount() int {
	return int(c.requests.Load())
}

// Serve runs the connection until it closes. The returned error is nil
// for a clean close (client EOF between requests, Connection: close,
// max requests); otherwise it is the parse or write failure that ended
// the connection after a best-effort error response.
func (c *Conn) Serve() error {
	defer c.cleanup()

	remoteAddr := c.conn.RemoteAddr().String()

	for {
		if c.closed.Load() {
			return nil
		}
		if err := c.setDeadline(); err != nil {
			return err
		}

		c.state.Store(int32(StateActive))
		req, err := c.parser.Parse(c.reader)
		if err != nil {
			if err == io.EOF {
				// Client closed cleanly with no bytes of a new request.
				return nil
			}
			if IsParseError(err) {
				// Best effort: the stream may still accept a response.
				c.writeError(400)
			}
			return err
		}
		req.RemoteAddr = remoteAddr

		requestNum := c.requests.Add(1)
		lastRequest := c.maxRequests > 0 && requestNum >= c.maxRequests

		resp := c.handler(req)
		if resp == nil {
			// Handler contract violation; keep the connection coherent.
			resp = NewResponse(500)
			resp.SetBody(nil)
		}
		if req.ShouldClose() || lastRequest {
			resp.Header.Set(HeaderConnection, headerClose)
		}

		_, werr := resp.WriteTo(c.writer)
		if werr == nil {
			werr = c.writer.Flush()
		}

		shouldClose := werr != nil ||
			req.ShouldClose() ||
			lastRequest ||
			equalFold(resp.Header.Get(HeaderConnection), headerClose)

		PutResponse(resp)
		PutRequest(req)

		if werr != nil {
			return werr
		}
		if shouldClose {
			return nil
		}

		c.state.Store(int32(StateIdle))
	}
}

// writeError sends a minimal closing response for the given status.
// Failures are ignored; the connection is being torn down regardless.
func (c *Conn) writeError(status int) {
	resp := NewResponse(status)
	resp.Header.Set(HeaderConnection, headerClose)
	resp.SetBody(nil)
	if _, err := resp.WriteTo(c.writer); err == nil {
		c.writer.Flush()
	}
	PutResponse(resp)
}

func (c *Conn) setDeadline() error {
	if c.idleTimeout > 0 {
		return c.conn.SetDeadline(time.Now().Add(c.idleTimeout))
	}
	return nil
}

// Close closes the underlying connection. Safe to call concurrently
// with Serve and more than once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.state.Store(int32(StateClosed))
	return c.conn.Close()
}

func (c *Conn) cleanup() {
	c.state.Store(int32(StateClosed))
	if c.parser != nil {
		PutParser(c.parser)
		c.parser = nil
	}
	if c.reader != nil {
		PutBufioReader(c.reader)
		c.reader = nil
	}
	if c.writer != nil {
		PutBufioWriter(c.writer)
		c.writer = nil
	}
}

// RemoteAddr returns the client network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
