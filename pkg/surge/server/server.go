// Package server runs the accept loop: one goroutine per accepted
// connection, each driving its own parse/dispatch/encode/serialize
// cycle independently of every other connection.
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yourusername/surge/pkg/surge/encoding"
	"github.com/yourusername/surge/pkg/surge/http11"
	"github.com/yourusername/surge/pkg/surge/router"
	"github.com/yourusername/surge/pkg/surge/socket"
)

// Config holds server configuration. Zero values take the defaults
// applied by New.
type Config struct {
	// Addr is the TCP address to listen on.
	// Default: "127.0.0.1:4221".
	Addr string

	// Routes is the immutable route table. Required.
	Routes *router.Table

	// Encodings are the content coders offered to clients, in
	// preference order. nil means encoding.Default (gzip only).
	Encodings []encoding.Coder

	// IdleTimeout bounds each read-request/write-response cycle on a
	// kept-alive connection. Default: 60 seconds.
	IdleTimeout time.Duration

	// MaxKeepAliveRequests caps requests per connection. 0 = unlimited.
	MaxKeepAliveRequests int

	// DisableKeepalive forces one request per connection.
	DisableKeepalive bool

	// ReadBufferSize and WriteBufferSize size the per-connection bufio
	// layers. Default: 4096 each.
	ReadBufferSize  int
	WriteBufferSize int

	// MaxConcurrentConnections bounds concurrently served connections.
	// 0 = unbounded.
	MaxConcurrentConnections int

	// Tuning configures TCP options applied to accepted connections.
	// nil means socket.DefaultConfig().
	Tuning *socket.Config
}

// Stats carries lock-free server counters.
type Stats struct {
	TotalConnections  atomic.Uint64
	ActiveConnections atomic.Int64
	TotalRequests     atomic.Uint64
	ConnectionErrors  atomic.Uint64
	RequestErrors     atomic.Uint64

	StartTime time.Time
}

// RequestsPerSecond returns the average request rate since start.
func (s *Stats) RequestsPerSecond() float64 {
	secs := time.Since(s.StartTime).Seconds()
	if secs == 0 {
		return 0
	}
	return float64(s.TotalRequests.Load()) / secs
}

// Server accepts connections and serves them until Shutdown or Close.
type Server struct {
	config  Config
	coders  []encoding.Coder
	handler http11.Handler

	listener net.Listener
	stats    Stats

	shutdown atomic.Bool
	done     chan struct{}
	wg       sync.WaitGroup

	conns   map[net.Conn]struct{}
	connsMu sync.Mutex

	connSem chan struct{}
}

// New builds a Server from config, applying defaults. Panics when no
// route table is configured; a server with nowhere to dispatch is a
// programming error, not a runtime condition.
func New(config Config) *Server {
	if config.Routes == nil {
		panic("server: Routes is required")
	}
	if config.Addr == "" {
		config.Addr = "127.0.0.1:4221"
	}
	if config.IdleTimeout == 0 {
		config.IdleTimeout = 60 * time.Second
	}
	if config.ReadBufferSize == 0 {
		config.ReadBufferSize = http11.DefaultBufferSize
	}
	if config.WriteBufferSize == 0 {
		config.WriteBufferSize = http11.DefaultBufferSize
	}

	s := &Server{
		config: config,
		coders: config.Encodings,
		done:   make(chan struct{}),
		conns:  make(map[net.Conn]struct{}),
	}
	if s.coders == nil {
		s.coders = encoding.Default
	}
	s.stats.StartTime = time.Now()

	if config.MaxConcurrentConnections > 0 {
		s.connSem = make(chan struct{}, config.MaxConcurrentConnections)
	}

	// One shared handler for every connection: dispatch, then the
	// content-coding filter between the handler's body and the wire.
	s.handler = func(req *http11.Request) *http11.Response {
		s.stats.TotalRequests.Add(1)

		resp := s.config.Routes.Dispatch(req)

		if err := encoding.Apply(resp, req.GetHeader(http11.HeaderAcceptEncoding), s.coders); err != nil {
			// Identity body still serves; count it and move on.
			s.stats.RequestErrors.Add(1)
		}
		return resp
	}

	return s
}

// Stats returns the server counters.
func (s *Server) Stats() *Stats {
	return &s.stats
}

// Addr returns the bound listener address, nil before Serve.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds the configured address and serves until
// shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on l until shutdown. Accept errors during
// normal operation are counted and the loop continues; the listener
// closing during shutdown returns nil.
func (s *Server) Serve(l net.Listener) error {
	s.listener = l
	defer l.Close()

	for {
		if s.shutdown.Load() {
			return nil
		}

		if s.connSem != nil {
			select {
			case s.connSem <- struct{}{}:
			case <-s.done:
				return nil
			}
		}

		conn, err := l.Accept()
		if err != nil {
			if s.shutdown.Load() {
				return nil
			}
			s.stats.ConnectionErrors.Add(1)
			if s.connSem != nil {
				<-s.connSem
			}
			continue
		}

		s.stats.TotalConnections.Add(1)
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection serves one accepted connection for its lifetime.
func (s *Server) handleConnection(netConn net.Conn) {
	defer s.wg.Done()
	defer netConn.Close()

	if s.connSem != nil {
		defer func() { <-s.connSem }()
	}

	// Best effort; an untunable socket still gets served.
	_ = socket.Apply(netConn, s.config.Tuning)

	s.trackConnection(netConn)
	defer s.untrackConnection(netConn)

	connConfig := http11.ConnConfig{
		IdleTimeout:     s.config.IdleTimeout,
		MaxRequests:     s.config.MaxKeepAliveRequests,
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
	}
	if s.config.DisableKeepalive {
		connConfig.MaxRequests = 1
	}

	conn := http11.NewConn(netConn, connConfig, s.handler)
	defer conn.Close()

	if err := conn.Serve(); err != nil {
		s.stats.RequestErrors.Add(1)
	}
}

func (s *Server) trackConnection(conn net.Conn) {
	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()
	s.stats.ActiveConnections.Add(1)
}

func (s *Server) untrackConnection(conn net.Conn) {
	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()
	s.stats.ActiveConnections.Add(-1)
}

func (s *Server) closeAllConnections() {
	s.connsMu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.connsMu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// Shutdown stops accepting and waits for in-flight connections to
// drain, or force-closes them when ctx expires. Safe to call more than
// once.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	if s.listener != nil {
		s.listener.Close()
	}
	close(s.done)

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		s.closeAllConnections()
		return ctx.Err()
	}
}

// Close stops the server immediately, closing every active connection.
func (s *Server) Close() error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	if s.listener != nil {
		s.listener.Close()
	}
	close(s.done)
	s.closeAllConnections()
	s.wg.Wait()
	return nil
}
