package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/surge/pkg/surge/http11"
	"github.com/yourusername/surge/pkg/surge/router"
)

// app holds the read-only configuration shared by all handlers: the
// optional file directory. Concurrent connections share it without
// coordination; concurrent writes to the same filename race at
// filesystem granularity, which is accepted for this server's scope.
type app struct {
	dir string
	log *slog.Logger
}

func newApp(dir string, log *slog.Logger) *app {
	return &app{dir: dir, log: log}
}

// routes builds the fixed route table. Registered once at startup;
// the table is immutable afterwards.
func (a *app) routes() *router.Table {
	b := router.NewBuilder()
	b.Handle(http11.MethodGET, "/", a.logged(a.handleRoot))
	b.Handle(http11.MethodGET, "/echo/*", a.logged(a.handleEcho))
	b.Handle(http11.MethodGET, "/user-agent", a.logged(a.handleUserAgent))
	b.Handle(http11.MethodGET, "/files/*", a.logged(a.handleFileGet))
	b.Handle(http11.MethodPOST, "/files/*", a.logged(a.handleFilePost))
	return b.Build()
}

// logged wraps a handler with per-request structured logging under a
// fresh request id.
func (a *app) logged(h router.Handler) router.Handler {
	return func(req *http11.Request, rest string) (*http11.Response, error) {
		id := uuid.NewString()
		start := time.Now()

		resp, err := h(req, rest)

		attrs := []any{
			"id", id,
			"method", req.Method(),
			"path", req.Path(),
			"remote", req.RemoteAddr,
			"elapsed", time.Since(start),
		}
		if err != nil {
			a.log.Info("request failed", append(attrs, "error", err)...)
		} else {
			a.log.Info("request", append(attrs, "status", resp.Status)...)
		}
		return resp, err
	}
}

// handleRoot serves GET /: 200 with an empty body.
func (a *app) handleRoot(req *http11.Request, rest string) (*http11.Response, error) {
	resp := http11.NewResponse(200)
	resp.SetBody(nil)
	return resp, nil
}

// handleEcho serves GET /echo/<text>: the path remainder verbatim.
func (a *app) handleEcho(req *http11.Request, rest string) (*http11.Response, error) {
	resp := http11.NewResponse(200)
	resp.SetText([]byte(rest))
	return resp, nil
}

// handleUserAgent serves GET /user-agent: the User-Agent header value,
// empty when the client sent none.
func (a *app) handleUserAgent(req *http11.Request, rest string) (*http11.Response, error) {
	resp := http11.NewResponse(200)
	resp.SetText(req.GetHeader(http11.HeaderUserAgent))
	return resp, nil
}

// handleFileGet serves GET /files/<name> from the configured directory.
func (a *app) handleFileGet(req *http11.Request, name string) (*http11.Response, error) {
	path, err := a.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, router.ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, router.ErrInternal)
	}

	resp := http11.NewResponse(200)
	resp.SetOctetStream(data)
	return resp, nil
}

// handleFilePost serves POST /files/<name>: writes the request body to
// the named file under the configured directory.
func (a *app) handleFilePost(req *http11.Request, name string) (*http11.Response, error) {
	path, err := a.resolve(name)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, req.Body, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, router.ErrInternal)
	}

	resp := http11.NewResponse(201)
	resp.SetText([]byte("Uploaded successfully"))
	return resp, nil
}

// resolve maps a /files/ remainder to a filesystem path. An unset
// directory disables the route entirely (not found, never an error
// page); names escaping the directory are forbidden.
func (a *app) resolve(name string) (string, error) {
	if a.dir == "" || name == "" {
		return "", router.ErrNotFound
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", router.ErrForbidden
		}
	}
	return filepath.Join(a.dir, filepath.FromSlash(name)), nil
}
