// Package router matches parsed requests against an immutable route
// table and invokes the bound handler, translating handler failures
// into error responses so nothing ever propagates to the connection
// loop.
package router

import (
	"errors"
	"sort"
	"strings"

	"github.com/yourusername/surge/pkg/surge/http11"
)

// Handler failure taxonomy. Handlers return one of these (wrapped or
// bare) and Dispatch owns the status mapping: 404, 403, 500. Any other
// non-nil error, and any panic, maps to 500.
var (
	ErrNotFound  = errors.New("router: not found")
	ErrForbidden = errors.New("router: forbidden")
	ErrInternal  = errors.New("router: internal error")
)

// Handler is the collaborator boundary: it receives the parsed request
// and, for wildcard routes, the path remainder after the fixed prefix.
// It returns a Response or a structured failure; never both.
type Handler func(req *http11.Request, rest string) (*http11.Response, error)

type route struct {
	method   uint8
	pattern  string // fixed prefix for wildcards, full path otherwise
	wildcard bool
	handler  Handler
}

// match reports whether path satisfies the route and returns the
// wildcard remainder.
func (rt *route) match(path string) (string, bool) {
	if rt.wildcard {
		if strings.HasPrefix(path, rt.pattern) {
			return path[len(rt.pattern):], true
		}
		return "", false
	}
	if path == rt.pattern {
		return "", true
	}
	return "", false
}

// Builder accumulates routes before the table is frozen.
type Builder struct {
	routes []route
}

// NewBuilder returns an empty route set.
func NewBuilder() *Builder {
	return &Builder{}
}

// Handle registers a handler for method and pattern. A pattern ending
// in "/*" matches every path sharing the fixed prefix before the '*',
// with the remainder passed to the handler; any other pattern matches
// exactly. Registration happens once at startup; Handle panics on a
// malformed pattern or invalid method rather than limp along with an
// unreachable route.
func (b *Builder) Handle(method uint8, pattern string, h Handler) *Builder {
	if !http11.IsValidMethodID(method) {
		panic("router: invalid method for pattern " + pattern)
	}
	if pattern == "" || pattern[0] != '/' {
		panic("router: pattern must start with /: " + pattern)
	}
	if h == nil {
		panic("router: nil handler for pattern " + pattern)
	}

	rt := route{method: method, pattern: pattern, handler: h}
	if strings.HasSuffix(pattern, "/*") {
		rt.wildcard = true
		rt.pattern = pattern[:len(pattern)-1] // keep the trailing slash
	} else if strings.Contains(pattern, "*") {
		panic("router: wildcard only allowed as trailing segment: " + pattern)
	}

	b.routes = append(b.routes, rt)
	return b
}

// Build freezes the routes into an immutable Table. Evaluation order
// encodes precedence: exact routes first, then wildcards by descending
// prefix length, so the most specific match always wins.
func (b *Builder) Build() *Table {
	routes := make([]route, len(b.routes))
	copy(routes, b.routes)

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].wildcard != routes[j].wildcard {
			return !routes[i].wildcard
		}
		if routes[i].wildcard {
			return len(routes[i].pattern) > len(routes[j].pattern)
		}
		return false // keep registration order among exact routes
	})

	return &Table{routes: routes}
}

// Table is the immutable route table. No runtime mutation; concurrent
// dispatch needs no locking.
type Table struct {
	routes []route
}

// Dispatch finds the most specific matching route and runs its handler.
// No path match synthesizes 404 with an empty body; a path match with
// no method match synthesizes 405 (documented choice over minimal 404).
// Handler failures are mapped, never propagated. The returned response
// is never nil.
func (t *Table) Dispatch(req *http11.Request) *http11.Response {
	path := req.Path()
	pathMatched := false

	for i := range t.routes {
		rt := &t.routes[i]
		rest, ok := rt.match(path)
		if !ok {
			continue
		}
		pathMatched = true
		if rt.method != req.MethodID {
			continue
		}

		resp, err := invoke(rt.handler, req, rest)
		if err != nil {
			return failureResponse(err)
		}
		if resp == nil {
			return failureResponse(ErrInternal)
		}
		return resp
	}

	if pathMatched {
		return emptyResponse(405)
	}
	return emptyResponse(404)
}

// invoke runs the handler with panic containment. A panicking handler
// becomes ErrInternal; the connection loop never sees it.
func invoke(h Handler, req *http11.Request, rest string) (resp *http11.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = ErrInternal
		}
	}()
	return h(req, rest)
}

func failureResponse(err error) *http11.Response {
	switch {
	case errors.Is(err, ErrNotFound):
		return emptyResponse(404)
	case errors.Is(err, ErrForbidden):
		return emptyResponse(403)
	default:
		return emptyResponse(500)
	}
}

func emptyResponse(status int) *http11.Response {
	resp := http11.NewResponse(status)
	resp.SetBody(nil)
	return resp
}
