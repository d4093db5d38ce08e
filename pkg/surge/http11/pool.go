package http11

import (
	"bufio"
	"io"
	"sync"
)

// DefaultBufferSize is the default size for per-connection read and
// write buffers.
const DefaultBufferSize = 4096

// Pools for the per-request and per-connection objects. Keep-alive
// serving gets to zero steady-state allocations by cycling these.
var (
	requestPool = sync.Pool{
		New: func() interface{} {
			return &Request{}
		},
	}

	responsePool = sync.Pool{
		New: func() interface{} {
			return &Response{}
		},
	}

	parserPool = sync.Pool{
		New: func() interface{} {
			return NewParser()
		},
	}

	bufioReaderPool = sync.Pool{
		New: func() interface{} {
			return bufio.NewReaderSize(nil, DefaultBufferSize)
		},
	}

	bufioWriterPool = sync.Pool{
		New: func() interface{} {
			return bufio.NewWriterSize(nil, DefaultBufferSize)
		},
	}
)

// GetRequest returns a reset Request from the pool.
// Callers must hand it back with PutRequest.
func GetRequest() *Request {
	req := requestPool.Get().(*Request)
	req.Reset()
	return req
}

// PutRequest returns a Request to the pool. Safe on nil.
// The request must not be used afterwards.
func PutRequest(req *Request) {
	if req != nil {
		req.Reset()
		requestPool.Put(req)
	}
}

// GetResponse returns a reset Response from the pool.
// Callers must hand it back with PutResponse.
func GetResponse() *Response {
	resp := responsePool.Get().(*Response)
	resp.Reset()
	return resp
}

// PutResponse returns a Response to the pool. Safe on nil.
func PutResponse(resp *Response) {
	if resp != nil {
		resp.Reset()
		responsePool.Put(resp)
	}
}

// GetParser returns a Parser from the pool.
func GetParser() *Parser {
	return parserPool.Get().(*Parser)
}

// PutParser returns a Parser to the pool, clearing any retained
// cross-request bytes. Safe on nil.
func PutParser(p *Parser) {
	if p != nil {
		p.buf = p.buf[:0]
		p.unread = nil
		parserPool.Put(p)
	}
}

// GetBufioReader returns a pooled reader bound to r.
func GetBufioReader(r io.Reader) *bufio.Reader {
	br := bufioReaderPool.Get().(*bufio.Reader)
	br.Reset(r)
	return br
}

// PutBufioReader returns a reader to the pool. Safe on nil.
func PutBufioReader(br *bufio.Reader) {
	if br != nil {
		br.Reset(nil)
		bufioReaderPool.Put(br)
	}
}

// GetBufioWriter returns a pooled writer bound to w.
func GetBufioWriter(w io.Writer) *bufio.Writer {
	bw := bufioWriterPool.Get().(*bufio.Writer)
	bw.Reset(w)
	return bw
}

// PutBufioWriter flushes and returns a writer to the pool. Safe on nil.
func PutBufioWriter(bw *bufio.Writer) {
	if bw != nil {
		bw.Flush()
		bw.Reset(nil)
		bufioWriterPool.Put(bw)
	}
}
