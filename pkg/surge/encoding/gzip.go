package encoding

import (
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/valyala/bytebufferpool"
)

// Gzip is the gzip content coder. Writers are pooled per level so
// steady-state encoding allocates only the output copy.
type Gzip struct {
	level   int
	writers sync.Pool
}

// NewGzip returns a gzip coder at the default compression level.
func NewGzip() *Gzip {
	return NewGzipLevel(gzip.DefaultCompression)
}

// NewGzipLevel returns a gzip coder at the given level. Invalid levels
// fall back to the default.
func NewGzipLevel(level int) *Gzip {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	g := &Gzip{level: level}
	g.writers.New = func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, g.level)
		return w
	}
	return g
}

// Token implements Coder.
func (g *Gzip) Token() string { return "gzip" }

// Encode implements Coder: appends the gzip stream of src to dst.
func (g *Gzip) Encode(dst *bytebufferpool.ByteBuffer, src []byte) error {
	w := g.writers.Get().(*gzip.Writer)
	w.Reset(dst)

	if _, err := w.Write(src); err != nil {
		w.Close()
		g.writers.Put(w)
		return err
	}
	err := w.Close()
	g.writers.Put(w)
	return err
}
