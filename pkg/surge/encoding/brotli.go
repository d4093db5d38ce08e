package encoding

import (
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/valyala/bytebufferpool"
)

// Brotli is the br content coder. It is not in the Default set; servers
// opt in by listing it in their coder configuration, which keeps the
// default behavior gzip-only.
type Brotli struct {
	quality int
	writers sync.Pool
}

// NewBrotli returns a brotli coder at the default quality.
func NewBrotli() *Brotli {
	return NewBrotliQuality(brotli.DefaultCompression)
}

// NewBrotliQuality returns a brotli coder at the given quality (0-11).
// Out-of-range values fall back to the default.
func NewBrotliQuality(quality int) *Brotli {
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		quality = brotli.DefaultCompression
	}
	b := &Brotli{quality: quality}
	b.writers.New = func() interface{} {
		return brotli.NewWriterLevel(nil, b.quality)
	}
	return b
}

// Token implements Coder.
func (b *Brotli) Token() string { return "br" }

// Encode implements Coder: appends the brotli stream of src to dst.
func (b *Brotli) Encode(dst *bytebufferpool.ByteBuffer, src []byte) error {
	w := b.writers.Get().(*brotli.Writer)
	w.Reset(dst)

	if _, err := w.Write(src); err != nil {
		w.Close()
		b.writers.Put(w)
		return err
	}
	err := w.Close()
	b.writers.Put(w)
	return err
}
