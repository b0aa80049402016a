package compress

import (
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/fieldcodec/engine"
	"github.com/arloliu/fieldcodec/internal/pool"
)

// Compressor compresses blocks with one engine compression context.
//
// The context and the destination scratch buffer are owned by the Compressor and
// reused across calls. A Compressor is meant for a single owner; calls are
// serialized so a stray concurrent call cannot corrupt the context.
type Compressor struct {
	mu     sync.Mutex
	eng    engine.Engine
	ctx    engine.CompressionContext
	dst    *pool.ByteBuffer
	stats  CompressionStats
	closed bool
}

// NewCompressor allocates a compression context on eng.
func NewCompressor(eng engine.Engine) (*Compressor, error) {
	ctx, err := eng.NewCompressionContext()
	if err != nil {
		return nil, &AllocationError{Resource: "compression context", Err: err}
	}

	return &Compressor{
		eng:   eng,
		ctx:   ctx,
		dst:   pool.GetScratch(),
		stats: CompressionStats{Engine: eng.Type()},
	}, nil
}

// Compress compresses raw at level, or with dict when it is not nil, in which case
// the level the dictionary was built with applies.
//
// The returned slice aliases the Compressor's scratch buffer and is valid until the
// next call to Compress or Close. An empty raw block compresses to an empty payload
// without calling the engine.
func (c *Compressor) Compress(raw []byte, level int, dict *CompressionDictionary) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	if len(raw) == 0 {
		return c.dst.GrowNoCopy(0), nil
	}

	bound := c.eng.CompressBound(len(raw))
	if bound <= 0 {
		return nil, &CompressionError{Msg: fmt.Sprintf("block of %d bytes exceeds the %s engine limit", len(raw), c.eng.Type())}
	}

	dst := c.dst.GrowNoCopy(bound)
	start := time.Now()

	var (
		n   int
		err error
	)
	if dict != nil {
		handle, herr := dict.handle()
		if herr != nil {
			return nil, herr
		}
		n, err = c.ctx.CompressDict(dst, raw, handle)
	} else {
		n, err = c.ctx.Compress(dst, raw, level)
	}

	if err != nil {
		return nil, &CompressionError{Msg: engine.ErrorName(err), Err: err}
	}

	c.stats.Blocks++
	c.stats.OriginalSize += int64(len(raw))
	c.stats.CompressedSize += int64(n)
	c.stats.CompressionTimeNs += time.Since(start).Nanoseconds()

	return dst[:n], nil
}

// Stats returns the cumulative statistics of this Compressor.
func (c *Compressor) Stats() CompressionStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// Close releases the compression context. Subsequent calls to Close are no-ops.
func (c *Compressor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.ctx.Release()
	c.ctx = nil
	pool.PutScratch(c.dst)
	c.dst = nil

	return nil
}
