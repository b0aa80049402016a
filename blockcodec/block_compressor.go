package blockcodec

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/arloliu/fieldcodec/compress"
	"github.com/arloliu/fieldcodec/internal/pool"
)

// BlockCompressor compresses raw blocks into length-prefixed payloads:
//
//	uvarint(len(payload)) || payload
//
// A BlockCompressor is not safe for concurrent use.
type BlockCompressor struct {
	mode    *Mode
	comp    *compress.Compressor
	staging *pool.ByteBuffer
	prefix  [binary.MaxVarintLen64]byte
	closed  bool
}

// Compress compresses raw and writes the framed block to out.
func (bc *BlockCompressor) Compress(raw []byte, out io.Writer) error {
	if bc.closed {
		return compress.ErrClosed
	}

	return bc.compress(raw, out)
}

// CompressFrom reads exactly n raw bytes from r, compresses them and writes the
// framed block to out.
func (bc *BlockCompressor) CompressFrom(r io.Reader, n int, out io.Writer) error {
	if bc.closed {
		return compress.ErrClosed
	}

	if n < 0 {
		return errors.Newf("negative block length %d", n)
	}

	if n > bc.staging.Cap() {
		bc.mode.logger.Debug("growing scratch buffer",
			zap.String("buffer", "staging"),
			zap.Int("from", bc.staging.Cap()),
			zap.Int("to", n))
	}

	if err := bc.staging.ReadFullFrom(r, n); err != nil {
		bc.mode.metrics.fail(opCompress, false)
		return errors.Wrapf(err, "read %d byte block", n)
	}

	return bc.compress(bc.staging.B, out)
}

func (bc *BlockCompressor) compress(raw []byte, out io.Writer) error {
	m := bc.mode

	payload, err := bc.comp.Compress(raw, m.level, m.cdict)
	if err != nil {
		m.metrics.fail(opCompress, false)
		return err
	}

	n := binary.PutUvarint(bc.prefix[:], uint64(len(payload)))
	if _, err := out.Write(bc.prefix[:n]); err != nil {
		m.metrics.fail(opCompress, false)
		return errors.Wrap(err, "write block length")
	}

	if len(payload) > 0 {
		if _, err := out.Write(payload); err != nil {
			m.metrics.fail(opCompress, false)
			return errors.Wrap(err, "write block payload")
		}
	}

	m.metrics.observe(opCompress, len(raw), len(payload))

	return nil
}

// Stats returns the cumulative statistics of this compressor.
func (bc *BlockCompressor) Stats() compress.CompressionStats {
	return bc.comp.Stats()
}

// Close releases the compression context. Subsequent calls are no-ops.
func (bc *BlockCompressor) Close() error {
	if bc.closed {
		return nil
	}

	bc.closed = true
	pool.PutScratch(bc.staging)
	bc.staging = nil

	return bc.comp.Close()
}
