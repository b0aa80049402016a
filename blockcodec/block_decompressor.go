package blockcodec

import (
	"bytes"
	"encoding/binary"
	"io"

	"go.uber.org/zap"

	"github.com/arloliu/fieldcodec/compress"
	"github.com/arloliu/fieldcodec/internal/hash"
	"github.com/arloliu/fieldcodec/internal/pool"
)

// BlockReader is the input a BlockDecompressor reads framed blocks from.
// *bytes.Reader and *bufio.Reader satisfy it.
type BlockReader interface {
	io.Reader
	io.ByteReader
}

// BlockDecompressor reads length-prefixed payloads and decompresses them.
//
// A BlockDecompressor is not safe for concurrent use; use Clone to get one per
// goroutine.
type BlockDecompressor struct {
	mode       *Mode
	dec        *compress.Decompressor
	compressed *pool.ByteBuffer
	closed     bool
}

// Decompress reads one framed block from in, decompresses it and returns the
// bytes [offset, offset+length) of the block. originalLength is the size of the
// whole block as recorded by the writer.
//
// The returned slice is valid until the next call to Decompress or Close.
func (bd *BlockDecompressor) Decompress(in BlockReader, originalLength, offset, length int) ([]byte, error) {
	if bd.closed {
		return nil, compress.ErrClosed
	}

	if originalLength < 0 || offset < 0 || length < 0 || offset > originalLength-length {
		return nil, bd.fail(compress.CorruptDataf("range [%d, %d+%d) outside a %d byte block", offset, offset, length, originalLength), nil)
	}

	declared, err := binary.ReadUvarint(in)
	if err != nil {
		return nil, bd.fail(compress.CorruptDataf("read payload length: %v", err), nil)
	}

	// A valid payload never exceeds the engine bound for the raw length.
	bound := bd.mode.eng.CompressBound(originalLength)
	if bound <= 0 || declared > uint64(bound) {
		return nil, bd.fail(compress.CorruptDataf("payload length %d exceeds bound %d for a %d byte block", declared, bound, originalLength), nil)
	}

	if r, ok := in.(*bytes.Reader); ok && declared > uint64(r.Len()) {
		return nil, bd.fail(compress.CorruptDataf("payload length %d exceeds %d remaining bytes", declared, r.Len()), nil)
	}

	n := int(declared)
	if n > bd.compressed.Cap() {
		bd.mode.logger.Debug("growing scratch buffer",
			zap.String("buffer", "compressed"),
			zap.Int("from", bd.compressed.Cap()),
			zap.Int("to", n))
	}

	if err := bd.compressed.ReadFullFrom(in, n); err != nil {
		return nil, bd.fail(compress.CorruptDataf("read %d byte payload: %v", n, err), nil)
	}

	payload := bd.compressed.B
	result, err := bd.dec.Decompress(payload, originalLength, bd.mode.ddict)
	if err != nil {
		return nil, bd.fail(err, payload)
	}

	bd.mode.metrics.observe(opDecompress, originalLength, len(payload))

	return result[offset : offset+length : offset+length], nil
}

func (bd *BlockDecompressor) fail(err error, payload []byte) error {
	corrupt := compress.IsCorruptData(err)
	bd.mode.metrics.fail(opDecompress, corrupt)

	if corrupt {
		fields := []zap.Field{
			zap.Stringer("engine", bd.mode.engineType),
			zap.Error(err),
		}
		if payload != nil {
			fields = append(fields,
				zap.Int("payload_size", len(payload)),
				zap.Uint64("payload_checksum", hash.Checksum(payload)))
		}
		bd.mode.logger.Error("corrupt block", fields...)
	}

	return err
}

// Clone returns an independent decompressor for the same mode.
func (bd *BlockDecompressor) Clone() (*BlockDecompressor, error) {
	return bd.mode.NewDecompressor()
}

// Stats returns the cumulative statistics of this decompressor.
func (bd *BlockDecompressor) Stats() compress.CompressionStats {
	return bd.dec.Stats()
}

// Close releases the decompression context. Subsequent calls are no-ops.
func (bd *BlockDecompressor) Close() error {
	if bd.closed {
		return nil
	}

	bd.closed = true
	pool.PutScratch(bd.compressed)
	bd.compressed = nil

	return bd.dec.Close()
}
