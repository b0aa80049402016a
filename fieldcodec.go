// Package fieldcodec compresses blocks of stored document fields.
//
// A stored-fields writer groups the raw field bytes of consecutive documents into
// blocks (see blockcodec.DefaultLayout) and hands each block to the codec, which
// appends a length-prefixed compressed payload to the segment. Readers hand the
// framed bytes back together with the raw block length from their index and get
// the block, or any document range inside it, back.
//
// # Core Features
//
//   - Zstandard, S2, LZ4 and Snappy block engines
//   - Optional shared dictionaries for small, similar blocks (Zstd, S2)
//   - Strict length verification: a block decodes to exactly its recorded size or
//     the read fails as corruption
//   - Reusable contexts and scratch buffers per compressor and decompressor
//   - Structured logging with zap and Prometheus counters
//
// # Basic Usage
//
//	mode, err := fieldcodec.NewMode(blockcodec.WithLevel(3))
//	if err != nil {
//	    return err
//	}
//	defer mode.Close()
//
//	framed, err := fieldcodec.EncodeBlock(mode, rawBlock)
//	if err != nil {
//	    return err
//	}
//
//	raw, err := fieldcodec.DecodeBlock(mode, framed, len(rawBlock))
//
// Compressing many blocks in parallel:
//
//	framedBlocks, err := fieldcodec.EncodeBlocks(ctx, mode, rawBlocks, 4)
//
// # Package Structure
//
// This package provides one-shot helpers around blockcodec. Writers and readers
// that process blocks in a loop should create a blockcodec.BlockCompressor or
// BlockDecompressor once and reuse it; the compress and engine packages expose
// the layers below.
package fieldcodec

import (
	"bytes"
	"context"
	"runtime"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/fieldcodec/blockcodec"
)

// NewMode creates a compression mode.
//
// Available options:
//   - blockcodec.WithEngine(format.EngineZstd|EngineS2|EngineLZ4|EngineSnappy)
//   - blockcodec.WithLevel(level)
//   - blockcodec.WithDictionary(dict)
//   - blockcodec.WithLogger(logger)
//   - blockcodec.WithMetrics(metrics)
//
// The default is zstd at level 3 without a dictionary.
func NewMode(opts ...blockcodec.ModeOption) (*blockcodec.Mode, error) {
	return blockcodec.NewMode(opts...)
}

// EncodeBlock compresses raw and returns the framed block.
func EncodeBlock(mode *blockcodec.Mode, raw []byte) ([]byte, error) {
	bc, err := mode.NewCompressor()
	if err != nil {
		return nil, err
	}
	defer bc.Close()

	var out bytes.Buffer
	if err := bc.Compress(raw, &out); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// DecodeBlock decompresses a framed block of originalLength raw bytes.
func DecodeBlock(mode *blockcodec.Mode, framed []byte, originalLength int) ([]byte, error) {
	return DecodeRange(mode, framed, originalLength, 0, originalLength)
}

// DecodeRange decompresses a framed block of originalLength raw bytes and returns
// the bytes [offset, offset+length) of it.
func DecodeRange(mode *blockcodec.Mode, framed []byte, originalLength, offset, length int) ([]byte, error) {
	bd, err := mode.NewDecompressor()
	if err != nil {
		return nil, err
	}
	defer bd.Close()

	got, err := bd.Decompress(bytes.NewReader(framed), originalLength, offset, length)
	if err != nil {
		return nil, err
	}

	return bytes.Clone(got), nil
}

// EncodeBlocks compresses blocks with up to concurrency workers and returns the
// framed blocks in input order. Each worker owns one compressor. A concurrency of
// zero or less uses GOMAXPROCS workers.
//
// ctx is checked between blocks. The first error cancels the remaining work.
func EncodeBlocks(ctx context.Context, mode *blockcodec.Mode, blocks [][]byte, concurrency int) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	concurrency = min(concurrency, len(blocks))

	framed := make([][]byte, len(blocks))
	var next atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < concurrency; w++ {
		g.Go(func() error {
			bc, err := mode.NewCompressor()
			if err != nil {
				return err
			}
			defer bc.Close()

			var out bytes.Buffer
			for {
				i := int(next.Add(1) - 1)
				if i >= len(blocks) {
					return nil
				}

				if err := gctx.Err(); err != nil {
					return err
				}

				out.Reset()
				if err := bc.Compress(blocks[i], &out); err != nil {
					return errors.Wrapf(err, "block %d", i)
				}
				framed[i] = bytes.Clone(out.Bytes())
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return framed, nil
}
