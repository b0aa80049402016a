// Package compress wraps engine contexts and dictionaries with ownership,
// buffer management and error classification.
//
// # Overview
//
// The package sits between the block codec and the engine bindings:
//
//	blockcodec.BlockCompressor ──► compress.Compressor   ──► engine.CompressionContext
//	blockcodec.BlockDecompressor ─► compress.Decompressor ─► engine.DecompressionContext
//	blockcodec.Mode ─────────────► compress.DictionaryManager ─► engine dictionaries
//
// A Compressor or Decompressor owns exactly one engine context and one scratch
// buffer. Both are reused for every call and freed by Close, which is idempotent.
// Dictionaries are built by a DictionaryManager, copied from the caller's bytes,
// and may be shared read-only across goroutines.
//
// # Usage
//
//	c, err := compress.NewCompressor(engine.Default())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	payload, err := c.Compress(raw, 3, nil)
//
//	d, err := compress.NewDecompressor(engine.Default())
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
//	original, err := d.Decompress(payload, len(raw), nil)
//
// Returned slices alias the scratch buffer of the Compressor or Decompressor and
// are valid until its next call. Copy them, or write them out, before calling again.
//
// # Errors
//
//   - *AllocationError (errors.Is ErrAllocation): the engine could not create a
//     context or a dictionary. Dictionary rejections such as engine.ErrDictUnsupported
//     stay reachable with errors.Is.
//   - *CompressionError, *DecompressionError (ErrCompression, ErrDecompression): the
//     engine failed; Msg carries the library's own message.
//   - Corrupt data (IsCorruptData): the block does not decompress to exactly the
//     expected length, declares a different content size, or is truncated.
//   - ErrClosed: a closed Compressor, Decompressor or manager, or a released
//     dictionary, was used.
//
// Corruption is never retried and never yields partial output.
package compress
