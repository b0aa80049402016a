// Package engine binds the block compression libraries used by fieldcodec.
//
// An Engine hands out explicitly owned handles: compression and decompression
// contexts, and compression and decompression dictionaries. The compress package
// wraps them with lifecycle and locking rules; this package only translates between
// the libraries and a common shape.
//
// # Engines
//
//   - Zstd (format.EngineZstd): levels 1-22, dictionaries, content size in the frame.
//   - S2 (format.EngineS2): levels 1-3 (fast, better, best), dictionaries.
//   - LZ4 (format.EngineLZ4): levels 0-9, no dictionaries, content size unknown.
//   - Snappy (format.EngineSnappy): single level, no dictionaries.
//
// # Zstd bindings
//
// The zstd binding is chosen at build time, following the usual cgo/pure split:
//
//	go build                       // github.com/klauspost/compress/zstd (pure Go)
//	go build -tags gozstd          // github.com/valyala/gozstd (cgo)
//	go build -tags datadog         // github.com/DataDog/zstd (cgo)
//
// Plain blocks are regular zstd frames and decode with any binding. Blocks
// compressed with a dictionary are not portable between the pure and cgo
// bindings: the pure binding records a content-derived dictionary ID in the frame
// header, the cgo bindings append it after the frame.
//
// # Buffers
//
// Compress and Decompress write into the caller's dst and return the byte count.
// A library that cannot write in place has its output copied into dst; output that
// does not fit is reported as ErrDstSizeTooSmall, never truncated.
package engine
