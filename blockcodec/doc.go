// Package blockcodec frames compressed stored-field blocks for a chunk writer and
// reader.
//
// # Wire Format
//
// Each block is written as its payload length followed by the engine payload:
//
//	+-----------------------------+---------------------------+
//	| uvarint(len(payload))       | payload (len(payload) B)  |
//	+-----------------------------+---------------------------+
//
// The length is unsigned LEB128, the encoding of encoding/binary.PutUvarint.
// There is no checksum: the reader verifies every block against the raw length
// recorded in its own index. An empty raw block is a single 0x00 byte.
//
// # Usage
//
//	mode, err := blockcodec.NewMode(
//	    blockcodec.WithEngine(format.EngineZstd),
//	    blockcodec.WithLevel(blockcodec.DefaultLevel),
//	    blockcodec.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer mode.Close()
//
//	bc, err := mode.NewCompressor()
//	if err != nil {
//	    return err
//	}
//	defer bc.Close()
//
//	if err := bc.Compress(rawBlock, segment); err != nil {
//	    return err
//	}
//
// Reading back a sub-range of a block:
//
//	bd, err := mode.NewDecompressor()
//	if err != nil {
//	    return err
//	}
//	defer bd.Close()
//
//	doc, err := bd.Decompress(bufio.NewReader(segment), blockLen, docStart, docLen)
//
// # Dictionaries
//
// WithDictionary seeds every block of the mode. If the engine cannot use the
// dictionary (LZ4 and Snappy have no dictionary support), the mode logs a warning
// and compresses without it; readers configured the same way make the same choice.
//
// # Errors
//
// Corrupt blocks are reported with errors for which compress.IsCorruptData is true,
// logged at Error level with the payload checksum, and counted by Metrics.
package blockcodec
