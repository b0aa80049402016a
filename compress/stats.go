package compress

import (
	"github.com/arloliu/fieldcodec/format"
)

// CompressionStats accumulates the work done by a Compressor or Decompressor.
//
// OriginalSize counts raw bytes and CompressedSize counts engine payload bytes,
// whichever direction the data flowed.
type CompressionStats struct {
	// Engine identifies the engine that did the work.
	Engine format.EngineType

	// Blocks is the number of non-empty blocks processed.
	Blocks int64

	// OriginalSize is the total size of the raw blocks.
	OriginalSize int64

	// CompressedSize is the total size of the engine payloads.
	CompressedSize int64

	// CompressionTimeNs is the time spent inside the engine compressing.
	CompressionTimeNs int64

	// DecompressionTimeNs is the time spent inside the engine decompressing.
	DecompressionTimeNs int64
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values less than 1.0 indicate successful compression.
// Returns 0.0 if nothing has been processed.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

// Add returns the sum of s and other. The engine of s is kept unless it is unset.
func (s CompressionStats) Add(other CompressionStats) CompressionStats {
	if !s.Engine.IsValid() {
		s.Engine = other.Engine
	}

	s.Blocks += other.Blocks
	s.OriginalSize += other.OriginalSize
	s.CompressedSize += other.CompressedSize
	s.CompressionTimeNs += other.CompressionTimeNs
	s.DecompressionTimeNs += other.DecompressionTimeNs

	return s
}
