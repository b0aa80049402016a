package blockcodec

// DefaultLevel is the compression level used when none is configured and the
// engine is zstd.
const DefaultLevel = 3

// Layout describes how a stored-fields writer cuts documents into blocks. The codec
// itself compresses whatever block it is given; the layout is published for the
// chunk writer so both sides agree on sizes.
type Layout struct {
	// BlockSize is the number of raw bytes that triggers a flush.
	BlockSize int

	// MaxDocsPerChunk is the number of documents that triggers a flush.
	MaxDocsPerChunk int

	// BlockShift is log2 of the number of chunks summarized by one index block.
	BlockShift int
}

// DefaultLayout is the layout stored-fields writers use with this codec.
var DefaultLayout = Layout{
	BlockSize:       128 * 1024,
	MaxDocsPerChunk: 1024,
	BlockShift:      10,
}

// ChunksPerIndexBlock returns the number of chunks covered by one index block.
func (l Layout) ChunksPerIndexBlock() int {
	return 1 << l.BlockShift
}

// ShouldFlush reports whether a pending chunk of docs documents and size raw bytes
// must be compressed now.
func (l Layout) ShouldFlush(docs, size int) bool {
	return docs >= l.MaxDocsPerChunk || size >= l.BlockSize
}
