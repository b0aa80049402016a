package compress

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldcodec/engine"
	"github.com/arloliu/fieldcodec/format"
)

func compressForTest(t *testing.T, eng engine.Engine, input []byte) []byte {
	t.Helper()

	c, err := NewCompressor(eng)
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress(input, defaultLevel(eng), nil)
	require.NoError(t, err)

	return append([]byte(nil), compressed...)
}

func TestDecompressor_WrongOriginalLength(t *testing.T) {
	input := documentBlock(10)

	for _, et := range allEngineTypes {
		t.Run(et.String(), func(t *testing.T) {
			eng := mustEngine(t, et)
			compressed := compressForTest(t, eng, input)

			d, err := NewDecompressor(eng)
			require.NoError(t, err)
			defer d.Close()

			for _, length := range []int{len(input) - 1, len(input) + 1, 1, len(input) * 2} {
				_, err := d.Decompress(compressed, length, nil)
				require.Error(t, err, "length %d", length)
				assert.True(t, IsCorruptData(err), "length %d: %v", length, err)
			}

			// The context stays usable after corruption.
			got, err := d.Decompress(compressed, len(input), nil)
			require.NoError(t, err)
			require.Equal(t, input, got)
		})
	}
}

func TestDecompressor_NegativeLength(t *testing.T) {
	d, err := NewDecompressor(mustEngine(t, format.EngineZstd))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Decompress([]byte{0x01}, -1, nil)
	require.True(t, IsCorruptData(err))
	assert.Contains(t, err.Error(), "negative original length")
}

func TestDecompressor_EmptyPayload(t *testing.T) {
	d, err := NewDecompressor(mustEngine(t, format.EngineZstd))
	require.NoError(t, err)
	defer d.Close()

	got, err := d.Decompress(nil, 0, nil)
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = d.Decompress(nil, 10, nil)
	require.True(t, IsCorruptData(err))
}

func TestDecompressor_Truncated(t *testing.T) {
	input := documentBlock(20)

	for _, et := range allEngineTypes {
		t.Run(et.String(), func(t *testing.T) {
			eng := mustEngine(t, et)
			compressed := compressForTest(t, eng, input)

			d, err := NewDecompressor(eng)
			require.NoError(t, err)
			defer d.Close()

			_, err = d.Decompress(compressed[:len(compressed)/2], len(input), nil)
			require.Error(t, err)
			assert.True(t, IsCorruptData(err) || errors.Is(err, ErrDecompression), "unexpected error: %v", err)
		})
	}
}

func TestDecompressor_Garbage(t *testing.T) {
	garbage := []byte("this is not a compressed block at all")

	for _, et := range []format.EngineType{format.EngineZstd, format.EngineS2, format.EngineSnappy} {
		t.Run(et.String(), func(t *testing.T) {
			d, err := NewDecompressor(mustEngine(t, et))
			require.NoError(t, err)
			defer d.Close()

			_, err = d.Decompress(garbage, 64, nil)
			require.Error(t, err)
			assert.True(t, IsCorruptData(err) || errors.Is(err, ErrDecompression), "unexpected error: %v", err)
		})
	}
}

func TestDecompressor_EngineFailure(t *testing.T) {
	stub := newStubEngine()
	compressed := compressForTest(t, stub, []byte("abcabcabc"))

	d, err := NewDecompressor(stub)
	require.NoError(t, err)
	defer d.Close()

	stub.failOps = true
	_, err = d.Decompress(compressed, 9, nil)
	require.Error(t, err)

	var decErr *DecompressionError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, errStub.Error(), decErr.Msg)
	require.ErrorIs(t, err, ErrDecompression)
	assert.False(t, IsCorruptData(err))
}

func TestNewDecompressor_AllocationFailure(t *testing.T) {
	stub := newStubEngine()
	stub.failContexts = true

	_, err := NewDecompressor(stub)
	require.ErrorIs(t, err, ErrAllocation)

	var allocErr *AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, "decompression context", allocErr.Resource)
}

func TestDecompressor_Close(t *testing.T) {
	d, err := NewDecompressor(mustEngine(t, format.EngineZstd))
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err = d.Decompress([]byte{0x01}, 1, nil)
	require.ErrorIs(t, err, ErrClosed)
}

func TestDecompressor_Stats(t *testing.T) {
	eng := mustEngine(t, format.EngineS2)
	input := documentBlock(5)
	compressed := compressForTest(t, eng, input)

	d, err := NewDecompressor(eng)
	require.NoError(t, err)
	defer d.Close()

	for i := 0; i < 4; i++ {
		_, err := d.Decompress(compressed, len(input), nil)
		require.NoError(t, err)
	}

	// Failed calls are not counted.
	_, err = d.Decompress(compressed, len(input)+1, nil)
	require.Error(t, err)

	stats := d.Stats()
	assert.Equal(t, format.EngineS2, stats.Engine)
	assert.Equal(t, int64(4), stats.Blocks)
	assert.Equal(t, int64(4*len(input)), stats.OriginalSize)
	assert.Equal(t, int64(4*len(compressed)), stats.CompressedSize)
}
