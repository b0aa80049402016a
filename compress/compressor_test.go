package compress

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldcodec/format"
)

func TestCompressor_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":     {},
		"abc":       {0x41, 0x42, 0x43},
		"documents": documentBlock(40),
		"block":     generateBenchmarkData(128*1024, "compressible"),
	}

	for _, et := range allEngineTypes {
		eng := mustEngine(t, et)
		minLevel, maxLevel, defLevel := eng.LevelRange()

		for _, level := range []int{minLevel, defLevel, maxLevel} {
			for name, input := range inputs {
				t.Run(fmt.Sprintf("%s/level_%d/%s", et, level, name), func(t *testing.T) {
					c, err := NewCompressor(eng)
					require.NoError(t, err)
					defer c.Close()

					d, err := NewDecompressor(eng)
					require.NoError(t, err)
					defer d.Close()

					compressed, err := c.Compress(input, level, nil)
					require.NoError(t, err)

					got, err := d.Decompress(compressed, len(input), nil)
					require.NoError(t, err)
					require.Len(t, got, len(input))
					if len(input) > 0 {
						require.Equal(t, input, got)
					}
				})
			}
		}
	}
}

func TestCompressor_ABCAtDefaultLevel(t *testing.T) {
	eng := mustEngine(t, format.EngineZstd)

	c, err := NewCompressor(eng)
	require.NoError(t, err)
	defer c.Close()

	d, err := NewDecompressor(eng)
	require.NoError(t, err)
	defer d.Close()

	compressed, err := c.Compress([]byte{0x41, 0x42, 0x43}, 3, nil)
	require.NoError(t, err)
	require.NotEmpty(t, compressed)

	got, err := d.Decompress(compressed, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0x41, 0x42, 0x43}, got)
}

func TestCompressor_EmptyInputSkipsEngine(t *testing.T) {
	stub := newStubEngine()

	c, err := NewCompressor(stub)
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress(nil, 3, nil)
	require.NoError(t, err)
	require.Empty(t, compressed)
	require.Equal(t, 0, stub.calls)

	d, err := NewDecompressor(stub)
	require.NoError(t, err)
	defer d.Close()

	got, err := d.Decompress(compressed, 0, nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, 0, stub.calls)
}

func TestCompressor_GrowingBlocksReuseOneInstance(t *testing.T) {
	for _, et := range allEngineTypes {
		t.Run(et.String(), func(t *testing.T) {
			eng := mustEngine(t, et)
			level := defaultLevel(eng)

			c, err := NewCompressor(eng)
			require.NoError(t, err)
			defer c.Close()

			d, err := NewDecompressor(eng)
			require.NoError(t, err)
			defer d.Close()

			for _, size := range []int{1, 100, 4096, 64 * 1024, 300 * 1024, 10} {
				input := generateBenchmarkData(size, "semi_compressible")

				compressed, err := c.Compress(input, level, nil)
				require.NoError(t, err)

				got, err := d.Decompress(compressed, size, nil)
				require.NoError(t, err, "size %d", size)
				require.Equal(t, input, got, "size %d", size)
			}
		})
	}
}

func TestCompressor_CopiedResultSurvivesNextCall(t *testing.T) {
	eng := mustEngine(t, format.EngineZstd)

	c, err := NewCompressor(eng)
	require.NoError(t, err)
	defer c.Close()

	d, err := NewDecompressor(eng)
	require.NoError(t, err)
	defer d.Close()

	first := documentBlock(3)
	compressed, err := c.Compress(first, 3, nil)
	require.NoError(t, err)
	saved := append([]byte(nil), compressed...)

	_, err = c.Compress(documentBlock(30), 3, nil)
	require.NoError(t, err)

	got, err := d.Decompress(saved, len(first), nil)
	require.NoError(t, err)
	require.Equal(t, first, got)
}

func TestCompressor_Close(t *testing.T) {
	c, err := NewCompressor(mustEngine(t, format.EngineZstd))
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close(), "second Close must be a no-op")

	_, err = c.Compress([]byte("abc"), 3, nil)
	require.ErrorIs(t, err, ErrClosed)
}

func TestNewCompressor_AllocationFailure(t *testing.T) {
	stub := newStubEngine()
	stub.failContexts = true

	_, err := NewCompressor(stub)
	require.Error(t, err)

	var allocErr *AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, "compression context", allocErr.Resource)
	require.ErrorIs(t, err, ErrAllocation)
	require.ErrorIs(t, err, errStub)
}

func TestCompressor_EngineFailure(t *testing.T) {
	stub := newStubEngine()

	c, err := NewCompressor(stub)
	require.NoError(t, err)
	defer c.Close()

	stub.failOps = true
	_, err = c.Compress([]byte("abc"), 3, nil)
	require.Error(t, err)

	var compErr *CompressionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, errStub.Error(), compErr.Msg)
	require.ErrorIs(t, err, ErrCompression)
	assert.False(t, IsCorruptData(err))
}

func TestCompressor_BoundOverflow(t *testing.T) {
	stub := newStubEngine()
	stub.bound = -1

	c, err := NewCompressor(stub)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Compress([]byte("abc"), 3, nil)
	require.ErrorIs(t, err, ErrCompression)
	assert.Contains(t, err.Error(), "exceeds")
	assert.Equal(t, 0, stub.calls)
}

func TestCompressor_Stats(t *testing.T) {
	eng := mustEngine(t, format.EngineZstd)

	c, err := NewCompressor(eng)
	require.NoError(t, err)
	defer c.Close()

	input := generateBenchmarkData(16*1024, "compressible")
	var total int
	for i := 0; i < 3; i++ {
		compressed, err := c.Compress(input, 3, nil)
		require.NoError(t, err)
		total += len(compressed)
	}

	_, err = c.Compress(nil, 3, nil)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, eng.Type(), stats.Engine)
	assert.Equal(t, int64(3), stats.Blocks)
	assert.Equal(t, int64(3*len(input)), stats.OriginalSize)
	assert.Equal(t, int64(total), stats.CompressedSize)
	assert.Less(t, stats.CompressionRatio(), 1.0)
}

func TestCompressor_ConcurrentInstances(t *testing.T) {
	eng := mustEngine(t, format.EngineZstd)
	input := documentBlock(20)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			c, err := NewCompressor(eng)
			if err != nil {
				errs <- err
				return
			}
			defer c.Close()

			d, err := NewDecompressor(eng)
			if err != nil {
				errs <- err
				return
			}
			defer d.Close()

			for j := 0; j < 20; j++ {
				compressed, err := c.Compress(input, 3, nil)
				if err != nil {
					errs <- err
					return
				}
				if _, err := d.Decompress(compressed, len(input), nil); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
