package blockcodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLayout(t *testing.T) {
	require.Equal(t, 128*1024, DefaultLayout.BlockSize)
	require.Equal(t, 1024, DefaultLayout.MaxDocsPerChunk)
	require.Equal(t, 10, DefaultLayout.BlockShift)
	require.Equal(t, 1024, DefaultLayout.ChunksPerIndexBlock())
}

func TestLayout_ShouldFlush(t *testing.T) {
	tests := []struct {
		name string
		docs int
		size int
		want bool
	}{
		{"empty", 0, 0, false},
		{"below both limits", 10, 4096, false},
		{"doc limit", 1024, 100, true},
		{"size limit", 3, 128 * 1024, true},
		{"just below size", 1023, 128*1024 - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DefaultLayout.ShouldFlush(tt.docs, tt.size))
		})
	}
}
