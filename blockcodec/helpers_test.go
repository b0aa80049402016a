package blockcodec

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldcodec/format"
)

var allEngineTypes = []format.EngineType{
	format.EngineZstd,
	format.EngineS2,
	format.EngineLZ4,
	format.EngineSnappy,
}

type storedDoc struct {
	fields []byte
}

// randomDocs renders n fake documents as stored fields.
func randomDocs(n int) []storedDoc {
	docs := make([]storedDoc, n)
	for i := range docs {
		docs[i].fields = []byte(fmt.Sprintf("id=%d;title=%s;author=%s;street=%s;published=%s;body=%s\n",
			i,
			randomdata.Noun(),
			randomdata.FullName(randomdata.RandomGender),
			randomdata.Street(),
			randomdata.FullDate(),
			randomdata.Paragraph(),
		))
	}

	return docs
}

// chunk concatenates docs into one raw block and returns the start offset of each.
func chunk(docs []storedDoc) ([]byte, []int) {
	var sb strings.Builder
	offsets := make([]int, len(docs))
	for i, d := range docs {
		offsets[i] = sb.Len()
		sb.Write(d.fields)
	}

	return []byte(sb.String()), offsets
}

func storedFieldDictionary() []byte {
	return bytes.Repeat([]byte("id=;title=;author=;street=;published=;body=;"), 48)
}

func compressBlock(t *testing.T, mode *Mode, raw []byte) []byte {
	t.Helper()

	bc, err := mode.NewCompressor()
	require.NoError(t, err)
	defer bc.Close()

	var out bytes.Buffer
	require.NoError(t, bc.Compress(raw, &out))

	return out.Bytes()
}

func decompressBlock(t *testing.T, mode *Mode, framed []byte, originalLength int) []byte {
	t.Helper()

	bd, err := mode.NewDecompressor()
	require.NoError(t, err)
	defer bd.Close()

	got, err := bd.Decompress(bytes.NewReader(framed), originalLength, 0, originalLength)
	require.NoError(t, err)

	return append([]byte(nil), got...)
}

type failingWriter struct {
	failAfter int
	writes    int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.writes >= w.failAfter {
		return 0, fmt.Errorf("disk full after %d writes", w.writes)
	}
	w.writes++

	return len(p), nil
}
