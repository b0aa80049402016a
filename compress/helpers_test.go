package compress

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldcodec/engine"
	"github.com/arloliu/fieldcodec/format"
)

var allEngineTypes = []format.EngineType{
	format.EngineZstd,
	format.EngineS2,
	format.EngineLZ4,
	format.EngineSnappy,
}

var dictEngineTypes = []format.EngineType{
	format.EngineZstd,
	format.EngineS2,
}

// documentBlock renders docs fake documents as concatenated stored fields.
func documentBlock(docs int) []byte {
	var sb strings.Builder
	for i := 0; i < docs; i++ {
		fmt.Fprintf(&sb, "id=%d;title=%s;author=%s;country=%s;body=%s\n",
			i,
			randomdata.SillyName(),
			randomdata.FullName(randomdata.RandomGender),
			randomdata.Country(randomdata.FullCountry),
			randomdata.Paragraph(),
		)
	}

	return []byte(sb.String())
}

func fieldDictionary() []byte {
	return bytes.Repeat([]byte("id=;title=;author=;country=;body=;"), 64)
}

func mustEngine(t testing.TB, et format.EngineType) engine.Engine {
	t.Helper()

	eng, err := engine.New(et)
	require.NoError(t, err)

	return eng
}

func defaultLevel(eng engine.Engine) int {
	_, _, def := eng.LevelRange()
	return def
}

var errStub = errors.New("stub engine failure")

// stubEngine fails on demand and counts engine calls.
type stubEngine struct {
	engine.Engine

	failContexts bool
	failDicts    bool
	failOps      bool
	bound        int
	calls        int
}

func newStubEngine() *stubEngine {
	return &stubEngine{Engine: engine.Default()}
}

func (s *stubEngine) CompressBound(n int) int {
	if s.bound != 0 {
		return s.bound
	}

	return s.Engine.CompressBound(n)
}

func (s *stubEngine) NewCompressionContext() (engine.CompressionContext, error) {
	if s.failContexts {
		return nil, errStub
	}

	ctx, err := s.Engine.NewCompressionContext()
	if err != nil {
		return nil, err
	}

	return &stubCCtx{CompressionContext: ctx, eng: s}, nil
}

func (s *stubEngine) NewDecompressionContext() (engine.DecompressionContext, error) {
	if s.failContexts {
		return nil, errStub
	}

	ctx, err := s.Engine.NewDecompressionContext()
	if err != nil {
		return nil, err
	}

	return &stubDCtx{DecompressionContext: ctx, eng: s}, nil
}

func (s *stubEngine) NewCompressionDict(dict []byte, level int) (engine.CompressionDict, error) {
	if s.failDicts {
		return nil, errStub
	}

	return s.Engine.NewCompressionDict(dict, level)
}

type stubCCtx struct {
	engine.CompressionContext
	eng *stubEngine
}

func (c *stubCCtx) Compress(dst, src []byte, level int) (int, error) {
	c.eng.calls++
	if c.eng.failOps {
		return 0, errStub
	}

	return c.CompressionContext.Compress(dst, src, level)
}

type stubDCtx struct {
	engine.DecompressionContext
	eng *stubEngine
}

func (c *stubDCtx) Decompress(dst, src []byte) (int, error) {
	c.eng.calls++
	if c.eng.failOps {
		return 0, errStub
	}

	return c.DecompressionContext.Decompress(dst, src)
}
