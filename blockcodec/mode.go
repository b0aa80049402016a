package blockcodec

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/arloliu/fieldcodec/compress"
	"github.com/arloliu/fieldcodec/engine"
	"github.com/arloliu/fieldcodec/format"
	"github.com/arloliu/fieldcodec/internal/options"
	"github.com/arloliu/fieldcodec/internal/pool"
)

// Mode is one compression configuration: an engine, a level and an optional
// dictionary. Block compressors and decompressors are created from it on demand.
//
// A Mode is safe for concurrent use. The compressors and decompressors it creates
// are not, and must be closed before the Mode.
type Mode struct {
	engineType format.EngineType
	level      int
	levelSet   bool
	dictBytes  []byte
	logger     *zap.Logger
	metrics    *Metrics

	eng    engine.Engine
	dicts  *compress.DictionaryManager
	cdict  *compress.CompressionDictionary
	ddict  *compress.DecompressionDictionary
	closed atomic.Bool
}

// NewMode creates a Mode configured by opts.
func NewMode(opts ...ModeOption) (*Mode, error) {
	m := &Mode{
		engineType: format.EngineZstd,
		logger:     zap.NewNop(),
	}

	if err := options.Apply(m, opts...); err != nil {
		return nil, err
	}

	eng, err := engine.New(m.engineType)
	if err != nil {
		return nil, err
	}

	minLevel, maxLevel, defLevel := eng.LevelRange()
	if !m.levelSet {
		m.level = defLevel
	}
	if m.level < minLevel || m.level > maxLevel {
		return nil, errors.Newf("compression level %d out of range [%d, %d] for %s", m.level, minLevel, maxLevel, m.engineType)
	}

	m.eng = eng
	m.dicts = compress.NewDictionaryManager(eng)
	if len(m.dictBytes) > 0 {
		m.loadDictionary()
	}

	return m, nil
}

// loadDictionary builds both dictionaries, or neither.
func (m *Mode) loadDictionary() {
	cdict, err := m.dicts.BuildCompressionDictionary(m.dictBytes, m.level)
	if err == nil {
		var ddict *compress.DecompressionDictionary
		ddict, err = m.dicts.BuildDecompressionDictionary(m.dictBytes)
		if err == nil {
			m.cdict, m.ddict = cdict, ddict
			return
		}
		cdict.Release()
	}

	m.logger.Warn("dictionary unavailable, compressing without it",
		zap.Stringer("engine", m.engineType),
		zap.Int("dict_size", len(m.dictBytes)),
		zap.Error(err))
	m.dictBytes = nil
}

// Engine returns the engine type of the mode.
func (m *Mode) Engine() format.EngineType {
	return m.engineType
}

// Level returns the compression level of the mode.
func (m *Mode) Level() int {
	return m.level
}

// HasDictionary reports whether blocks are compressed with a dictionary.
func (m *Mode) HasDictionary() bool {
	return m.cdict != nil
}

// DictionaryID returns the ID of the dictionary in use, or 0 without one.
func (m *Mode) DictionaryID() uint32 {
	if m.cdict == nil {
		return 0
	}

	return m.cdict.ID()
}

// NewCompressor creates a block compressor for this mode.
func (m *Mode) NewCompressor() (*BlockCompressor, error) {
	if m.closed.Load() {
		return nil, compress.ErrClosed
	}

	c, err := compress.NewCompressor(m.eng)
	if err != nil {
		return nil, err
	}

	return &BlockCompressor{
		mode:    m,
		comp:    c,
		staging: pool.GetScratch(),
	}, nil
}

// NewDecompressor creates a block decompressor for this mode.
func (m *Mode) NewDecompressor() (*BlockDecompressor, error) {
	if m.closed.Load() {
		return nil, compress.ErrClosed
	}

	d, err := compress.NewDecompressor(m.eng)
	if err != nil {
		return nil, err
	}

	return &BlockDecompressor{
		mode:       m,
		dec:        d,
		compressed: pool.GetScratch(),
	}, nil
}

// Close releases the dictionaries of the mode. Subsequent calls are no-ops.
func (m *Mode) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}

	return m.dicts.Close()
}
