package compress

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/arloliu/fieldcodec/engine"
	"github.com/arloliu/fieldcodec/format"
	"github.com/arloliu/fieldcodec/internal/hash"
)

// CompressionDictionary is an immutable compression dictionary bound to a level.
//
// It may be shared by any number of Compressors. Release must be called once the
// last of them is done with it.
type CompressionDictionary struct {
	content    []byte
	id         uint32
	level      int
	engineType format.EngineType
	dict       engine.CompressionDict
	released   atomic.Bool
}

// Bytes returns a copy of the dictionary content.
func (d *CompressionDictionary) Bytes() []byte {
	return slices.Clone(d.content)
}

// ID returns the content-derived dictionary ID.
func (d *CompressionDictionary) ID() uint32 {
	return d.id
}

// Level returns the compression level the dictionary was built for.
func (d *CompressionDictionary) Level() int {
	return d.level
}

// Engine returns the engine the dictionary was built by.
func (d *CompressionDictionary) Engine() format.EngineType {
	return d.engineType
}

// Release frees the engine dictionary. Subsequent calls are no-ops.
func (d *CompressionDictionary) Release() {
	if d == nil {
		return
	}

	if d.released.CompareAndSwap(false, true) {
		d.dict.Release()
	}
}

func (d *CompressionDictionary) handle() (engine.CompressionDict, error) {
	if d.released.Load() {
		return nil, ErrClosed
	}

	return d.dict, nil
}

// DecompressionDictionary is an immutable decompression dictionary.
//
// It may be shared by any number of Decompressors. Release must be called once the
// last of them is done with it.
type DecompressionDictionary struct {
	content    []byte
	id         uint32
	engineType format.EngineType
	dict       engine.DecompressionDict
	released   atomic.Bool
}

// Bytes returns a copy of the dictionary content.
func (d *DecompressionDictionary) Bytes() []byte {
	return slices.Clone(d.content)
}

// ID returns the content-derived dictionary ID.
func (d *DecompressionDictionary) ID() uint32 {
	return d.id
}

// Engine returns the engine the dictionary was built by.
func (d *DecompressionDictionary) Engine() format.EngineType {
	return d.engineType
}

// Release frees the engine dictionary. Subsequent calls are no-ops.
func (d *DecompressionDictionary) Release() {
	if d == nil {
		return
	}

	if d.released.CompareAndSwap(false, true) {
		d.dict.Release()
	}
}

func (d *DecompressionDictionary) handle() (engine.DecompressionDict, error) {
	if d.released.Load() {
		return nil, ErrClosed
	}

	return d.dict, nil
}

// DictionaryManager builds dictionaries on one engine and keeps track of them so
// Close can release whatever the caller left behind.
type DictionaryManager struct {
	mu     sync.Mutex
	eng    engine.Engine
	built  []interface{ Release() }
	closed bool
}

// NewDictionaryManager creates a dictionary manager for eng.
func NewDictionaryManager(eng engine.Engine) *DictionaryManager {
	return &DictionaryManager{eng: eng}
}

// BuildCompressionDictionary builds a compression dictionary from b for level.
// b is copied.
func (m *DictionaryManager) BuildCompressionDictionary(b []byte, level int) (*CompressionDictionary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	dict, err := m.eng.NewCompressionDict(b, level)
	if err != nil {
		return nil, &AllocationError{Resource: "compression dictionary", Err: err}
	}

	cd := &CompressionDictionary{
		content:    slices.Clone(b),
		id:         hash.DictID(b),
		level:      level,
		engineType: m.eng.Type(),
		dict:       dict,
	}
	m.built = append(m.built, cd)

	return cd, nil
}

// BuildDecompressionDictionary builds a decompression dictionary from b.
// b is copied.
func (m *DictionaryManager) BuildDecompressionDictionary(b []byte) (*DecompressionDictionary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	dict, err := m.eng.NewDecompressionDict(b)
	if err != nil {
		return nil, &AllocationError{Resource: "decompression dictionary", Err: err}
	}

	dd := &DecompressionDictionary{
		content:    slices.Clone(b),
		id:         hash.DictID(b),
		engineType: m.eng.Type(),
		dict:       dict,
	}
	m.built = append(m.built, dd)

	return dd, nil
}

// Close releases every dictionary built by m. Dictionaries already released by
// their owner are skipped.
func (m *DictionaryManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	for _, d := range m.built {
		d.Release()
	}
	m.built = nil

	return nil
}
