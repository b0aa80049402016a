package engine

import (
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/s2"

	"github.com/arloliu/fieldcodec/format"
)

// S2 compression levels.
const (
	S2LevelFast   = 1
	S2LevelBetter = 2
	S2LevelBest   = 3
)

// S2Engine compresses blocks with github.com/klauspost/compress/s2.
//
// S2 is stateless, so its contexts only track ownership. Dictionaries are raw
// history of at least s2.MinDictSize bytes; only the last s2.MaxDictSize bytes
// are used. Blocks compressed with a dictionary carry its ID in a 4-byte trailer.
type S2Engine struct{}

var _ Engine = S2Engine{}

// NewS2Engine creates a new S2 engine.
func NewS2Engine() S2Engine {
	return S2Engine{}
}

func (S2Engine) Type() format.EngineType {
	return format.EngineS2
}

func (S2Engine) LevelRange() (int, int, int) {
	return S2LevelFast, S2LevelBest, S2LevelFast
}

func (S2Engine) CompressBound(n int) int {
	bound := s2.MaxEncodedLen(n)
	if bound < 0 {
		return bound
	}

	return bound + dictTrailerLen
}

func (S2Engine) FrameContentSize(src []byte) (int64, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return ContentSizeUnknown, err
	}

	return int64(n), nil
}

func (S2Engine) NewCompressionContext() (CompressionContext, error) {
	return s2Ctx{}, nil
}

func (S2Engine) NewDecompressionContext() (DecompressionContext, error) {
	return s2Ctx{}, nil
}

func (S2Engine) NewCompressionDict(dict []byte, level int) (CompressionDict, error) {
	d, err := makeS2Dict(dict)
	if err != nil {
		return nil, err
	}

	return &s2CDict{dict: d, level: level, id: dictID(dict)}, nil
}

func (S2Engine) NewDecompressionDict(dict []byte) (DecompressionDict, error) {
	d, err := makeS2Dict(dict)
	if err != nil {
		return nil, err
	}

	return &s2DDict{dict: d, id: dictID(dict)}, nil
}

func makeS2Dict(dict []byte) (*s2.Dict, error) {
	if len(dict) == 0 {
		return nil, ErrEmptyDict
	}

	d := s2.MakeDict(cloneBytes(dict), nil)
	if d == nil {
		return nil, errors.Newf("s2 dictionary needs at least %d bytes, got %d", s2.MinDictSize, len(dict))
	}

	return d, nil
}

type s2Ctx struct{}

func (s2Ctx) Compress(dst, src []byte, level int) (int, error) {
	switch {
	case level >= S2LevelBest:
		return fit(dst, s2.EncodeBest(dst, src))
	case level == S2LevelBetter:
		return fit(dst, s2.EncodeBetter(dst, src))
	default:
		return fit(dst, s2.Encode(dst, src))
	}
}

func (s2Ctx) CompressDict(dst, src []byte, dict CompressionDict) (int, error) {
	d, ok := dict.(*s2CDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	body, err := reserveDict(dst)
	if err != nil {
		return 0, err
	}

	var out []byte
	switch {
	case d.level >= S2LevelBest:
		out = d.dict.EncodeBest(body, src)
	case d.level == S2LevelBetter:
		out = d.dict.EncodeBetter(body, src)
	default:
		out = d.dict.Encode(body, src)
	}

	n, err := fit(body, out)
	if err != nil {
		return 0, err
	}

	return sealDict(dst, n, d.id)
}

func (s2Ctx) Decompress(dst, src []byte) (int, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return 0, err
	}

	if n > len(dst) {
		return 0, ErrDstSizeTooSmall
	}

	out, err := s2.Decode(dst, src)
	if err != nil {
		return 0, err
	}

	return fit(dst, out)
}

func (s2Ctx) DecompressDict(dst, src []byte, dict DecompressionDict) (int, error) {
	d, ok := dict.(*s2DDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	body, err := openDict(src, d.id)
	if err != nil {
		return 0, err
	}

	n, err := s2.DecodedLen(body)
	if err != nil {
		return 0, err
	}

	if n > len(dst) {
		return 0, ErrDstSizeTooSmall
	}

	out, err := d.dict.Decode(dst, body)
	if err != nil {
		return 0, err
	}

	return fit(dst, out)
}

func (s2Ctx) Release() {}

type s2CDict struct {
	dict  *s2.Dict
	level int
	id    uint32
}

func (*s2CDict) Release() {}

type s2DDict struct {
	dict *s2.Dict
	id   uint32
}

func (*s2DDict) Release() {}
