package format

type EngineType uint8

const (
	EngineZstd   EngineType = 0x1 // EngineZstd represents Zstandard block compression.
	EngineS2     EngineType = 0x2 // EngineS2 represents S2 block compression.
	EngineLZ4    EngineType = 0x3 // EngineLZ4 represents LZ4 block compression.
	EngineSnappy EngineType = 0x4 // EngineSnappy represents Snappy block compression.
)

func (e EngineType) String() string {
	switch e {
	case EngineZstd:
		return "Zstd"
	case EngineS2:
		return "S2"
	case EngineLZ4:
		return "LZ4"
	case EngineSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}

// IsValid reports whether e names a known engine.
func (e EngineType) IsValid() bool {
	switch e {
	case EngineZstd, EngineS2, EngineLZ4, EngineSnappy:
		return true
	default:
		return false
	}
}
