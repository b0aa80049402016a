package blockcodec

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/arloliu/fieldcodec/format"
	"github.com/arloliu/fieldcodec/internal/options"
)

// ModeOption configures a Mode.
type ModeOption = options.Option[*Mode]

// WithEngine selects the compression engine. The default is zstd.
func WithEngine(engineType format.EngineType) ModeOption {
	return options.New(func(m *Mode) error {
		if !engineType.IsValid() {
			return errors.Newf("invalid engine type: %s (0x%02x)", engineType, uint8(engineType))
		}
		m.engineType = engineType

		return nil
	})
}

// WithLevel sets the compression level. It is checked against the engine's range
// when the mode is built. The default is the engine's default level.
func WithLevel(level int) ModeOption {
	return options.NoError(func(m *Mode) {
		m.level = level
		m.levelSet = true
	})
}

// WithDictionary seeds every block with dict. The bytes are copied. An empty
// dictionary means no dictionary.
func WithDictionary(dict []byte) ModeOption {
	return options.NoError(func(m *Mode) {
		m.dictBytes = append([]byte(nil), dict...)
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) ModeOption {
	return options.New(func(m *Mode) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		m.logger = logger

		return nil
	})
}

// WithMetrics records block counters into metrics.
func WithMetrics(metrics *Metrics) ModeOption {
	return options.NoError(func(m *Mode) {
		m.metrics = metrics
	})
}
