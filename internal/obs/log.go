package obs

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.RWMutex
	logger   *zap.Logger
)

// LogOptions selects the encoder and level of the process logger.
type LogOptions struct {
	Level       string
	Development bool
}

// NewLogger builds a zap logger: JSON in production, colored console output
// in development.
func NewLogger(opts LogOptions) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
			return nil, err
		}
	}
	var cfg zap.Config
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = level
	return cfg.Build()
}

// Logger returns the shared structured logger used across the service.
func Logger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		built, err := NewLogger(LogOptions{})
		if err != nil {
			built = zap.NewNop()
		}
		logger = built
	}
	return logger
}

// SetLogger replaces the shared logger and returns a function restoring the
// previous one.
func SetLogger(l *zap.Logger) (restore func()) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	prev := logger
	logger = l
	loggerMu.Unlock()
	return func() {
		loggerMu.Lock()
		logger = prev
		loggerMu.Unlock()
	}
}
