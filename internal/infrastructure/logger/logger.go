package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/config"
)

// Option customizes the logger built by NewLogger
type Option func(*options)

type options struct {
	output  zapcore.WriteSyncer
	service string
}

// WithOutput sends log entries to w instead of stdout.
// The CLI uses this to keep stdout for results.
func WithOutput(w zapcore.WriteSyncer) Option {
	return func(o *options) { o.output = w }
}

// WithService tags every entry with a service field
func WithService(name string) Option {
	return func(o *options) { o.service = name }
}

// ParseLevel returns the zap level for s, falling back to info
func ParseLevel(s string) zapcore.Level {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// NewLogger creates a new zap logger
func NewLogger(cfg *config.LogConfig, opts ...Option) (*zap.Logger, error) {
	o := options{output: zapcore.AddSync(os.Stdout)}
	for _, opt := range opts {
		opt(&o)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, o.output, ParseLevel(cfg.Level))

	zapOpts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if o.service != "" {
		zapOpts = append(zapOpts, zap.Fields(zap.String("service", o.service)))
	}

	return zap.New(core, zapOpts...), nil
}
