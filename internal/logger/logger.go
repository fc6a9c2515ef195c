package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// NewLogger creates a zap logger.
// An empty format is derived from env: prod logs JSON, local/dev/docker log colored console output.
// level (if non-empty) overrides the default level: debug, info, warn, error.
func NewLogger(env, format, level string) (*zap.Logger, error) {
	if format == "" {
		switch env {
		case "prod":
			format = FormatJSON
		case "local", "dev", "docker":
			format = FormatConsole
		default:
			return nil, fmt.Errorf("unknown environment %q for logger", env)
		}
	}

	var cfg zap.Config
	switch format {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
