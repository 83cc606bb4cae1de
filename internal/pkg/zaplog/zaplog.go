// Package zaplog builds the zap sink behind the kratos log.Logger from
// the log section of the configuration.
package zaplog

import (
	"fmt"

	"linkstats/internal/conf"

	kzap "github.com/go-kratos/kratos/contrib/log/zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger from c: "json" or "console" output, with
// records below c.Level dropped.
func NewLogger(c *conf.Log) (*kzap.Logger, error) {
	zlog, err := newZap(c)
	if err != nil {
		return nil, err
	}
	return kzap.NewLogger(zlog), nil
}

func newZap(c *conf.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	var cfg zap.Config
	switch c.Format {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", c.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	// kratos adds its own ts and caller keys.
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.CallerKey = ""
	cfg.DisableStacktrace = true

	return cfg.Build()
}
