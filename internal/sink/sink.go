// Package sink decides whether points are written to InfluxDB and
// provides the sinks that receive them.
package sink

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/sysmon/internal/config"
	"github.com/HerbHall/sysmon/internal/point"
)

// ErrInsufficientConfig means the InfluxDB host, port or database is unset.
var ErrInsufficientConfig = errors.New("influxdb connection variables are insufficient")

// ErrWriteTimeout is returned when a write does not finish in time.
var ErrWriteTimeout = errors.New("write timed out")

// Sink receives one point per collection cycle.
type Sink interface {
	Write(ctx context.Context, p point.Point) error
	// Enabled reports whether writes leave the process.
	Enabled() bool
	Close() error
}

// Decision is the outcome of the connectivity policy.
type Decision struct {
	Enabled bool
	// Err is ErrInsufficientConfig when writing was requested but the
	// configuration cannot support it.
	Err error
}

// Decide applies the connectivity policy. skip is the operator's explicit
// request not to use the database; it wins without validating cfg.
func Decide(cfg config.Sink, skip bool) Decision {
	if skip {
		return Decision{}
	}
	if !cfg.Valid() {
		return Decision{Err: ErrInsufficientConfig}
	}
	return Decision{Enabled: true}
}

// Options configure the InfluxDB sink.
type Options struct {
	// WriteTimeout bounds a single write.
	WriteTimeout time.Duration
}

// Open applies the connectivity policy once and returns the sink to use for
// the life of the process. It never fails: an insufficient configuration or
// a client that cannot be created degrades to the debug sink.
func Open(cfg config.Sink, skip bool, opts Options, logger *zap.Logger) Sink {
	d := Decide(cfg, skip)
	switch {
	case d.Err != nil:
		logger.Warn("influxdb connection variables are insufficient; enabling debug mode",
			zap.Object("influxdb", cfg),
			zap.Error(d.Err),
		)
		return NewDebugSink(logger)
	case !d.Enabled:
		logger.Debug("not connecting to database")
		return NewDebugSink(logger)
	}

	s, err := NewInfluxSink(cfg, opts, logger)
	if err != nil {
		logger.Error("failed to create influxdb client; enabling debug mode",
			zap.Object("influxdb", cfg),
			zap.Error(err),
		)
		return NewDebugSink(logger)
	}
	return s
}

func logPoint(logger *zap.Logger, p point.Point) {
	logger.Debug("point",
		zap.String("measurement", p.Measurement),
		zap.Any("tags", p.Tags),
		zap.Any("fields", map[string]interface{}(p.Fields)),
	)
}
