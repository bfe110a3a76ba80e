package sink

import (
	"context"

	"go.uber.org/zap"

	"github.com/HerbHall/sysmon/internal/point"
)

// DebugSink logs points at debug level and writes nothing.
type DebugSink struct {
	logger *zap.Logger
}

// Compile-time guard.
var _ Sink = (*DebugSink)(nil)

// NewDebugSink creates a DebugSink.
func NewDebugSink(logger *zap.Logger) *DebugSink {
	return &DebugSink{logger: logger}
}

func (s *DebugSink) Write(_ context.Context, p point.Point) error {
	logPoint(s.logger, p)
	return nil
}

func (s *DebugSink) Enabled() bool { return false }
func (s *DebugSink) Close() error  { return nil }
