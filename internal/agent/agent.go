// Package agent runs the collect, shape, build and dispatch cycle on a
// fixed period.
package agent

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/HerbHall/sysmon/internal/metrics"
	"github.com/HerbHall/sysmon/internal/point"
	"github.com/HerbHall/sysmon/internal/shaper"
	"github.com/HerbHall/sysmon/internal/sink"
	"github.com/HerbHall/sysmon/internal/telemetry"
)

// Agent is the host metrics agent.
type Agent struct {
	config    *Config
	collector metrics.Collector
	sink      sink.Sink
	telemetry *telemetry.Metrics
	logger    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewAgent creates a new agent. tm may be nil.
func NewAgent(config *Config, collector metrics.Collector, s sink.Sink, tm *telemetry.Metrics, logger *zap.Logger) *Agent {
	return &Agent{
		config:    config,
		collector: collector,
		sink:      s,
		telemetry: tm,
		logger:    logger,
	}
}

// Run runs one cycle immediately and then one per period until ctx is
// cancelled or Stop is called. Cycles never overlap and a failed cycle
// does not stop the loop.
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	defer cancel()

	a.telemetry.SetWriteEnabled(a.sink.Enabled())
	a.logger.Info("sysmon agent starting",
		zap.String("hostname", a.config.Hostname),
		zap.String("platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		zap.Duration("period", a.config.Period),
		zap.Bool("write_enabled", a.sink.Enabled()),
	)

	_, _ = a.Cycle(ctx)

	ticker := time.NewTicker(a.config.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("sysmon agent shutting down")
			return nil
		case <-ticker.C:
			_, _ = a.Cycle(ctx)
		}
	}
}

// Stop signals the agent to shut down.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Cycle collects one sample and dispatches it as a point. Reader failures
// are logged and the partial point is still dispatched; the returned error
// is the dispatch error, if any. The built point is returned either way.
func (a *Agent) Cycle(ctx context.Context) (point.Point, error) {
	if err := ctx.Err(); err != nil {
		return point.Point{}, err
	}
	a.telemetry.CycleStarted()

	sample, err := a.collector.Collect(ctx)
	if sample == nil {
		sample = &metrics.Sample{}
	}
	a.logReaderErrors(err)

	fields := shaper.Shape(*sample, a.config.Shape)
	a.telemetry.Shaped(len(fields))
	p := point.Build(fields, a.config.Hostname)

	start := time.Now()
	err = a.sink.Write(ctx, p)
	a.telemetry.Dispatched(time.Since(start), err)
	if err != nil {
		a.logger.Error("failed to write point",
			zap.Int("fields", len(fields)),
			zap.Error(err),
		)
		return p, err
	}

	a.logger.Debug("cycle complete", zap.Int("fields", len(fields)))
	return p, nil
}

func (a *Agent) logReaderErrors(err error) {
	for _, e := range multierr.Errors(err) {
		family := "unknown"
		item := ""
		var re *metrics.ReaderError
		if errors.As(e, &re) {
			family, item = re.Family, re.Item
		}
		a.telemetry.ReaderFailed(family)
		a.logger.Warn("metric reader failed",
			zap.String("family", family),
			zap.String("item", item),
			zap.Error(e),
		)
	}
}
