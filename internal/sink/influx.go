package sink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
	"go.uber.org/zap"

	"github.com/HerbHall/sysmon/internal/config"
	"github.com/HerbHall/sysmon/internal/point"
)

// pointWriter is the subset of the InfluxDB client used by InfluxSink.
type pointWriter interface {
	Write(bp client.BatchPoints) error
	Close() error
}

// InfluxSink writes points to an InfluxDB 1.x database over HTTP. The
// client is created once and reused; failed writes are not retried.
type InfluxSink struct {
	client   pointWriter
	database string
	timeout  time.Duration
	logger   *zap.Logger
}

// Compile-time guard.
var _ Sink = (*InfluxSink)(nil)

// Addr returns the HTTP(S) base URL for cfg.
func Addr(cfg config.Sink) string {
	scheme := "http"
	if cfg.SSL {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(cfg.Host, cfg.Port)
}

// NewInfluxSink creates a client for cfg bound to cfg.Database.
func NewInfluxSink(cfg config.Sink, opts Options, logger *zap.Logger) (*InfluxSink, error) {
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = config.DefaultWriteTimeout
	}

	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     Addr(cfg),
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create influxdb client: %w", err)
	}

	logger.Info("influxdb client created",
		zap.String("addr", Addr(cfg)),
		zap.String("database", cfg.Database),
	)
	return newInfluxSink(c, cfg.Database, timeout, logger), nil
}

func newInfluxSink(w pointWriter, database string, timeout time.Duration, logger *zap.Logger) *InfluxSink {
	return &InfluxSink{
		client:   w,
		database: database,
		timeout:  timeout,
		logger:   logger,
	}
}

// Write sends p as a single-point batch. The write is abandoned after the
// configured timeout or when ctx is done.
func (s *InfluxSink) Write(ctx context.Context, p point.Point) error {
	logPoint(s.logger, p)

	bp, err := s.batch(p)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Run the write in a goroutine so the caller is released on timeout.
	done := make(chan error, 1)
	go func() {
		done <- s.client.Write(bp)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("write points: %w", err)
		}
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("write points: %w after %s", ErrWriteTimeout, s.timeout)
		}
		return fmt.Errorf("write points: %w", ctx.Err())
	}
}

func (s *InfluxSink) batch(p point.Point) (client.BatchPoints, error) {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{Database: s.database})
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	var ts []time.Time
	if !p.Time.IsZero() {
		ts = append(ts, p.Time)
	}
	pt, err := client.NewPoint(p.Measurement, p.Tags, map[string]interface{}(p.Fields), ts...)
	if err != nil {
		return nil, fmt.Errorf("create point: %w", err)
	}
	bp.AddPoint(pt)
	return bp, nil
}

func (s *InfluxSink) Enabled() bool { return true }

func (s *InfluxSink) Close() error {
	return s.client.Close()
}
