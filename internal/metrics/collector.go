// Package metrics reads host metrics, one reader per metric family.
package metrics

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Collector gathers one Sample from the host.
type Collector interface {
	// Collect always returns a sample. Families or disk paths that could
	// not be read are missing from it, and each failure is reported as a
	// *ReaderError combined into the returned error.
	Collect(ctx context.Context) (*Sample, error)
}

// NewCollector returns a Collector reading from provider, sampling disk
// usage for paths in the given order.
func NewCollector(provider Provider, paths []string, logger *zap.Logger) Collector {
	return &collector{
		provider: provider,
		paths:    append([]string(nil), paths...),
		logger:   logger,
	}
}

type collector struct {
	provider Provider
	paths    []string
	logger   *zap.Logger
}

// Compile-time guard.
var _ Collector = (*collector)(nil)

func (c *collector) Collect(ctx context.Context) (*Sample, error) {
	var (
		sample Sample
		errs   error
	)

	mem, err := c.readMemory(ctx)
	sample.Memory = mem
	errs = multierr.Append(errs, err)

	cpu, err := c.readCPU(ctx)
	sample.CPU = cpu
	errs = multierr.Append(errs, err)

	disk, err := c.readDisk(ctx)
	sample.Disk = disk
	errs = multierr.Append(errs, err)

	temps, err := c.readTemperature(ctx)
	sample.Temperature = temps
	errs = multierr.Append(errs, err)

	return &sample, errs
}

func (c *collector) readMemory(ctx context.Context) (*MemoryRecord, error) {
	rec, err := c.provider.Memory(ctx)
	if err != nil {
		return nil, &ReaderError{Family: FamilyMemory, Err: err}
	}
	return rec, nil
}

// readCPU keeps the CPU record when only the load average is unavailable.
func (c *collector) readCPU(ctx context.Context) (*CPURecord, error) {
	rec, err := c.provider.CPU(ctx)
	if err != nil {
		return nil, &ReaderError{Family: FamilyCPU, Err: err}
	}

	out := *rec
	out.Load = nil
	avg, err := c.provider.LoadAverage(ctx)
	if err != nil {
		return &out, &ReaderError{Family: FamilyCPU, Item: "load", Err: err}
	}
	out.Load = avg
	return &out, nil
}

// readDisk reads every configured path independently.
func (c *collector) readDisk(ctx context.Context) (DiskUsageRecord, error) {
	var errs error
	rec := make(DiskUsageRecord, 0, len(c.paths))
	for _, path := range c.paths {
		u, err := c.provider.DiskUsage(ctx, path)
		if err != nil {
			errs = multierr.Append(errs, &ReaderError{Family: FamilyDisk, Item: path, Err: err})
			continue
		}
		u.Path = path
		rec = append(rec, *u)
	}
	return rec, errs
}

func (c *collector) readTemperature(ctx context.Context) (TemperatureRecord, error) {
	rec, err := c.provider.Temperatures(ctx)
	if err != nil {
		return nil, &ReaderError{Family: FamilyTemperature, Err: err}
	}
	if len(rec) == 0 {
		c.logger.Debug("no temperature sensors found")
	}
	return rec, nil
}
