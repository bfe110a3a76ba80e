package metrics

import "context"

// Provider reads raw counters from the host. Implementations must not
// share mutable state between calls beyond what the OS requires (CPU
// utilization is measured against the previous call).
type Provider interface {
	Memory(ctx context.Context) (*MemoryRecord, error)
	// CPU returns the CPU record without load averages.
	CPU(ctx context.Context) (*CPURecord, error)
	LoadAverage(ctx context.Context) (*LoadAverage, error)
	DiskUsage(ctx context.Context, path string) (*DiskUsage, error)
	// Temperatures returns an empty record when the host has no sensors.
	Temperatures(ctx context.Context) (TemperatureRecord, error)
}

// NewProvider returns the provider for the running host.
func NewProvider() Provider {
	return &hostProvider{}
}
