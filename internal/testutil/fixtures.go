package testutil

import "github.com/HerbHall/sysmon/internal/metrics"

// NewSample returns a Sample with every family populated, suitable for
// test fixtures. Override individual families with options.
func NewSample(opts ...func(*metrics.Sample)) metrics.Sample {
	s := metrics.Sample{
		Memory: &metrics.MemoryRecord{Total: 8 << 30, Used: 3 << 30},
		CPU: &metrics.CPURecord{
			Count:        4,
			FrequencyMHz: 1800,
			Percent:      7.5,
			Load:         &metrics.LoadAverage{Load1: 1, Load5: 0.75, Load15: 0.5},
		},
		Disk: metrics.DiskUsageRecord{
			{Path: "/", Total: 100, Used: 40, Free: 60, Percent: 40},
		},
		Temperature: metrics.TemperatureRecord{
			{Name: "coretemp", Readings: []metrics.Reading{{Label: "Core 0", Current: 40}}},
		},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMemory sets the memory record.
func WithMemory(total, used uint64) func(*metrics.Sample) {
	return func(s *metrics.Sample) { s.Memory = &metrics.MemoryRecord{Total: total, Used: used} }
}

// WithCPU sets the CPU record.
func WithCPU(c metrics.CPURecord) func(*metrics.Sample) {
	return func(s *metrics.Sample) { s.CPU = &c }
}

// WithDisks sets the disk usage record.
func WithDisks(disks ...metrics.DiskUsage) func(*metrics.Sample) {
	return func(s *metrics.Sample) { s.Disk = disks }
}

// WithTemperatures sets the temperature record.
func WithTemperatures(chips ...metrics.SensorChip) func(*metrics.Sample) {
	return func(s *metrics.Sample) { s.Temperature = chips }
}

// WithoutFamilies clears every family.
func WithoutFamilies() func(*metrics.Sample) {
	return func(s *metrics.Sample) { *s = metrics.Sample{} }
}
