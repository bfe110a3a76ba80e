package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// hostProvider reads the local host through gopsutil.
type hostProvider struct{}

// Compile-time guard.
var _ Provider = (*hostProvider)(nil)

func (p *hostProvider) Memory(ctx context.Context) (*MemoryRecord, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("virtual memory: %w", err)
	}
	return &MemoryRecord{Total: vm.Total, Used: vm.Used}, nil
}

func (p *hostProvider) CPU(ctx context.Context) (*CPURecord, error) {
	count, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("cpu count: %w", err)
	}

	mhz, err := currentMHz(ctx)
	if err != nil {
		return nil, err
	}

	// Zero interval compares against the previous call; the first call
	// reports utilization since boot.
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return nil, errors.New("cpu percent: no values")
	}

	return &CPURecord{
		Count:        uint32(count),
		FrequencyMHz: mhz,
		Percent:      percents[0],
	}, nil
}

// currentMHz prefers the live cpufreq clock. gopsutil's Info().Mhz is the
// rated maximum on Linux, so it is only used where cpufreq is absent.
func currentMHz(ctx context.Context) (float64, error) {
	if mhz, ok := readCurrentMHz(os.DirFS(hostSys())); ok {
		return mhz, nil
	}

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("cpu info: %w", err)
	}
	var mhz float64
	for _, info := range infos {
		mhz += info.Mhz
	}
	if len(infos) > 0 {
		mhz /= float64(len(infos))
	}
	return mhz, nil
}

func (p *hostProvider) LoadAverage(ctx context.Context) (*LoadAverage, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load average: %w", err)
	}
	return &LoadAverage{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func (p *hostProvider) DiskUsage(ctx context.Context, path string) (*DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("disk usage: %w", err)
	}
	return &DiskUsage{
		Path:    path,
		Total:   u.Total,
		Used:    u.Used,
		Free:    u.Free,
		Percent: u.UsedPercent,
	}, nil
}

func (p *hostProvider) Temperatures(ctx context.Context) (TemperatureRecord, error) {
	return readTemperatures(ctx)
}
