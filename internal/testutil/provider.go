package testutil

import (
	"context"
	"sync"

	"github.com/HerbHall/sysmon/internal/metrics"
)

// Compile-time interface check.
var _ metrics.Provider = (*FakeProvider)(nil)

// FakeProvider is a metrics.Provider serving canned records. Errors set on
// it are returned instead of the matching record.
type FakeProvider struct {
	mu sync.Mutex

	MemoryRecord *metrics.MemoryRecord
	CPURecord    *metrics.CPURecord
	Load         *metrics.LoadAverage
	Disks        map[string]metrics.DiskUsage
	Temps        metrics.TemperatureRecord

	MemoryErr error
	CPUErr    error
	LoadErr   error
	DiskErrs  map[string]error
	TempErr   error

	calls int
}

// NewFakeProvider returns a FakeProvider with plausible values for every
// family and a single "/" disk.
func NewFakeProvider() *FakeProvider {
	high, crit := 84.0, 100.0
	return &FakeProvider{
		MemoryRecord: &metrics.MemoryRecord{Total: 16 << 30, Used: 6 << 30},
		CPURecord:    &metrics.CPURecord{Count: 8, FrequencyMHz: 2400, Percent: 12.5},
		Load:         &metrics.LoadAverage{Load1: 0.5, Load5: 0.25, Load15: 0.125},
		Disks: map[string]metrics.DiskUsage{
			"/": {Total: 500 << 30, Used: 200 << 30, Free: 300 << 30, Percent: 40},
		},
		Temps: metrics.TemperatureRecord{
			{Name: "coretemp", Readings: []metrics.Reading{
				{Label: "Package id 0", Current: 45, High: &high, Critical: &crit},
				{Label: "Core 0", Current: 43, High: &high, Critical: &crit},
			}},
		},
		DiskErrs: map[string]error{},
	}
}

// Calls returns how many provider methods have been invoked.
func (p *FakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *FakeProvider) record() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
}

func (p *FakeProvider) Memory(_ context.Context) (*metrics.MemoryRecord, error) {
	p.record()
	if p.MemoryErr != nil {
		return nil, p.MemoryErr
	}
	m := *p.MemoryRecord
	return &m, nil
}

func (p *FakeProvider) CPU(_ context.Context) (*metrics.CPURecord, error) {
	p.record()
	if p.CPUErr != nil {
		return nil, p.CPUErr
	}
	c := *p.CPURecord
	return &c, nil
}

func (p *FakeProvider) LoadAverage(_ context.Context) (*metrics.LoadAverage, error) {
	p.record()
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	l := *p.Load
	return &l, nil
}

func (p *FakeProvider) DiskUsage(_ context.Context, path string) (*metrics.DiskUsage, error) {
	p.record()
	if err := p.DiskErrs[path]; err != nil {
		return nil, err
	}
	d := p.Disks[path]
	d.Path = path
	return &d, nil
}

func (p *FakeProvider) Temperatures(_ context.Context) (metrics.TemperatureRecord, error) {
	p.record()
	if p.TempErr != nil {
		return nil, p.TempErr
	}
	return p.Temps, nil
}
