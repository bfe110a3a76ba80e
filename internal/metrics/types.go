package metrics

import "fmt"

// Metric family names. They double as the field-name prefixes used when a
// sample is shaped.
const (
	FamilyMemory      = "memory"
	FamilyCPU         = "cpu"
	FamilyDisk        = "disk_usage"
	FamilyTemperature = "temperature"
)

// Sample is one collection cycle's worth of host metrics. A nil family
// means it could not be read this cycle.
type Sample struct {
	Memory      *MemoryRecord
	CPU         *CPURecord
	Disk        DiskUsageRecord
	Temperature TemperatureRecord
}

// MemoryRecord holds virtual memory totals in bytes.
type MemoryRecord struct {
	Total uint64
	Used  uint64
}

// LoadAverage holds the 1, 5 and 15 minute load averages.
type LoadAverage struct {
	Load1  float64
	Load5  float64
	Load15 float64
}

// CPURecord holds CPU counters. Load is nil on platforms without load
// averages.
type CPURecord struct {
	Count        uint32
	FrequencyMHz float64
	Percent      float64
	Load         *LoadAverage
}

// DiskUsage is the usage of the filesystem holding Path.
type DiskUsage struct {
	Path    string
	Total   uint64
	Used    uint64
	Free    uint64
	Percent float64
}

// DiskUsageRecord lists disk usage in configured path order.
type DiskUsageRecord []DiskUsage

// Reading is a single temperature input of a sensor chip, in Celsius.
type Reading struct {
	Label    string
	Current  float64
	High     *float64
	Critical *float64
}

// SensorChip groups the readings reported under one chip name.
type SensorChip struct {
	Name     string
	Readings []Reading
}

// TemperatureRecord lists sensor chips in the order the host reported them.
type TemperatureRecord []SensorChip

// ReaderError is a failure to read one metric family, or one item of it
// such as a single disk path.
type ReaderError struct {
	Family string
	Item   string
	Err    error
}

func (e *ReaderError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("read %s %s: %v", e.Family, e.Item, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Family, e.Err)
}

func (e *ReaderError) Unwrap() error { return e.Err }

// chipIndex builds a TemperatureRecord, merging readings of chips that
// share a name while keeping first-seen order.
type chipIndex struct {
	pos    map[string]int
	record TemperatureRecord
}

func newChipIndex() *chipIndex {
	return &chipIndex{pos: make(map[string]int), record: TemperatureRecord{}}
}

func (c *chipIndex) add(chip string, p Reading) {
	i, ok := c.pos[chip]
	if !ok {
		i = len(c.record)
		c.pos[chip] = i
		c.record = append(c.record, SensorChip{Name: chip})
	}
	c.record[i].Readings = append(c.record[i].Readings, p)
}
