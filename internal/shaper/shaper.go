// Package shaper flattens a metrics.Sample into a single set of named
// scalar fields for a wide-format time-series write.
//
// Field names are part of the stored schema and must not change:
//
//	memory_total, memory_used
//	cpu_count, cpu_frequency, cpu_percent, cpu_load_1, cpu_load_5, cpu_load_15
//	disk_usage_{path}_total, _used, _free, _percent   (path verbatim, slashes included)
//	{chip}_{label}_{i}_current                         (label spaces become "_", omitted when empty)
package shaper

import (
	"fmt"
	"strings"

	"github.com/HerbHall/sysmon/internal/metrics"
)

// FieldSet maps field names to int64 or float64 values.
type FieldSet map[string]interface{}

// Options tune the flattened schema.
type Options struct {
	// TemperatureThresholds also emits {reading}_high and {reading}_critical
	// for readings that report them.
	TemperatureThresholds bool
}

// Shape flattens s. It has no side effects and the same sample always
// yields the same fields. Absent values are omitted; zero values are not.
func Shape(s metrics.Sample, opts Options) FieldSet {
	fields := make(FieldSet)
	shapeMemory(fields, s.Memory)
	shapeCPU(fields, s.CPU)
	shapeDisk(fields, s.Disk)
	shapeTemperature(fields, s.Temperature, opts)
	return fields
}

func shapeMemory(fields FieldSet, m *metrics.MemoryRecord) {
	if m == nil {
		return
	}
	fields["memory_total"] = int64(m.Total)
	fields["memory_used"] = int64(m.Used)
}

func shapeCPU(fields FieldSet, c *metrics.CPURecord) {
	if c == nil {
		return
	}
	fields["cpu_count"] = int64(c.Count)
	fields["cpu_frequency"] = c.FrequencyMHz
	fields["cpu_percent"] = c.Percent
	if c.Load != nil {
		fields["cpu_load_1"] = c.Load.Load1
		fields["cpu_load_5"] = c.Load.Load5
		fields["cpu_load_15"] = c.Load.Load15
	}
}

func shapeDisk(fields FieldSet, disks metrics.DiskUsageRecord) {
	for _, d := range disks {
		prefix := metrics.FamilyDisk + "_" + d.Path
		fields[prefix+"_total"] = int64(d.Total)
		fields[prefix+"_used"] = int64(d.Used)
		fields[prefix+"_free"] = int64(d.Free)
		fields[prefix+"_percent"] = d.Percent
	}
}

func shapeTemperature(fields FieldSet, chips metrics.TemperatureRecord, opts Options) {
	for _, chip := range chips {
		for i, p := range chip.Readings {
			prefix := readingPrefix(chip.Name, p.Label, i)
			fields[prefix+"_current"] = p.Current
			if !opts.TemperatureThresholds {
				continue
			}
			if p.High != nil {
				fields[prefix+"_high"] = *p.High
			}
			if p.Critical != nil {
				fields[prefix+"_critical"] = *p.Critical
			}
		}
	}
}

// readingPrefix returns the field-name prefix of the index-th reading of chip.
func readingPrefix(chip, label string, index int) string {
	if label != "" {
		return fmt.Sprintf("%s_%s_%d", chip, strings.ReplaceAll(label, " ", "_"), index)
	}
	return fmt.Sprintf("%s_%d", chip, index)
}
