package metrics

import (
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

// sensorRecord converts a gopsutil sensors result. Each sensor key becomes
// its own unlabeled chip. Per-sensor warnings keep whatever was read and a
// platform without sensor support yields an empty record; any other error
// is returned.
func sensorRecord(stats []sensors.TemperatureStat, err error) (TemperatureRecord, error) {
	if err != nil && !sensorsPartial(err) {
		return nil, err
	}

	chips := newChipIndex()
	for _, s := range stats {
		r := Reading{Current: s.Temperature}
		if s.High != 0 {
			high := s.High
			r.High = &high
		}
		if s.Critical != 0 {
			crit := s.Critical
			r.Critical = &crit
		}
		chips.add(s.SensorKey, r)
	}
	return chips.record, nil
}

// sensorsPartial reports whether err only means some or all sensors are
// unavailable rather than that the query itself failed.
func sensorsPartial(err error) bool {
	var warnings *sensors.Warnings
	if errors.As(err, &warnings) {
		return true
	}
	// gopsutil keeps its not-implemented sentinel internal.
	return strings.Contains(err.Error(), "not implemented")
}
