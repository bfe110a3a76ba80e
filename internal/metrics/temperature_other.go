//go:build !linux

package metrics

import (
	"context"

	"github.com/shirou/gopsutil/v4/sensors"
)

// readTemperatures uses gopsutil where sysfs is not available.
func readTemperatures(ctx context.Context) (TemperatureRecord, error) {
	return sensorRecord(sensors.TemperaturesWithContext(ctx))
}
