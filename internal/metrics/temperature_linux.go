//go:build linux

package metrics

import (
	"context"
	"os"
)

// readTemperatures reads sysfs directly so chip names and reading labels are
// kept apart, as lm-sensors reports them.
func readTemperatures(ctx context.Context) (TemperatureRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readSysfsTemperatures(os.DirFS(hostSys()))
}
