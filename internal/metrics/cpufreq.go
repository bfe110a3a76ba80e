package metrics

import (
	"io/fs"
	"os"
	"sort"
	"strconv"
)

// hostSys returns the sysfs mount point, honoring HOST_SYS the same way
// gopsutil does for containerized agents.
func hostSys() string {
	if v := os.Getenv("HOST_SYS"); v != "" {
		return v
	}
	return "/sys"
}

// readCurrentMHz averages the current clock of every CPU that exposes
// cpufreq under a sysfs tree rooted at fsys. Values are in kHz on disk.
// ok is false when no CPU reports a readable current frequency.
func readCurrentMHz(fsys fs.FS) (mhz float64, ok bool) {
	cpus, err := fs.Glob(fsys, "devices/system/cpu/cpu[0-9]*/cpufreq")
	if err != nil {
		return 0, false
	}
	sort.Strings(cpus)

	var sum float64
	var n int
	for _, dir := range cpus {
		khz, err := readKHz(fsys, dir+"/scaling_cur_freq")
		if err != nil {
			khz, err = readKHz(fsys, dir+"/cpuinfo_cur_freq")
			if err != nil {
				continue
			}
		}
		sum += khz / 1000
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func readKHz(fsys fs.FS, name string) (float64, error) {
	s, err := readTrimmed(fsys, name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}
